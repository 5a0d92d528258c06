package opts

import (
	"regexp"
	"strings"
)

// tokenPattern recognizes one argument token: a flag prefix, a name, and an
// optional inline value behind a '=' or ':' separator.
var tokenPattern = regexp.MustCompile(`^(--|-|/)([^:=]+)(?:([:=])(.*))?$`)

// parseContext is the scratch state of one in-flight parse at one command
// level: the pending option being filled with values, its accumulated buffer,
// the option's display name as typed, and the zero-based index of the current
// token within the whole argument stream, expansion-injected tokens included.
// It lives exactly as long as one parse call and is never shared.
type parseContext struct {
	cmd     *Command
	pending *Option
	values  []string
	name    string
	index   int
}

func (ctx *parseContext) begin(o *Option, name string) {
	ctx.pending = o
	ctx.name = name
	ctx.values = nil
}

func (ctx *parseContext) clear() {
	ctx.pending = nil
	ctx.name = ""
	ctx.values = nil
}

// invokePending hands the accumulated buffer to the pending option's handler
// and clears the pending slot.
func (ctx *parseContext) invokePending(values []string) error {
	o, name := ctx.pending, ctx.name
	ctx.clear()
	return o.handler(&Invocation{
		option: o,
		name:   name,
		values: values,
		index:  ctx.index,
		cmd:    ctx.cmd,
	})
}

// invoke fires a one-shot invocation without touching the pending slot.
func (ctx *parseContext) invoke(o *Option, name string, values []string) error {
	return o.handler(&Invocation{
		option: o,
		name:   name,
		values: values,
		index:  ctx.index,
		cmd:    ctx.cmd,
	})
}

// accumulate feeds one raw value into the pending option's buffer, splitting
// it on the option's separators into at most the remaining value budget
// (the remainder stays intact). The option is invoked as soon as the buffer
// is full, or immediately for optional arity, which is satisfied by zero or
// one value.
func (ctx *parseContext) accumulate(value string, hasValue bool) error {
	o := ctx.pending
	if hasValue {
		budget := o.maxValueCount - len(ctx.values)
		ctx.values = append(ctx.values, splitAny(value, o.separators, budget)...)
	}
	if len(ctx.values) > o.maxValueCount {
		return newOptionError(ctx.name, "found %d option values when expecting %d for option '%s'",
			len(ctx.values), o.maxValueCount, ctx.name)
	}
	if len(ctx.values) == o.maxValueCount || o.arity == ArityOptional {
		return ctx.invokePending(ctx.values)
	}
	return nil
}

// finalize invokes a still-pending option at a stream or dispatch boundary,
// even when its buffer holds fewer values than the maximum. Missing required
// values surface lazily when the handler reads the unfilled slot.
func (ctx *parseContext) finalize() error {
	if ctx.pending == nil {
		return nil
	}
	return ctx.invokePending(ctx.values)
}

// splitAny splits s into at most n pieces on the earliest occurrence of any
// separator, scanning left to right. Once the budget is down to one piece the
// remainder stays intact, separators included.
func splitAny(s string, seps []string, n int) []string {
	if len(seps) == 0 || n <= 1 {
		return []string{s}
	}
	out := make([]string, 0, n)
	for len(out) < n-1 {
		at, width := -1, 0
		for _, sep := range seps {
			if sep == "" {
				continue
			}
			if j := strings.Index(s, sep); j != -1 && (at == -1 || j < at) {
				at, width = j, len(sep)
			}
		}
		if at == -1 {
			break
		}
		out = append(out, s[:at])
		s = s[at+width:]
	}
	return append(out, s)
}

// argStream yields tokens left to right, with argument-source replacements
// spliced in at the front: a pushed replacement is fully consumed before the
// outer stream resumes.
type argStream struct {
	stack [][]string
}

func newArgStream(args []string) *argStream {
	return &argStream{stack: [][]string{args}}
}

func (a *argStream) next() (string, bool) {
	for len(a.stack) > 0 {
		top := a.stack[len(a.stack)-1]
		if len(top) == 0 {
			a.stack = a.stack[:len(a.stack)-1]
			continue
		}
		a.stack[len(a.stack)-1] = top[1:]
		return top[0], true
	}
	return "", false
}

func (a *argStream) push(tokens []string) {
	if len(tokens) > 0 {
		a.stack = append(a.stack, tokens)
	}
}

// rest drains the remaining tokens in consumption order.
func (a *argStream) rest() []string {
	var out []string
	for i := len(a.stack) - 1; i >= 0; i-- {
		out = append(out, a.stack[i]...)
	}
	a.stack = nil
	return out
}

// Parse resolves args against the set and returns the tokens that matched
// nothing (positional arguments), in encountered order. Registered options
// are invoked as they match; a catch-all option consumes what would otherwise
// be returned.
func (s *OptionSet) Parse(args []string) ([]string, error) {
	extra, _, _, err := s.parseArgs(args, nil)
	return extra, err
}

// parseArgs is the matching engine. It consumes tokens at one command level
// until the stream is exhausted or a token names an active sub-command of
// cmd, in which case the engine finalizes any pending option and returns the
// child together with the tokens remaining after its name.
//
// Per-token resolution order: raw-mode toggle, sub-command dispatch,
// argument-source expansion, pending-value feeding, then option matching
// (exact alias, boolean negation suffix, single-dash bundling), and finally
// positional routing to the catch-all option or the extra list.
func (s *OptionSet) parseArgs(args []string, cmd *Command) (extra []string, child *Command, childArgs []string, err error) {
	stream := newArgStream(args)
	ctx := &parseContext{cmd: cmd, index: -1}
	raw := false

	for {
		tok, ok := stream.next()
		if !ok {
			break
		}
		ctx.index++

		// "--" toggles raw mode once; a later "--" is a literal token.
		if !raw && tok == "--" {
			raw = true
			continue
		}

		if !raw && cmd != nil {
			if sub := cmd.activeSubcommand(tok); sub != nil {
				if err := ctx.finalize(); err != nil {
					return nil, nil, nil, err
				}
				return extra, sub, stream.rest(), nil
			}
		}

		if !raw {
			replacement, accepted, err := s.expandSource(tok)
			if err != nil {
				return nil, nil, nil, err
			}
			if accepted {
				stream.push(replacement)
				continue
			}
		}

		if ctx.pending != nil {
			if err := ctx.accumulate(tok, true); err != nil {
				return nil, nil, nil, err
			}
			continue
		}

		if !raw {
			matched, err := s.matchOption(tok, ctx)
			if err != nil {
				return nil, nil, nil, err
			}
			if matched {
				continue
			}
		}

		extra, err = s.unmatched(extra, ctx, tok)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	if err := ctx.finalize(); err != nil {
		return nil, nil, nil, err
	}
	return extra, nil, nil, nil
}

// expandSource offers the token to every registered argument source in
// registration order; the first that accepts wins.
func (s *OptionSet) expandSource(tok string) ([]string, bool, error) {
	for _, src := range s.sources {
		replacement, ok, err := src.Expand(tok)
		if err != nil {
			return nil, true, err
		}
		if ok {
			return replacement, true, nil
		}
	}
	return nil, false, nil
}

// unmatched routes a positional token: to the catch-all option as a single
// value when one is registered and active, otherwise onto the extra list.
// Catch-all invocations carry exactly one value, so the catch-all can never
// overflow its value count regardless of stream length.
func (s *OptionSet) unmatched(extra []string, ctx *parseContext, tok string) ([]string, error) {
	if def := s.catchAll(); def != nil {
		return extra, ctx.invoke(def, CatchAllAlias, []string{tok})
	}
	return append(extra, tok), nil
}

// matchOption attempts to resolve one token as an option invocation. Exact
// alias match takes priority over the negation-suffix match, which takes
// priority over bundling.
func (s *OptionSet) matchOption(tok string, ctx *parseContext) (bool, error) {
	m := tokenPattern.FindStringSubmatch(tok)
	if m == nil {
		return false, nil
	}
	flag, name, sep, value := m[1], m[2], m[3], m[4]
	hasValue := sep != ""

	// Exact alias lookup among the currently active options.
	if o := s.lookupActive(name); o != nil {
		ctx.begin(o, flag+name)
		if o.arity == ArityNone {
			// Any inline value is ignored; the bare name is the sole value.
			return true, ctx.invokePending([]string{name})
		}
		return true, ctx.accumulate(value, hasValue)
	}

	// Boolean negation: trailing '+' enables, trailing '-' disables a
	// no-value option.
	if n := len(name); n > 1 && (name[n-1] == '+' || name[n-1] == '-') {
		if o := s.lookupActive(name[:n-1]); o != nil && o.arity == ArityNone {
			ctx.begin(o, tok)
			if name[n-1] == '+' {
				return true, ctx.invokePending([]string{tok})
			}
			return true, ctx.invokePending(nil)
		}
	}

	return s.matchBundle(flag, name+sep+value, ctx)
}

// matchBundle walks a single-dash token character by character against
// single-character aliases. No-value options are invoked in place; the first
// value-taking option consumes the entire remainder of the string and ends
// the scan. A miss on the first character means the token is positional; a
// miss later is a hard error.
func (s *OptionSet) matchBundle(flag, bundle string, ctx *parseContext) (bool, error) {
	if flag != "-" {
		return false, nil
	}
	for i := 0; i < len(bundle); i++ {
		alias := string(bundle[i])
		o := s.lookupActive(alias)
		if o == nil {
			if i == 0 {
				return false, nil
			}
			return true, newOptionError("", "cannot use unregistered option '%s' in bundle '%s'", alias, flag+bundle)
		}
		if o.arity == ArityNone {
			if err := ctx.invoke(o, flag+alias, []string{alias}); err != nil {
				return true, err
			}
			continue
		}
		ctx.begin(o, flag+alias)
		rest := bundle[i+1:]
		return true, ctx.accumulate(rest, rest != "")
	}
	return true, nil
}
