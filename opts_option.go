package opts

import (
	"strings"
)

// Arity is the value arity of an option: whether it takes no value, an
// optional value, or a required value.
type Arity int

const (
	// ArityNone means the option takes no value.
	ArityNone Arity = iota
	// ArityOptional means a value may follow but can be omitted.
	ArityOptional
	// ArityRequired means a value is mandatory.
	ArityRequired
)

func (a Arity) String() string {
	switch a {
	case ArityNone:
		return "none"
	case ArityOptional:
		return "optional"
	case ArityRequired:
		return "required"
	}
	return "unknown"
}

// CatchAllAlias is the reserved alias that collects otherwise-unmatched
// positional tokens.
const CatchAllAlias = "<>"

// Option is a single registered option: a set of aliases compiled from a
// prototype string, a value arity, and the handler invoked when the matching
// engine resolves a token to it. Options are constructed once at registration
// time and immutable afterwards.
type Option struct {
	prototype     string
	description   string
	aliases       []string
	arity         Arity
	maxValueCount int
	separators    []string // nil means no splitting, one token per value
	hidden        bool
	handler       func(*Invocation) error
	activeIf      []func() bool // predicates inherited from flattened groups
}

// Aliases returns the option's alias names, terminators stripped. The first
// alias is canonical for usage text.
func (o *Option) Aliases() []string {
	return o.aliases
}

// Arity returns the option's value arity.
func (o *Option) Arity() Arity {
	return o.arity
}

// MaxValueCount returns how many values a single invocation accumulates.
func (o *Option) MaxValueCount() int {
	return o.maxValueCount
}

// ValueSeparators returns the separators used to split a single token into
// multiple values, or nil when each value must be a separate token.
func (o *Option) ValueSeparators() []string {
	return o.separators
}

// Description returns the help text registered with the option.
func (o *Option) Description() string {
	return o.description
}

// SetHidden suppresses the option from help output.
func (o *Option) SetHidden(hidden bool) *Option {
	o.hidden = hidden
	return o
}

// SetDescription replaces the option's help text.
func (o *Option) SetDescription(desc string) *Option {
	o.description = desc
	return o
}

func (o *Option) isCatchAll() bool {
	for _, a := range o.aliases {
		if a == CatchAllAlias {
			return true
		}
	}
	return false
}

// active reports whether every group predicate attached to the option holds.
func (o *Option) active() bool {
	for _, pred := range o.activeIf {
		if !pred() {
			return false
		}
	}
	return true
}

// newOption compiles a prototype string into an Option. Malformed prototypes
// are programmer bugs and panic with a *ProgrammingError.
func newOption(prototype, description string, maxValueCount int, handler func(*Invocation) error) *Option {
	if prototype == "" {
		setupPanicf("empty option prototype")
	}
	if maxValueCount < 0 {
		setupPanicf("option %q: maxValueCount must be >= 0, got %d", prototype, maxValueCount)
	}
	if handler == nil {
		setupPanicf("option %q: nil handler", prototype)
	}

	o := &Option{
		prototype:     prototype,
		description:   description,
		maxValueCount: maxValueCount,
		handler:       handler,
	}
	o.aliases = strings.Split(prototype, "|")
	o.arity = o.compilePrototype()

	if o.arity != ArityNone && maxValueCount == 0 {
		setupPanicf("option %q: cannot provide maxValueCount of 0 when a value is %s", prototype, o.arity)
	}
	if o.arity == ArityNone && maxValueCount > 1 {
		setupPanicf("option %q: cannot provide maxValueCount of %d when the option takes no value", prototype, maxValueCount)
	}
	if o.isCatchAll() &&
		((len(o.aliases) == 1 && o.arity != ArityNone) || (len(o.aliases) > 1 && o.maxValueCount > 1)) {
		setupPanicf("option %q: the catch-all option %q cannot require values", prototype, CatchAllAlias)
	}
	return o
}

// compilePrototype strips the arity terminators off o.aliases in place,
// collects any separator specifications, and returns the resulting arity.
// Each alias is name[=|:][separator-spec]; every terminator present must
// agree on '=' (required) vs ':' (optional).
func (o *Option) compilePrototype() Arity {
	var term byte
	var seps []string

	for i, alias := range o.aliases {
		if alias == "" {
			setupPanicf("option %q: empty alias name", o.prototype)
		}
		end := strings.IndexAny(alias, "=:")
		if end == -1 {
			continue
		}
		if end == 0 {
			setupPanicf("option %q: empty alias name", o.prototype)
		}
		o.aliases[i] = alias[:end]
		if term == 0 || term == alias[end] {
			term = alias[end]
		} else {
			setupPanicf("option %q: conflicting option types %q and %q", o.prototype, string(term), string(alias[end]))
		}
		seps = o.addSeparators(alias, end, seps)
	}

	if term == 0 {
		return ArityNone
	}
	if o.maxValueCount <= 1 && len(seps) != 0 {
		setupPanicf("option %q: cannot provide key/value separators for options taking %d value(s)", o.prototype, o.maxValueCount)
	}
	if o.maxValueCount > 1 {
		switch {
		case len(seps) == 0:
			o.separators = []string{":", "="}
		case len(seps) == 1 && seps[0] == "":
			o.separators = nil // "{}" means each value is a distinct token
		default:
			o.separators = seps
		}
	}
	if term == '=' {
		return ArityRequired
	}
	return ArityOptional
}

// addSeparators parses the separator spec trailing the terminator at alias[end]:
// a literal run of characters (one separator each) or brace-delimited strings.
func (o *Option) addSeparators(alias string, end int, seps []string) []string {
	start := -1
	for i := end + 1; i < len(alias); i++ {
		switch alias[i] {
		case '{':
			if start != -1 {
				setupPanicf("option %q: ill-formed name/value separator in %q", o.prototype, alias)
			}
			start = i + 1
		case '}':
			if start == -1 {
				setupPanicf("option %q: ill-formed name/value separator in %q", o.prototype, alias)
			}
			seps = append(seps, alias[start:i])
			start = -1
		default:
			if start == -1 {
				seps = append(seps, string(alias[i]))
			}
		}
	}
	if start != -1 {
		setupPanicf("option %q: ill-formed name/value separator in %q", o.prototype, alias)
	}
	return seps
}

// Invocation is the contract between the matching engine and an option's
// handler: the accumulated value buffer, the option name as the user typed it
// (prefix included), and the zero-based index of the current token within the
// whole argument stream, expansion-injected tokens included. An Invocation is
// only valid for the duration of the handler call.
type Invocation struct {
	option *Option
	name   string
	values []string
	index  int
	cmd    *Command // nil for bare OptionSet parses
}

// OptionName returns the matched option's display name as typed.
func (inv *Invocation) OptionName() string {
	return inv.name
}

// Index returns the zero-based index of the current token in the argument
// stream.
func (inv *Invocation) Index() int {
	return inv.index
}

// Command returns the command node whose parse produced this invocation, or
// nil when parsing a bare OptionSet.
func (inv *Invocation) Command() *Command {
	return inv.cmd
}

// Values returns the raw accumulated values. Fewer than MaxValueCount entries
// may be present; use Value to get the per-slot required-value check.
func (inv *Invocation) Values() []string {
	return inv.values
}

// Value returns the i-th accumulated value. Reading an unfilled slot of a
// required option yields the "missing required value" parse error - raised
// here, lazily, so an option may declare more required slots than a given
// handler actually reads. Reading past the slot raises nothing for optional
// and no-value options; the zero string is returned.
func (inv *Invocation) Value(i int) (string, error) {
	if i < 0 || i >= inv.option.maxValueCount {
		setupPanicf("option %q: value index %d out of range (maxValueCount %d)",
			inv.option.prototype, i, inv.option.maxValueCount)
	}
	if inv.option.arity == ArityRequired && i >= len(inv.values) {
		return "", newOptionError(inv.name, "missing required value for option '%s'", inv.name)
	}
	if i >= len(inv.values) {
		return "", nil
	}
	return inv.values[i], nil
}

// seen reports whether any value was attached, which is the enabled/disabled
// signal for no-value options (absent for the '-' negation form).
func (inv *Invocation) seen() bool {
	return len(inv.values) > 0
}
