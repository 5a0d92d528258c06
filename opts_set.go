package opts

// helpRow is one entry in a set's declaration-order child list: either a
// registered option or an inert plain-text row for help output.
type helpRow struct {
	opt  *Option
	text string
}

// OptionSet is the registry the matching engine resolves tokens against: a
// mapping of every alias of every registered option, the declaration-order
// row list used for help rendering, and the registered argument sources.
//
// An OptionSet is mutated only during the setup phase and is read-only during
// parsing.
type OptionSet struct {
	byAlias map[string]*Option
	rows    []helpRow
	sources []ArgumentSource
}

func NewOptionSet() *OptionSet {
	return &OptionSet{
		byAlias: make(map[string]*Option),
	}
}

// register indexes the option under every alias it declares. Duplicate
// aliases are a construction-time error.
func (s *OptionSet) register(o *Option) {
	for _, alias := range o.aliases {
		if prev, exists := s.byAlias[alias]; exists {
			setupPanicf("option %q: alias %q already registered by option %q", o.prototype, alias, prev.prototype)
		}
	}
	for _, alias := range o.aliases {
		s.byAlias[alias] = o
	}
	s.rows = append(s.rows, helpRow{opt: o})
}

// AddHandler registers an option driven by a raw *Invocation handler. This is
// the full-control form the typed Add helpers build on.
func (s *OptionSet) AddHandler(prototype, description string, maxValueCount int, handler func(*Invocation) error) *Option {
	o := newOption(prototype, description, maxValueCount, handler)
	s.register(o)
	return o
}

// Add registers a single-value option whose raw string value is passed to
// action. For no-value prototypes action receives the bare alias name; for
// optional-value prototypes it receives the zero string when the value was
// omitted.
func (s *OptionSet) Add(prototype, description string, action func(string)) *Option {
	if action == nil {
		setupPanicf("option %q: nil action", prototype)
	}
	return s.AddHandler(prototype, description, 1, func(inv *Invocation) error {
		v, err := inv.Value(0)
		if err != nil {
			return err
		}
		action(v)
		return nil
	})
}

// AddBool registers an option whose action receives whether the option was
// enabled: true for "-x", "-x+" and bundled forms, false for the "-x-"
// negation form.
func (s *OptionSet) AddBool(prototype, description string, action func(bool)) *Option {
	if action == nil {
		setupPanicf("option %q: nil action", prototype)
	}
	return s.AddHandler(prototype, description, 1, func(inv *Invocation) error {
		action(inv.seen())
		return nil
	})
}

// AddPair registers a two-slot key/value option (e.g. "D=" with the default
// ":" and "=" separators, accepting -Dkey=value). Reading the value slot of a
// required option that never received one surfaces the missing-value error.
func (s *OptionSet) AddPair(prototype, description string, action func(key, value string)) *Option {
	if action == nil {
		setupPanicf("option %q: nil action", prototype)
	}
	return s.AddHandler(prototype, description, 2, func(inv *Invocation) error {
		k, err := inv.Value(0)
		if err != nil {
			return err
		}
		v, err := inv.Value(1)
		if err != nil {
			return err
		}
		action(k, v)
		return nil
	})
}

// AddValue registers a single-value option converted through parse before
// action sees it. The parser is resolved statically at the call site; a
// conversion failure is reported with the option name attached. An omitted
// optional value yields T's zero value without calling parse.
func AddValue[T any](s *OptionSet, prototype, description string, parse func(string) (T, error), action func(T)) *Option {
	if parse == nil || action == nil {
		setupPanicf("option %q: nil parse or action", prototype)
	}
	return s.AddHandler(prototype, description, 1, func(inv *Invocation) error {
		text, err := inv.Value(0)
		if err != nil {
			return err
		}
		var v T
		if inv.seen() {
			v, err = parse(text)
			if err != nil {
				return newOptionError(inv.OptionName(),
					"could not convert string %q to type %T for option '%s'", text, v, inv.OptionName())
			}
		}
		action(v)
		return nil
	})
}

// AddText registers an inert plain-text row rendered between options in help
// output, in declaration order.
func (s *OptionSet) AddText(text string) {
	s.rows = append(s.rows, helpRow{text: text})
}

// AddSource registers an argument-source handler. Sources are offered tokens
// in registration order; the first that accepts wins.
func (s *OptionSet) AddSource(src ArgumentSource) {
	if src == nil {
		setupPanicf("nil argument source")
	}
	s.sources = append(s.sources, src)
}

// AddGroup flattens an inert group into the set: every option the group
// (transitively) collected is re-registered here with the group's activation
// predicate attached. Groups holding sub-commands must be added to a Command,
// not a bare OptionSet.
func (s *OptionSet) AddGroup(g *Group) {
	if len(g.commands) > 0 {
		setupPanicf("group contains sub-commands; add it to a Command instead")
	}
	s.adoptGroupOptions(g)
}

func (s *OptionSet) adoptGroupOptions(g *Group) {
	for _, row := range g.set.rows {
		if row.opt != nil {
			if g.activeIf != nil {
				row.opt.activeIf = append([]func() bool{g.activeIf}, row.opt.activeIf...)
			}
			s.register(row.opt)
		} else {
			s.rows = append(s.rows, row)
		}
	}
}

// lookupActive resolves an alias to its option, treating options whose group
// predicates do not currently hold as unregistered.
func (s *OptionSet) lookupActive(name string) *Option {
	if name == "" {
		return nil
	}
	o := s.byAlias[name]
	if o == nil || !o.active() {
		return nil
	}
	return o
}

// catchAll returns the active catch-all option, if one is registered.
func (s *OptionSet) catchAll() *Option {
	return s.lookupActive(CatchAllAlias)
}

// Group is an inert container for options and sub-commands that share an
// activation predicate. It is not a tree node: adding it to a Command (or
// OptionSet) unwraps it, individually re-parenting its members with the
// predicate attached. Nested groups AND their predicates together.
type Group struct {
	set      *OptionSet
	activeIf func() bool
	commands []*Command
}

// NewGroup creates a group whose members are active only while activeIf holds.
// A nil predicate means always active, which makes the group purely a
// help-layout convenience.
func NewGroup(activeIf func() bool) *Group {
	return &Group{
		set:      NewOptionSet(),
		activeIf: activeIf,
	}
}

func (g *Group) Add(prototype, description string, action func(string)) *Option {
	return g.set.Add(prototype, description, action)
}

func (g *Group) AddBool(prototype, description string, action func(bool)) *Option {
	return g.set.AddBool(prototype, description, action)
}

func (g *Group) AddPair(prototype, description string, action func(key, value string)) *Option {
	return g.set.AddPair(prototype, description, action)
}

func (g *Group) AddHandler(prototype, description string, maxValueCount int, handler func(*Invocation) error) *Option {
	return g.set.AddHandler(prototype, description, maxValueCount, handler)
}

func (g *Group) AddText(text string) {
	g.set.AddText(text)
}

// Options exposes the group's collected options, e.g. for AddValue.
func (g *Group) Options() *OptionSet {
	return g.set
}

// AddCommand collects a sub-command for later re-parenting into the command
// the group is added to.
func (g *Group) AddCommand(sub *Command) *Command {
	if sub == nil {
		setupPanicf("nil command")
	}
	if sub.parent != nil {
		setupPanicf("command %q already has a parent %q", sub.name, sub.parent.name)
	}
	g.commands = append(g.commands, sub)
	return sub
}

// AddGroup nests another group: the inner group's members join this group
// with both predicates chained.
func (g *Group) AddGroup(inner *Group) {
	g.set.adoptGroupOptions(inner)
	for _, sub := range inner.commands {
		if inner.activeIf != nil {
			sub.activeExtra = append(sub.activeExtra, inner.activeIf)
		}
		g.commands = append(g.commands, sub)
	}
	inner.commands = nil
}
