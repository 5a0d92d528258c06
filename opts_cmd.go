package opts

import (
	"context"
	"fmt"
	"strings"
)

// Action is a command's terminal callback, invoked with the leftover
// positional arguments after parsing. The returned int is the process result
// code; a non-nil error aborts the invocation with the command path prefixed
// to its message and result code 1. The context is whatever the caller handed
// to RunContext - cancellation is the caller's concern, not the dispatcher's.
type Action func(ctx context.Context, args []string) (int, error)

// Command is a node of the command tree: the root application or a nested
// sub-command. Each node owns its option registry, its sub-commands, and an
// optional terminal action. The tree is built during a single-threaded setup
// phase and is read-only while a parse is in flight.
type Command struct {
	name        string
	description string
	activeIf    func() bool
	activeExtra []func() bool // predicates inherited from flattened groups
	parent      *Command
	options     *OptionSet
	subs        map[string]*Command
	subOrder    []*Command
	action      Action
	usage       string // usage template; "{name}" expands to the full path
	helpEnabled bool

	completionEnabled bool

	showHelp bool // set by the built-in help option during a parse
}

// NewCommand creates a command node. Internal whitespace runs in the name are
// collapsed to single spaces; an empty name is a construction error.
func NewCommand(name string) *Command {
	normalized := strings.Join(strings.Fields(name), " ")
	if normalized == "" {
		setupPanicf("empty command name")
	}
	return &Command{
		name:        normalized,
		options:     NewOptionSet(),
		subs:        make(map[string]*Command),
		helpEnabled: true,
	}
}

func (c *Command) Name() string {
	return c.name
}

// Path returns the full command path from the root, space-joined.
func (c *Command) Path() string {
	if c.parent == nil {
		return c.name
	}
	return c.parent.Path() + " " + c.name
}

func (c *Command) SetDescription(desc string) *Command {
	c.description = desc
	return c
}

// SetActiveIf installs the node's activation predicate. The node and
// everything it registers only participate in matching and help while the
// predicate (and every ancestor's) evaluates true; it is evaluated on demand,
// so options seen earlier in the same parse can flip it.
func (c *Command) SetActiveIf(pred func() bool) *Command {
	c.activeIf = pred
	return c
}

// SetAction installs the terminal action invoked with leftover positional
// arguments when no sub-command is dispatched.
func (c *Command) SetAction(action Action) *Command {
	c.action = action
	return c
}

// SetUsage replaces the synthesized usage line with a template; "{name}" is
// substituted with the command's full path.
func (c *Command) SetUsage(template string) *Command {
	c.usage = template
	return c
}

// SetHelpEnabled controls the automatic "h|help" option (default on).
func (c *Command) SetHelpEnabled(enabled bool) *Command {
	c.helpEnabled = enabled
	return c
}

// Options exposes the command's option registry.
func (c *Command) Options() *OptionSet {
	return c.options
}

// Add, AddBool, AddPair, AddHandler, AddText and AddSource mirror the
// OptionSet registrars for the command's own set.

func (c *Command) Add(prototype, description string, action func(string)) *Option {
	return c.options.Add(prototype, description, action)
}

func (c *Command) AddBool(prototype, description string, action func(bool)) *Option {
	return c.options.AddBool(prototype, description, action)
}

func (c *Command) AddPair(prototype, description string, action func(key, value string)) *Option {
	return c.options.AddPair(prototype, description, action)
}

func (c *Command) AddHandler(prototype, description string, maxValueCount int, handler func(*Invocation) error) *Option {
	return c.options.AddHandler(prototype, description, maxValueCount, handler)
}

func (c *Command) AddText(text string) {
	c.options.AddText(text)
}

func (c *Command) AddSource(src ArgumentSource) {
	c.options.AddSource(src)
}

// AddCommand attaches a sub-command. A node has at most one parent; attaching
// an already-parented node is a construction error.
func (c *Command) AddCommand(sub *Command) *Command {
	if sub == nil {
		setupPanicf("nil command")
	}
	if sub.parent != nil {
		setupPanicf("command %q already has a parent %q", sub.name, sub.parent.name)
	}
	if _, exists := c.subs[sub.name]; exists {
		setupPanicf("command %q already defined", sub.name)
	}
	sub.parent = c
	c.subs[sub.name] = sub
	c.subOrder = append(c.subOrder, sub)
	return sub
}

// AddGroup unwraps an inert group into this node: its options join the
// option registry and its sub-commands are re-parented here, all with the
// group's activation predicate attached.
func (c *Command) AddGroup(g *Group) {
	c.options.adoptGroupOptions(g)
	for _, sub := range g.commands {
		if g.activeIf != nil {
			sub.activeExtra = append(sub.activeExtra, g.activeIf)
		}
		c.AddCommand(sub)
	}
	g.commands = nil
}

// selfActive evaluates the node's own predicate plus any group predicates.
func (c *Command) selfActive() bool {
	if c.activeIf != nil && !c.activeIf() {
		return false
	}
	for _, pred := range c.activeExtra {
		if !pred() {
			return false
		}
	}
	return true
}

// activeInChain reports whether the node and every ancestor are active.
func (c *Command) activeInChain() bool {
	for n := c; n != nil; n = n.parent {
		if !n.selfActive() {
			return false
		}
	}
	return true
}

// activeSubcommand resolves name to a currently active direct sub-command.
func (c *Command) activeSubcommand(name string) *Command {
	sub := c.subs[name]
	if sub == nil || !sub.activeInChain() {
		return nil
	}
	return sub
}

// ensureHelpOption lazily registers the automatic "h|help" option.
func (c *Command) ensureHelpOption() {
	if !c.helpEnabled {
		return
	}
	if c.options.byAlias["help"] != nil || c.options.byAlias["h"] != nil {
		return
	}
	c.options.AddBool("h|help", "Show this message and exit.", func(enabled bool) {
		c.showHelp = enabled
	})
}

// Run parses args at this node and dispatches: recursively into a matched
// sub-command, or to the terminal action with the leftover positional
// arguments. It returns the process result code; parse errors and action
// errors are written to the configured error stream and yield 1.
func (c *Command) Run(args []string) int {
	return c.RunContext(context.Background(), args)
}

// RunOrExit runs the command and terminates the process with the result code.
func (c *Command) RunOrExit(args []string) {
	osExit(c.Run(args))
}

func (c *Command) RunContext(ctx context.Context, args []string) int {
	if c.completionEnabled && len(args) > 0 && args[0] == completionCommand {
		return c.handleCompletion(args[1:])
	}
	c.ensureHelpOption()
	c.showHelp = false

	extra, child, childArgs, err := c.options.parseArgs(args, c)
	if err != nil {
		c.reportError(err)
		return 1
	}
	if c.showHelp {
		fmt.Fprint(stdoutWriter, c.UsageText())
		return 0
	}
	if child != nil {
		return child.RunContext(ctx, childArgs)
	}
	if c.action != nil {
		code, err := c.action(ctx, extra)
		if err != nil {
			c.reportError(err)
			return 1
		}
		return code
	}
	if len(extra) > 0 {
		for _, tok := range extra {
			c.reportUnknown(tok)
		}
		c.writeHelpHint()
		return 1
	}
	// Nothing to dispatch and nothing to run: show usage.
	fmt.Fprint(stdoutWriter, c.UsageText())
	return 0
}

func (c *Command) reportError(err error) {
	fmt.Fprintf(stderrWriter, "%s: %s\n", c.Path(), err.Error())
	c.writeHelpHint()
}

func (c *Command) writeHelpHint() {
	if c.helpEnabled {
		fmt.Fprintf(stderrWriter, "Run '%s --help' for usage.\n", c.Path())
	}
}

// reportUnknown diagnoses one unresolved token, with a closest-match hint
// when a registered name is near enough.
func (c *Command) reportUnknown(tok string) {
	if m := tokenPattern.FindStringSubmatch(tok); m != nil {
		msg := fmt.Sprintf("%s: unknown option: %s", c.Path(), tok)
		if hit := closestMatch(m[2], c.optionNameCandidates()); hit != "" {
			msg += fmt.Sprintf(" (did you mean '--%s'?)", hit)
		}
		fmt.Fprintln(stderrWriter, msg)
		return
	}
	msg := fmt.Sprintf("%s: unknown command or option: %s", c.Path(), tok)
	if hit := closestMatch(tok, c.subcommandNameCandidates()); hit != "" {
		msg += fmt.Sprintf(" (did you mean '%s'?)", hit)
	}
	fmt.Fprintln(stderrWriter, msg)
}

func (c *Command) optionNameCandidates() []string {
	var names []string
	for _, row := range c.options.rows {
		if row.opt == nil || row.opt.hidden || row.opt.isCatchAll() {
			continue
		}
		names = append(names, row.opt.aliases...)
	}
	return names
}

func (c *Command) subcommandNameCandidates() []string {
	var names []string
	for _, sub := range c.subOrder {
		if sub.activeInChain() {
			names = append(names, sub.name)
		}
	}
	return names
}
