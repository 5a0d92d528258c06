package opts

import (
	"fmt"
	"sort"
	"strings"
)

// CompletionDirective is a bitmask that tells the shell how to interpret
// completion results.
type CompletionDirective int

const (
	// CompletionDirectiveDefault indicates normal completion behavior with
	// file completion fallback.
	CompletionDirectiveDefault CompletionDirective = 0
	// CompletionDirectiveError indicates an error occurred; results should be
	// ignored.
	CompletionDirectiveError CompletionDirective = 1
	// CompletionDirectiveNoSpace tells the shell not to add a trailing space
	// after the completion.
	CompletionDirectiveNoSpace CompletionDirective = 2
	// CompletionDirectiveNoFileComp tells the shell not to fall back to file
	// completion.
	CompletionDirectiveNoFileComp CompletionDirective = 4
)

// completionCommand is the hidden verb the generated shell scripts invoke to
// ask the binary for candidates.
const completionCommand = "__complete"

// EnableCompletion turns on shell completion support: the hidden __complete
// verb is recognized as the first argument and answered with candidates on
// stdout instead of a normal run.
func (c *Command) EnableCompletion() *Command {
	c.completionEnabled = true
	return c
}

// handleCompletion answers one __complete invocation: candidates one per
// line, then ":<directive>".
func (c *Command) handleCompletion(args []string) int {
	candidates, directive := c.computeCompletions(args)

	var sb strings.Builder
	for _, candidate := range candidates {
		sb.WriteString(candidate)
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, ":%d\n", int(directive))

	fmt.Fprint(stdoutWriter, sb.String())
	return 0
}

// computeCompletions resolves the command level the shell cursor sits at and
// collects the candidates for the final, partial word. All words before the
// last one only serve to descend the sub-command tree; option tokens and
// their values are skipped, and "--" ends the descent.
func (c *Command) computeCompletions(args []string) ([]string, CompletionDirective) {
	toComplete := ""
	if len(args) > 0 {
		toComplete = args[len(args)-1]
		args = args[:len(args)-1]
	}

	node := c
	node.ensureHelpOption()
	for _, arg := range args {
		if arg == "--" {
			return nil, CompletionDirectiveDefault
		}
		if strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "/") {
			continue
		}
		if sub := node.activeSubcommand(arg); sub != nil {
			node = sub
			node.ensureHelpOption()
		}
	}

	if strings.HasPrefix(toComplete, "-") || strings.HasPrefix(toComplete, "/") {
		return node.completeOptionFlags(toComplete), CompletionDirectiveNoFileComp
	}

	candidates := node.completeSubcommands(toComplete)
	if len(candidates) == 0 {
		return nil, CompletionDirectiveDefault
	}
	return candidates, CompletionDirectiveNoFileComp
}

// completeOptionFlags returns the visible option flags at this level matching
// the typed prefix, rendered with the prefix style per alias length.
func (c *Command) completeOptionFlags(prefix string) []string {
	var out []string
	for _, row := range c.options.rows {
		o := row.opt
		if o == nil || o.hidden || o.isCatchAll() || !o.active() {
			continue
		}
		for _, alias := range o.aliases {
			flag := "--" + alias
			if len(alias) == 1 {
				flag = "-" + alias
			}
			if strings.HasPrefix(flag, prefix) {
				out = append(out, flag)
			}
		}
	}
	sort.Strings(out)
	return out
}

func (c *Command) completeSubcommands(prefix string) []string {
	var out []string
	for _, sub := range c.visibleSubcommands() {
		if strings.HasPrefix(sub.name, prefix) {
			out = append(out, sub.name)
		}
	}
	sort.Strings(out)
	return out
}

// GenerateCompletionScript renders the completion script for the given shell
// ("bash" or "zsh"), wired to call the binary's __complete verb.
func (c *Command) GenerateCompletionScript(shell string) (string, error) {
	name := c.Path()
	switch shell {
	case "bash":
		return fmt.Sprintf(bashCompletionTemplate, name, name, name, name, name), nil
	case "zsh":
		return fmt.Sprintf(zshCompletionTemplate, name, name, name, name, name), nil
	}
	return "", fmt.Errorf("unsupported shell %q (supported: bash, zsh)", shell)
}
