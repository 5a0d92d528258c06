package opts

import (
	"fmt"
	"os"
	"strings"

	"github.com/amterp/color"
	"golang.org/x/term"
)

var (
	greenBold  = color.New(color.FgGreen, color.Bold)
	cyan       = color.New(color.FgCyan)
	bold       = color.New(color.Bold)
	greenBoldS = greenBold.SprintfFunc()
	cyanS      = cyan.SprintfFunc()
	boldS      = bold.SprintfFunc()
)

// descColumn is the fixed column descriptions are aligned to, for both
// sub-command and option rows.
const descColumn = 30

func initializeColorFromEnv() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("OPTS_COLOR"))) {
	case "never":
		color.NoColor = true
	case "always":
		color.NoColor = false
	case "", "auto":
		// let the color package decide based on tty
	default:
		// invalid value - treat as auto
	}
}

// termWidth returns the column count of the output terminal, or 80 when the
// configured writer is not one.
func termWidth() int {
	if f, ok := stdoutWriter.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

// UsageText renders the command's help: the usage line, the description, the
// visible sub-commands, and the visible option rows in declaration order.
func (c *Command) UsageText() string {
	initializeColorFromEnv()
	c.ensureHelpOption()
	width := termWidth()

	var sb strings.Builder
	if c.description != "" {
		sb.WriteString(c.description + "\n\n")
	}
	sb.WriteString(greenBoldS("Usage:") + " " + c.usageLine() + "\n")

	if cmds := c.commandsSection(width); cmds != "" {
		sb.WriteString("\n" + greenBoldS("Commands:") + "\n" + cmds)
	}
	if opts := c.options.optionsSection(width); opts != "" {
		sb.WriteString("\n" + greenBoldS("Options:") + "\n" + opts)
	}
	return sb.String()
}

// usageLine applies the registered usage template, or synthesizes
// "<fullpath> [options] [command] [<catch-all description>]".
func (c *Command) usageLine() string {
	if c.usage != "" {
		return strings.ReplaceAll(c.usage, "{name}", c.Path())
	}
	var sb strings.Builder
	sb.WriteString(boldS(c.Path()))
	if c.options.hasVisibleOptions() {
		sb.WriteString(" " + cyanS("[options]"))
	}
	if len(c.visibleSubcommands()) > 0 {
		sb.WriteString(" " + cyanS("[command]"))
	}
	if def := c.options.catchAll(); def != nil {
		name := def.description
		if name == "" {
			name = "arguments"
		}
		sb.WriteString(" " + cyanS("[<%s>]", name))
	}
	return sb.String()
}

func (c *Command) visibleSubcommands() []*Command {
	var subs []*Command
	for _, sub := range c.subOrder {
		if sub.activeInChain() {
			subs = append(subs, sub)
		}
	}
	return subs
}

func (c *Command) commandsSection(width int) string {
	var sb strings.Builder
	for _, sub := range c.visibleSubcommands() {
		writeAlignedRow(&sb, "  "+sub.name, sub.description, width)
	}
	return sb.String()
}

func (s *OptionSet) hasVisibleOptions() bool {
	for _, row := range s.rows {
		if row.opt != nil && !row.opt.hidden && !row.opt.isCatchAll() && row.opt.active() {
			return true
		}
	}
	return false
}

// optionsSection renders option and plain-text rows in declaration order.
// The catch-all alias is never printed as a flag.
func (s *OptionSet) optionsSection(width int) string {
	var sb strings.Builder
	for _, row := range s.rows {
		if row.opt == nil {
			sb.WriteString(row.text + "\n")
			continue
		}
		o := row.opt
		if o.hidden || o.isCatchAll() || !o.active() {
			continue
		}
		writeAlignedRow(&sb, o.flagColumn(), o.description, width)
	}
	return sb.String()
}

// flagColumn renders the option's aliases as "-x, --longname[=VALUE]".
func (o *Option) flagColumn() string {
	parts := make([]string, 0, len(o.aliases))
	for _, alias := range o.aliases {
		if len(alias) == 1 {
			parts = append(parts, "-"+alias)
		} else {
			parts = append(parts, "--"+alias)
		}
	}
	indent := "  "
	if len(o.aliases[0]) > 1 {
		indent = "      "
	}
	return indent + strings.Join(parts, ", ") + o.valueSuffix()
}

func (o *Option) valueSuffix() string {
	if o.arity == ArityNone {
		return ""
	}
	sep := " "
	if len(o.separators) > 0 {
		sep = o.separators[0]
	}
	placeholder := "VALUE"
	if o.maxValueCount > 1 {
		names := make([]string, o.maxValueCount)
		for i := range names {
			names[i] = fmt.Sprintf("VALUE%d", i+1)
		}
		placeholder = strings.Join(names, sep)
	}
	if o.arity == ArityOptional {
		return "[=" + placeholder + "]"
	}
	return "=" + placeholder
}

// writeAlignedRow writes a name column padded to descColumn followed by the
// description wrapped to width, continuation lines indented to the same
// column. An over-long name column pushes the description to its own line.
func writeAlignedRow(sb *strings.Builder, left, desc string, width int) {
	if desc == "" {
		sb.WriteString(left + "\n")
		return
	}
	lines := wrapText(desc, width-descColumn)
	if len(left) > descColumn-2 {
		sb.WriteString(left + "\n")
		sb.WriteString(strings.Repeat(" ", descColumn) + lines[0] + "\n")
	} else {
		sb.WriteString(left + strings.Repeat(" ", descColumn-len(left)) + lines[0] + "\n")
	}
	for _, line := range lines[1:] {
		sb.WriteString(strings.Repeat(" ", descColumn) + line + "\n")
	}
}

// wrapText greedily word-wraps text to the given width. Width below a sane
// minimum disables wrapping rather than producing one-word lines.
func wrapText(text string, width int) []string {
	if width < 16 {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
