package opts

import (
	"fmt"
	"strings"
)

// DumpTree renders a diagnostic view of the command tree: each node's path,
// activation state, registered options with their compiled shape, and
// sub-commands recursively. Meant for debugging setup code, not for end-user
// output.
func (c *Command) DumpTree() string {
	initializeColorFromEnv()
	var sb strings.Builder
	c.dumpNode(&sb, 0)
	return sb.String()
}

func (c *Command) dumpNode(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)

	header := c.Path()
	if depth > 0 {
		header = c.name
	}
	sb.WriteString(indent + greenBoldS(header))
	var traits []string
	if c.action != nil {
		traits = append(traits, "action")
	}
	if !c.selfActive() {
		traits = append(traits, "inactive")
	}
	if !c.helpEnabled {
		traits = append(traits, "no help")
	}
	if c.completionEnabled {
		traits = append(traits, "completion")
	}
	if len(traits) > 0 {
		sb.WriteString(" (" + strings.Join(traits, ", ") + ")")
	}
	sb.WriteString("\n")
	if c.description != "" {
		sb.WriteString(indent + "  " + c.description + "\n")
	}

	for _, row := range c.options.rows {
		if row.opt == nil {
			continue
		}
		sb.WriteString(indent + "  " + row.opt.dumpLine() + "\n")
	}
	for _, sub := range c.subOrder {
		sub.dumpNode(sb, depth+1)
	}
}

// dumpLine renders one option as its prototype plus the compiled shape:
// arity, value count, separators, and visibility state.
func (o *Option) dumpLine() string {
	var sb strings.Builder
	sb.WriteString(boldS(o.prototype))
	sb.WriteString(fmt.Sprintf("  arity=%s", o.arity))
	if o.arity != ArityNone {
		sb.WriteString(fmt.Sprintf(" values=%d", o.maxValueCount))
	}
	if len(o.separators) > 0 {
		sb.WriteString(fmt.Sprintf(" seps=%q", o.separators))
	}
	if o.hidden {
		sb.WriteString(" hidden")
	}
	if len(o.activeIf) > 0 {
		sb.WriteString(fmt.Sprintf(" predicates=%d", len(o.activeIf)))
	}
	if o.isCatchAll() {
		sb.WriteString(" catch-all")
	}
	return sb.String()
}
