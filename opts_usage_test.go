package opts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func plainUsage(t *testing.T, c *Command) string {
	t.Helper()
	t.Setenv("OPTS_COLOR", "never")
	return c.UsageText()
}

func TestUsageTextLayout(t *testing.T) {
	app := NewCommand("app")
	app.SetDescription("Does app things.")
	app.Add("n|name=", "Your name.", func(string) {})
	app.AddBool("v|verbose", "Print more.", func(bool) {})
	app.AddCommand(NewCommand("commit")).SetDescription("Record changes.")

	text := plainUsage(t, app)

	assert.Contains(t, text, "Does app things.")
	assert.Contains(t, text, "Usage: app [options] [command]")
	assert.Contains(t, text, "Commands:")
	assert.Contains(t, text, "  commit")
	assert.Contains(t, text, "Record changes.")
	assert.Contains(t, text, "Options:")
	assert.Contains(t, text, "  -n, --name=VALUE")
	assert.Contains(t, text, "Your name.")
	assert.Contains(t, text, "  -v, --verbose")
	assert.Contains(t, text, "  -h, --help")
	assert.Contains(t, text, "Show this message and exit.")
}

func TestUsageValueSuffixes(t *testing.T) {
	app := NewCommand("app")
	app.Add("name=", "", func(string) {})
	app.Add("level:", "", func(string) {})
	app.AddPair("D=", "", func(string, string) {})
	app.AddHandler("list={,}", "", 3, func(*Invocation) error { return nil })

	text := plainUsage(t, app)

	assert.Contains(t, text, "--name=VALUE")
	assert.Contains(t, text, "--level[=VALUE]")
	assert.Contains(t, text, "-D=VALUE1:VALUE2")
	assert.Contains(t, text, "--list=VALUE1,VALUE2,VALUE3")
}

func TestUsageLongOnlyOptionsIndentDeeper(t *testing.T) {
	app := NewCommand("app")
	app.AddBool("verbose", "", func(bool) {})

	text := plainUsage(t, app)
	assert.Contains(t, text, "      --verbose")
}

func TestUsageHiddenAndInactiveOptionsOmitted(t *testing.T) {
	app := NewCommand("app")
	app.AddBool("visible", "", func(bool) {})
	app.AddBool("secret", "", func(bool) {}).SetHidden(true)
	g := NewGroup(func() bool { return false })
	g.AddBool("locked", "", func(bool) {})
	app.AddGroup(g)

	text := plainUsage(t, app)
	assert.Contains(t, text, "--visible")
	assert.NotContains(t, text, "--secret")
	assert.NotContains(t, text, "--locked")
}

func TestUsageCatchAllShownInUsageLineOnly(t *testing.T) {
	app := NewCommand("app")
	app.Add("<>", "files", func(string) {})

	text := plainUsage(t, app)
	assert.Contains(t, text, "Usage: app [options] [<files>]")
	assert.NotContains(t, text, "<>")
}

func TestUsageTextRowsRenderInDeclarationOrder(t *testing.T) {
	app := NewCommand("app")
	app.SetHelpEnabled(false)
	app.AddText("Connection:")
	app.AddBool("tls", "", func(bool) {})
	app.AddText("Output:")
	app.AddBool("json", "", func(bool) {})

	text := plainUsage(t, app)
	conn := strings.Index(text, "Connection:")
	tls := strings.Index(text, "--tls")
	out := strings.Index(text, "Output:")
	json := strings.Index(text, "--json")
	assert.True(t, conn >= 0 && tls > conn && out > tls && json > out, "rows out of order:\n%s", text)
}

func TestUsageInactiveSubcommandOmitted(t *testing.T) {
	app := NewCommand("app")
	app.AddCommand(NewCommand("shown"))
	app.AddCommand(NewCommand("gone")).SetActiveIf(func() bool { return false })

	text := plainUsage(t, app)
	assert.Contains(t, text, "shown")
	assert.NotContains(t, text, "gone")
}

func TestUsageAlignsDescriptionColumn(t *testing.T) {
	app := NewCommand("app")
	app.SetHelpEnabled(false)
	app.AddBool("a", "First.", func(bool) {})
	app.AddBool("long-option-name", "Second.", func(bool) {})

	text := plainUsage(t, app)
	for _, line := range strings.Split(text, "\n") {
		if i := strings.Index(line, "First."); i >= 0 {
			assert.Equal(t, descColumn, i)
		}
		if i := strings.Index(line, "Second."); i >= 0 {
			assert.Equal(t, descColumn, i)
		}
	}
	assert.Contains(t, text, "First.")
	assert.Contains(t, text, "Second.")
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 16)
	assert.Equal(t, []string{"one two three", "four five"}, lines)

	assert.Equal(t, []string{"untouched text"}, wrapText("untouched text", 10))
	assert.Equal(t, []string{""}, wrapText("   ", 40))
}
