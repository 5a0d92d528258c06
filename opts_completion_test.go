package opts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func complete(t *testing.T, app *Command, words ...string) (candidates []string, directive string) {
	t.Helper()
	stdout, _ := captureStreams(t)
	code := app.Run(append([]string{completionCommand}, words...))
	assert.Equal(t, 0, code)

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	last := lines[len(lines)-1]
	assert.True(t, strings.HasPrefix(last, ":"), "missing directive line in %q", stdout.String())
	return lines[:len(lines)-1], last
}

func newCompletionApp() *Command {
	app := NewCommand("app")
	app.EnableCompletion()
	app.AddBool("v|verbose", "", func(bool) {})
	app.Add("o|output=", "", func(string) {})
	remote := NewCommand("remote")
	remote.AddBool("tags", "", func(bool) {})
	remote.AddCommand(NewCommand("add"))
	remote.AddCommand(NewCommand("remove"))
	app.AddCommand(remote)
	app.AddCommand(NewCommand("run"))
	return app
}

func TestCompleteSubcommandNames(t *testing.T) {
	candidates, directive := complete(t, newCompletionApp(), "r")
	assert.Equal(t, []string{"remote", "run"}, candidates)
	assert.Equal(t, ":4", directive)
}

func TestCompleteNestedSubcommandNames(t *testing.T) {
	candidates, _ := complete(t, newCompletionApp(), "remote", "")
	assert.Equal(t, []string{"add", "remove"}, candidates)
}

func TestCompleteOptionFlags(t *testing.T) {
	candidates, directive := complete(t, newCompletionApp(), "--")
	assert.Equal(t, []string{"--help", "--output", "--verbose"}, candidates)
	assert.Equal(t, ":4", directive)

	candidates, _ = complete(t, newCompletionApp(), "--v")
	assert.Equal(t, []string{"--verbose"}, candidates)
}

func TestCompleteOptionFlagsSkipOptionWords(t *testing.T) {
	// Option words before the cursor must not derail the sub-command walk.
	candidates, _ := complete(t, newCompletionApp(), "--verbose", "remote", "--t")
	assert.Equal(t, []string{"--tags"}, candidates)
}

func TestCompleteNoMatchFallsBackToFiles(t *testing.T) {
	candidates, directive := complete(t, newCompletionApp(), "zzz")
	assert.Empty(t, candidates)
	assert.Equal(t, ":0", directive)
}

func TestCompleteDisabledByDefault(t *testing.T) {
	_, stderr := captureStreams(t)
	app := NewCommand("app")
	code := app.Run([]string{completionCommand, "r"})
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "unknown command or option: __complete")
}

func TestGenerateCompletionScript(t *testing.T) {
	app := NewCommand("app")

	bash, err := app.GenerateCompletionScript("bash")
	assert.NoError(t, err)
	assert.Contains(t, bash, "_app_completions()")
	assert.Contains(t, bash, "app __complete")

	zsh, err := app.GenerateCompletionScript("zsh")
	assert.NoError(t, err)
	assert.Contains(t, zsh, "#compdef app")
	assert.Contains(t, zsh, "compdef _app app")

	_, err = app.GenerateCompletionScript("fish")
	assert.Error(t, err)
}
