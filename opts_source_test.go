package opts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeResponseFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "args.rsp")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResponseFileExpansion(t *testing.T) {
	path := writeResponseFile(t, "--name \"John Doe\"\n-v\npositional\n")

	set := NewOptionSet()
	var name string
	verbose := false
	set.Add("name=", "", func(v string) { name = v })
	set.AddBool("v", "", func(bool) { verbose = true })
	set.AddSource(ResponseFileSource{})

	extra, err := set.Parse([]string{"@" + path, "tail"})
	assert.NoError(t, err)
	assert.Equal(t, "John Doe", name)
	assert.True(t, verbose)
	assert.Equal(t, []string{"positional", "tail"}, extra)
}

func TestResponseFileNesting(t *testing.T) {
	inner := writeResponseFile(t, "-b")
	dir := t.TempDir()
	outer := filepath.Join(dir, "outer.rsp")
	assert.NoError(t, os.WriteFile(outer, []byte("-a @"+inner+" -c"), 0o644))

	set := NewOptionSet()
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		set.AddBool(name, "", func(bool) { order = append(order, name) })
	}
	set.AddSource(ResponseFileSource{})

	_, err := set.Parse([]string{"@" + outer})
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestResponseFileMissing(t *testing.T) {
	set := NewOptionSet()
	set.AddSource(ResponseFileSource{})

	_, err := set.Parse([]string{"@/definitely/not/a/file.rsp"})
	assert.Error(t, err)

	var oerr *OptionError
	assert.True(t, errors.As(err, &oerr))
	assert.Equal(t, "@/definitely/not/a/file.rsp", oerr.OptionName())
	assert.Contains(t, err.Error(), "could not read response file")
}

func TestResponseFileMalformed(t *testing.T) {
	path := writeResponseFile(t, `--name "unterminated`)

	set := NewOptionSet()
	set.Add("name=", "", func(string) {})
	set.AddSource(ResponseFileSource{})

	_, err := set.Parse([]string{"@" + path})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "malformed response file")
}

func TestResponseFileDeclinesNonPrefixedTokens(t *testing.T) {
	set := NewOptionSet()
	set.AddSource(ResponseFileSource{})

	extra, err := set.Parse([]string{"@", "plain"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"@", "plain"}, extra)
}

func TestSourceExpansionFeedsPendingOption(t *testing.T) {
	path := writeResponseFile(t, "expanded-value")

	set := NewOptionSet()
	var name string
	set.Add("name=", "", func(v string) { name = v })
	set.AddSource(ResponseFileSource{})

	extra, err := set.Parse([]string{"--name", "@" + path})
	assert.NoError(t, err)
	assert.Empty(t, extra)
	assert.Equal(t, "expanded-value", name)
}

func TestRawModeSkipsSources(t *testing.T) {
	set := NewOptionSet()
	set.AddSource(ArgumentSourceFunc(func(string) ([]string, bool, error) {
		t.Fatal("source must not be consulted in raw mode")
		return nil, false, nil
	}))

	extra, err := set.Parse([]string{"--", "@anything"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"@anything"}, extra)
}

func TestSourcesConsultedInRegistrationOrder(t *testing.T) {
	set := NewOptionSet()
	set.AddSource(ArgumentSourceFunc(func(tok string) ([]string, bool, error) {
		if tok == "magic" {
			return []string{"first"}, true, nil
		}
		return nil, false, nil
	}))
	set.AddSource(ArgumentSourceFunc(func(tok string) ([]string, bool, error) {
		if tok == "magic" {
			return []string{"second"}, true, nil
		}
		return nil, false, nil
	}))

	extra, err := set.Parse([]string{"magic"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"first"}, extra)
}

func TestSourceErrorAbortsParse(t *testing.T) {
	boom := errors.New("boom")
	set := NewOptionSet()
	invoked := false
	set.AddBool("v", "", func(bool) { invoked = true })
	set.AddSource(ArgumentSourceFunc(func(tok string) ([]string, bool, error) {
		if tok == "bad" {
			return nil, true, boom
		}
		return nil, false, nil
	}))

	_, err := set.Parse([]string{"bad", "-v"})
	assert.ErrorIs(t, err, boom)
	assert.False(t, invoked)
}
