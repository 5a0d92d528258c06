package opts

import (
	"os"
	"strings"

	"github.com/google/shlex"
)

// ArgumentSource is a pluggable expander offered each token before option
// matching. Accepting a token replaces it with a finite, fully-materialized
// token sequence spliced into the front of the remaining stream and consumed
// depth-first. Expansion may block on I/O but is synchronous from the
// engine's perspective.
type ArgumentSource interface {
	// Expand returns (replacement, true, nil) to accept the token,
	// (nil, false, nil) to decline it, or an error to abort the parse.
	Expand(token string) (replacement []string, ok bool, err error)
}

// ArgumentSourceFunc adapts a function to the ArgumentSource interface.
type ArgumentSourceFunc func(token string) ([]string, bool, error)

func (f ArgumentSourceFunc) Expand(token string) ([]string, bool, error) {
	return f(token)
}

// ResponseFileSource expands "@path" tokens into the tokenization of the
// named file's contents: unquoted whitespace (newlines included) splits
// tokens, single and double quotes group content.
type ResponseFileSource struct{}

func (ResponseFileSource) Expand(token string) ([]string, bool, error) {
	if !strings.HasPrefix(token, "@") || len(token) < 2 {
		return nil, false, nil
	}
	path := token[1:]
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, true, newOptionError(token, "could not read response file %q: %v", path, err)
	}
	tokens, err := shlex.Split(string(data))
	if err != nil {
		return nil, true, newOptionError(token, "malformed response file %q: %v", path, err)
	}
	return tokens, true, nil
}
