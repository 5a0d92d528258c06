package opts

import "fmt"

// OptionError is the parse-time error kind: user input that could not be
// matched or converted. It carries the offending option name (as typed,
// prefix included) when one is known.
type OptionError struct {
	msg        string
	optionName string
}

func (e *OptionError) Error() string {
	return e.msg
}

// OptionName returns the name of the option the error relates to, as it
// appeared on the command line (e.g. "--name"). Empty when the error is not
// attributable to a single option.
func (e *OptionError) OptionName() string {
	return e.optionName
}

func newOptionError(optionName, format string, args ...any) *OptionError {
	return &OptionError{
		msg:        fmt.Sprintf(format, args...),
		optionName: optionName,
	}
}

// ProgrammingError wraps errors caused by incorrect library setup: malformed
// prototypes, duplicate aliases, illegal arity combinations, re-parenting a
// command that already has a parent. These are bugs in the code using the
// library, not user input errors, so registration panics with one instead of
// returning it - setup fails immediately and is never caught at parse time.
type ProgrammingError struct {
	msg string
}

func (e *ProgrammingError) Error() string {
	return e.msg
}

// NewProgrammingError creates a new programming error
func NewProgrammingError(msg string) *ProgrammingError {
	return &ProgrammingError{msg: msg}
}

func setupPanicf(format string, args ...any) {
	panic(NewProgrammingError(fmt.Sprintf(format, args...)))
}
