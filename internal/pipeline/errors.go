package pipeline

import "fmt"

// Kind is a machine-readable failure category.
type Kind string

const (
	// IOFailure indicates input could not be read or output could not be written.
	IOFailure Kind = "io_failure"
	// FormatFailure indicates the formatter rejected the input.
	FormatFailure Kind = "format_failure"
	// UnexpectedFailure indicates any other failure, including highlighting
	// errors and cancellation.
	UnexpectedFailure Kind = "unexpected_failure"
)

// Error is a pipeline failure. Every failure aborts the run.
type Error struct {
	Kind   Kind
	State  State  // stage that failed
	Action string // what the stage was doing, e.g. "read input"
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Action, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Action)
}

func (e *Error) Unwrap() error { return e.Err }
