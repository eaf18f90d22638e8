package commands

import "github.com/spf13/cobra"

// UsageError marks a command line the program cannot act on: an unknown
// flag, a bad flag value or an unexpected argument.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// UsageArgs wraps an argument validator so its failures are usage errors.
func UsageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}
