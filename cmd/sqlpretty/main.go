// Package main provides the sqlpretty command: format and highlight SQL
// from stdin.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/sqlpretty/internal/cli"
)

func main() {
	// A closed downstream reader must surface as an EPIPE write error,
	// not terminate the process silently.
	signal.Ignore(syscall.SIGPIPE)

	os.Exit(cli.Execute())
}
