package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no user config and no
// SQLPRETTY_* or color environment.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, key := range []string{
		"SQLPRETTY_COLOR", "SQLPRETTY_STYLE", "SQLPRETTY_FORMATTER", "SQLPRETTY_VERBOSE", "SQLPRETTY_LOG_LEVEL",
		"NO_COLOR", "CLICOLOR", "CLICOLOR_FORCE", "COLORTERM",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

// withRootFlags gives cmd the persistent flags the root command defines
// and captures its stdout.
func withRootFlags(cmd *cobra.Command) *bytes.Buffer {
	cmd.PersistentFlags().String("config", "", "config file")
	cmd.PersistentFlags().String("color", "", "color mode")
	cmd.PersistentFlags().String("style", "", "highlight style")
	cmd.PersistentFlags().String("formatter", "", "highlight formatter")
	cmd.PersistentFlags().String("log-level", "", "log level")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	return buf
}
