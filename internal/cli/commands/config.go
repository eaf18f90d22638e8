package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sqlpretty/internal/cli/config"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration sqlpretty would run with, after merging defaults,
the config file, SQLPRETTY_* environment variables and flags.

The output is YAML and can be saved as a .sqlpretty.yaml file.`,
		Example: `  sqlpretty config
  sqlpretty config --style github > .sqlpretty.yaml`,
		Args: UsageArgs(cobra.NoArgs),
		RunE: runConfig,
	}
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return &UsageError{Err: err}
	}

	out := cmd.OutOrStdout()
	if cfg.File != "" {
		_, _ = fmt.Fprintf(out, "# loaded from %s\n", cfg.File)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
