// Package cli provides the command-line interface for sqlpretty.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlpretty/internal/cli/commands"
	"github.com/leapstack-labs/sqlpretty/internal/cli/config"
	"github.com/leapstack-labs/sqlpretty/internal/cli/output"
	"github.com/leapstack-labs/sqlpretty/internal/pipeline"
	"github.com/leapstack-labs/sqlpretty/pkg/format"
	"github.com/leapstack-labs/sqlpretty/pkg/highlight"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Exit codes.
const (
	ExitOK      = 0 // success
	ExitFailure = 1 // the run failed: I/O, formatting or highlighting
	ExitUsage   = 2 // the command line could not be understood
)

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "sqlpretty",
		Short: "Format and highlight SQL read from stdin",
		Long: `sqlpretty reads SQL from standard input until end of stream, lays it out
with fixed formatting rules, highlights it for the terminal and writes the
result to standard output.

Color is only used when standard output is a terminal unless --color says
otherwise. Nothing is written to standard output when the run fails.`,
		Example: `  echo 'select * from foo where id=1' | sqlpretty
  sqlpretty < query.sql
  pbpaste | sqlpretty --style github --color always | less -R`,
		Version: Version,
		Args:    commands.UsageArgs(cobra.NoArgs),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return &commands.UsageError{Err: err}
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg)
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ColorMode(cfg.Color))

			ctx := config.WithLogger(cmd.Context(), logger)
			ctx = context.WithValue(ctx, configKey{}, cfg)
			ctx = context.WithValue(ctx, rendererKey{}, renderer)
			cmd.SetContext(ctx)

			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFormat(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &commands.UsageError{Err: err}
	})

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.sqlpretty.yaml)")
	rootCmd.PersistentFlags().String("color", "", "When to color output (auto|always|never)")
	rootCmd.PersistentFlags().String("style", "", "Highlight style (see 'sqlpretty styles')")
	rootCmd.PersistentFlags().String("formatter", "", "Highlight formatter (default: detected from the terminal)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("color", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.ColorAuto, config.ColorAlways, config.ColorNever}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("style", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return highlight.Styles(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("formatter", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return highlight.Formatters(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(commands.BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}))
	rootCmd.AddCommand(commands.NewStylesCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// runFormat runs the stdin to stdout pipeline.
func runFormat(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	r := GetRenderer(ctx)
	logger := config.GetLogger(ctx)

	formatterName := commands.SelectFormatter(cfg, r)
	logger.Debug("highlighter", "style", cfg.Style, "formatter", formatterName, "tty", r.IsTTY())

	hl, err := highlight.New(highlight.WithStyle(cfg.Style), highlight.WithFormatter(formatterName))
	if err != nil {
		return fmt.Errorf("failed to create highlighter: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		Formatter:   pipeline.FormatterFunc(format.Format),
		Highlighter: hl,
		Logger:      logger,
	})
	return p.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}

// Execute runs the root command against the process streams and returns
// the exit code.
func Execute() int {
	return Run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// Run runs the root command with the given arguments and streams. Errors
// are reported once on stderr.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return ExitOK
	}

	cmdCtx := ctx
	if cmd != nil && cmd.Context() != nil {
		cmdCtx = cmd.Context()
	}
	config.GetLogger(cmdCtx).Debug("command failed", "error", fmt.Sprintf("%+v", err))

	r, ok := cmdCtx.Value(rendererKey{}).(*output.Renderer)
	if !ok {
		r = output.NewRenderer(stdout, stderr, output.ModeAuto)
	}
	r.Error(err)

	var usageErr *commands.UsageError
	if errors.As(err, &usageErr) {
		return ExitUsage
	}
	return ExitFailure
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	return &config.Config{
		Color:    config.DefaultColor,
		Style:    config.DefaultStyle,
		LogLevel: config.DefaultLogLevel,
	}
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	// Return default renderer if none in context
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
}
