package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlpretty/internal/cli/config"
	"github.com/leapstack-labs/sqlpretty/internal/cli/output"
	"github.com/leapstack-labs/sqlpretty/pkg/highlight"
)

// StylesOptions holds options for the styles command.
type StylesOptions struct {
	Formatters bool
}

// NewStylesCommand creates the styles command.
func NewStylesCommand() *cobra.Command {
	opts := &StylesOptions{}
	cmd := &cobra.Command{
		Use:   "styles",
		Short: "List available highlight styles",
		Long: `List the chroma styles usable with --style, with the colors each gives
keywords, strings, numbers and comments.

With --formatters, list the terminal formatters usable with --formatter instead.`,
		Example: `  sqlpretty styles
  sqlpretty styles --formatters`,
		Args: UsageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStyles(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Formatters, "formatters", false, "List formatters instead of styles")
	return cmd
}

func runStyles(cmd *cobra.Command, opts *StylesOptions) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return &UsageError{Err: err}
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ColorMode(cfg.Color))
	logger := config.GetLogger(cmd.Context())

	if opts.Formatters {
		names := highlight.Formatters()
		detected := SelectFormatter(cfg, r)
		logger.Debug("listing formatters", "count", len(names))
		rows := make([]table.Row, 0, len(names))
		for _, name := range names {
			rows = append(rows, table.Row{name, marker(name == detected)})
		}
		r.Table(table.Row{"Formatter", "Detected"}, rows)
		return nil
	}

	names := highlight.Styles()
	logger.Debug("listing styles", "count", len(names))
	rows := make([]table.Row, 0, len(names))
	for _, name := range names {
		keyword, str, number, comment := highlight.StyleColors(name)
		rows = append(rows, table.Row{name, keyword, str, number, comment, marker(name == highlight.DefaultStyle)})
	}
	r.Table(table.Row{"Style", "Keyword", "String", "Number", "Comment", "Default"}, rows)
	return nil
}

func marker(ok bool) string {
	if ok {
		return "*"
	}
	return ""
}

// SelectFormatter returns the chroma formatter a run would use: noop when
// color is off, the configured formatter if any, otherwise the one matching
// the terminal.
func SelectFormatter(cfg *config.Config, r *output.Renderer) string {
	switch {
	case r.Mode() == output.ModeNever:
		return "noop"
	case cfg.Formatter != "":
		return cfg.Formatter
	default:
		return highlight.FormatterFor(r.Profile())
	}
}
