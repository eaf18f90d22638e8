package cli

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlpretty/internal/cli/commands"
)

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sqlpretty.

To load completions:

Bash:
  $ source <(sqlpretty completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sqlpretty completion bash > /etc/bash_completion.d/sqlpretty
  # macOS:
  $ sqlpretty completion bash > $(brew --prefix)/etc/bash_completion.d/sqlpretty

Zsh:
  $ sqlpretty completion zsh > "${fpath[1]}/_sqlpretty"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ sqlpretty completion fish > ~/.config/fish/completions/sqlpretty.fish

PowerShell:
  PS> sqlpretty completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  commands.UsageArgs(cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
