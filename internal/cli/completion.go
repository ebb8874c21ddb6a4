package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sppgrowth.

To load completions:

Bash:
  $ source <(sppgrowth completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sppgrowth completion bash > /etc/bash_completion.d/sppgrowth
  # macOS:
  $ sppgrowth completion bash > $(brew --prefix)/etc/bash_completion.d/sppgrowth

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sppgrowth completion zsh > "${fpath[1]}/_sppgrowth"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ sppgrowth completion fish | source

  # To load completions for each session, execute once:
  $ sppgrowth completion fish > ~/.config/fish/completions/sppgrowth.fish

PowerShell:
  PS> sppgrowth completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> sppgrowth completion powershell > sppgrowth.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}
