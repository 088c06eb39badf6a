package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/expect/packages/output"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for expect.

To load completions:

Bash:
  $ source <(expect completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ expect completion bash > /etc/bash_completion.d/expect
  # macOS:
  $ expect completion bash > $(brew --prefix)/etc/bash_completion.d/expect

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ expect completion zsh > "${fpath[1]}/_expect"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ expect completion fish | source

  # To load completions for each session, execute once:
  $ expect completion fish > ~/.config/fish/completions/expect.fish

PowerShell:
  PS> expect completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> expect completion powershell > expect.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(out)
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

// completeScenarioFiles offers directories and files with a scenario
// extension.
func completeScenarioFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"yaml", "yml", "json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats offers the render format names.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"ansi", "plain", "html", "json", "raw"}, cobra.ShellCompDirectiveNoFileComp
}

func completeOutputs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return output.Names, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(completionCmd)

	for _, c := range []*cobra.Command{runCmd, validateCmd, listCmd} {
		c.ValidArgsFunction = completeScenarioFiles
	}
}
