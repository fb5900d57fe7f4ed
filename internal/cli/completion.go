package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell
// completions. Upgrade IDs complete for --purchased, read from the catalog the
// command would load.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for upgradetree.

To load completions:

Bash:
  $ source <(upgradetree completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ upgradetree completion bash > /etc/bash_completion.d/upgradetree
  # macOS:
  $ upgradetree completion bash > $(brew --prefix)/etc/bash_completion.d/upgradetree

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ upgradetree completion zsh > "${fpath[1]}/_upgradetree"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ upgradetree completion fish | source

  # To load completions for each session, execute once:
  $ upgradetree completion fish > ~/.config/fish/completions/upgradetree.fish

PowerShell:
  PS> upgradetree completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> upgradetree completion powershell > upgradetree.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// registerCompletions attaches upgrade ID completion to every subcommand that
// takes a --purchased flag.
func (c *CLI) registerCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		if cmd.Flags().Lookup("purchased") != nil {
			_ = cmd.RegisterFlagCompletionFunc("purchased", c.completeUpgradeIDs)
		}
	}
}

// completeUpgradeIDs completes the last element of a comma-separated ID list.
func (c *CLI) completeUpgradeIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	defs, _, err := c.loadCatalog(args)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	done, partial := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, partial = toComplete[:i+1], toComplete[i+1:]
	}
	var ids []string
	for _, d := range defs {
		if strings.HasPrefix(d.ID, partial) {
			ids = append(ids, done+d.ID+"\t"+d.DisplayName())
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
