package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// completionCommand prints a shell completion script. Profile names and
// render formats complete from their builtin lists.
func (c *CLI) completionCommand() *cobra.Command {
	var noDesc bool

	cmd := &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Print a shell completion script",
		Long: `Print a completion script for the given shell on stdout.

  bash        source <(spiralstair completion bash)
  zsh         spiralstair completion zsh > "${fpath[1]}/_spiralstair"
  fish        spiralstair completion fish > ~/.config/fish/completions/spiralstair.fish
  powershell  spiralstair completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), cmd.OutOrStdout(), args[0], !noDesc)
		},
	}

	cmd.Flags().BoolVar(&noDesc, "no-descriptions", false, "omit flag and command descriptions")
	return cmd
}

func writeCompletion(root *cobra.Command, w io.Writer, shell string, desc bool) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, desc)
	case "zsh":
		if desc {
			return root.GenZshCompletion(w)
		}
		return root.GenZshCompletionNoDesc(w)
	case "fish":
		return root.GenFishCompletion(w, desc)
	case "powershell":
		if desc {
			return root.GenPowerShellCompletionWithDesc(w)
		}
		return root.GenPowerShellCompletion(w)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}
