package cobra

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/releasewarrior/internal/core"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
)

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts and print them to stdout.

Arguments:
  shell    target shell: bash, zsh or fish

Installation:

  bash:
    releasewarrior completion bash > ~/.local/share/bash-completion/completions/releasewarrior

  zsh (with fpath):
    releasewarrior completion zsh > ~/.zsh/completions/_releasewarrior

  fish:
    releasewarrior completion fish > ~/.config/fish/completions/releasewarrior.fish`,
		Args:      exactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			var err error
			switch args[0] {
			case "bash":
				err = root.GenBashCompletionV2(out, true)
			case "zsh":
				err = root.GenZshCompletion(out)
			case "fish":
				err = root.GenFishCompletion(out, true)
			default:
				return errors.New(errors.EUsage, fmt.Sprintf("unsupported shell: %s (supported: bash, zsh, fish)", args[0]))
			}
			if err != nil {
				return errors.Wrap(errors.EInternal, "failed to generate completion script", err)
			}
			return nil
		},
	}
	return cmd
}

// completeProduct completes the product argument of release commands.
func completeProduct(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, p := range core.Products {
		if strings.HasPrefix(string(p), toComplete) {
			out = append(out, string(p))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
