package cobra

import (
	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/releasewarrior/internal/commands"
)

func newLSCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "ls [product]",
		Short:             "List tracked releases",
		Long:              "List tracked releases with their location, current build and open prerequisites.",
		Args:              maxArgs(1),
		ValidArgsFunction: completeProduct,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.deps()
			if err != nil {
				return err
			}
			opts := commands.ListOpts{}
			if len(args) == 1 {
				opts.Product = args[0]
			}
			return commands.List(cmd.Context(), d, opts)
		},
	}
	return cmd
}
