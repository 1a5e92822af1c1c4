package cobra

import (
	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/releasewarrior/internal/commands"
)

func newShowCmd(app *App) *cobra.Command {
	var data bool

	cmd := &cobra.Command{
		Use:               "show <product> <version>",
		Short:             "Show a tracked release",
		Long:              "Print the rendered wiki of a tracked release, or its JSON document with --data.",
		Args:              exactArgs(2),
		ValidArgsFunction: completeProduct,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.deps()
			if err != nil {
				return err
			}
			return commands.Show(cmd.Context(), d, commands.ShowOpts{
				Product: args[0],
				Version: args[1],
				Data:    data,
			})
		},
	}

	cmd.Flags().BoolVar(&data, "data", false, "print the JSON state document")

	return cmd
}
