package cobra

import (
	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/releasewarrior/internal/commands"
)

func newNewBuildCmd(app *App) *cobra.Command {
	var graphIDs []string

	cmd := &cobra.Command{
		Use:   "newbuild <product> <version>",
		Short: "Start a new build attempt",
		Long: `Start a new build attempt for a tracked release.
The first build moves the release from upcoming to inflight. Later builds
mark the current attempt aborted and carry its human tasks over, unresolved.`,
		Args:              exactArgs(2),
		ValidArgsFunction: completeProduct,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.deps()
			if err != nil {
				return err
			}
			return commands.NewBuild(cmd.Context(), d, commands.NewBuildOpts{
				TransitionOpts: app.transitionOpts(),
				Product:        args[0],
				Version:        args[1],
				GraphIDs:       graphIDs,
			})
		},
	}

	cmd.Flags().StringArrayVar(&graphIDs, "graphid", nil, "task graph id of the build (repeatable)")

	return cmd
}
