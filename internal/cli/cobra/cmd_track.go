package cobra

import (
	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/releasewarrior/internal/commands"
)

func newTrackCmd(app *App) *cobra.Command {
	var date string
	var force bool

	cmd := &cobra.Command{
		Use:   "track <product> <version>",
		Short: "Start tracking an upcoming release",
		Long: `Start tracking an upcoming release.
Creates the data and wiki documents in the upcoming directory from the
product/branch template and commits them.

Arguments:
  product    firefox, devedition, fennec or thunderbird
  version    e.g. 60.0b3, 60.0, 60.0.1, 52.7.0esr`,
		Args:              exactArgs(2),
		ValidArgsFunction: completeProduct,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.deps()
			if err != nil {
				return err
			}
			return commands.Track(cmd.Context(), d, commands.TrackOpts{
				TransitionOpts: app.transitionOpts(),
				Product:        args[0],
				Version:        args[1],
				Date:           date,
				Force:          force,
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "go-to-build date, YYYY-MM-DD (default: today, US/Pacific)")
	cmd.Flags().BoolVar(&force, "force", false, "regenerate an existing upcoming release")

	return cmd
}
