package cobra

import (
	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/releasewarrior/internal/commands"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/lifecycle"
	"github.com/NielsdaWheelz/releasewarrior/internal/prompt"
)

func newPrereqCmd(app *App) *cobra.Command {
	var resolve []string
	var bug, description, deadline string

	cmd := &cobra.Command{
		Use:   "prereq <product> <version>",
		Short: "Add or resolve release prerequisites",
		Long: `Add or resolve preflight prerequisites of a tracked release.

With --resolve, marks the given 1-based prerequisite ids resolved.
Otherwise adds one prerequisite: from --description (plus optional --bug and
--deadline) or, on a terminal, from an interactive form.`,
		Args:              exactArgs(2),
		ValidArgsFunction: completeProduct,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			fromFlags := flags.Changed("description") || flags.Changed("bug") || flags.Changed("deadline")
			if fromFlags && len(resolve) > 0 {
				return errors.New(errors.EUsage, "--resolve cannot be combined with --bug, --description or --deadline")
			}

			d, err := app.deps()
			if err != nil {
				return err
			}

			var supplier lifecycle.PrerequisiteSupplier
			if fromFlags {
				supplier = prompt.Static{Bug: bug, Description: description, Deadline: deadline, Now: app.Now}
			} else {
				supplier = prompt.Interactive{
					Title:         "New prerequisite for " + args[0] + " " + args[1],
					Now:           app.Now,
					IsInteractive: app.Interactive,
				}
			}

			return commands.Prereq(cmd.Context(), d, commands.PrereqOpts{
				TransitionOpts: app.transitionOpts(),
				Product:        args[0],
				Version:        args[1],
				Resolve:        resolve,
				Supplier:       supplier,
			})
		},
	}

	cmd.Flags().StringArrayVar(&resolve, "resolve", nil, "prerequisite id to mark resolved (repeatable)")
	cmd.Flags().StringVar(&bug, "bug", "", "tracking bug for a new prerequisite (default \"no bug\")")
	cmd.Flags().StringVar(&description, "description", "", "description of a new prerequisite")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline of a new prerequisite, free text (default: today)")

	return cmd
}
