package cobra

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/releasewarrior/internal/commands"
	"github.com/NielsdaWheelz/releasewarrior/internal/config"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
)

func newInitCmd(app *App) *cobra.Command {
	var repoPath string
	var templatesDir string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write a default releasewarrior config pointing at a release pipeline checkout.
Defaults to the current directory; use --repo to target a different checkout.
With --templates-dir, the built-in templates are copied there for editing.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _, err := app.configPath()
			if err != nil {
				return err
			}

			if repoPath == "" {
				if repoPath, err = os.Getwd(); err != nil {
					return errors.Wrap(errors.EInternal, "failed to get working directory", err)
				}
			}
			repo, err := filepath.Abs(repoPath)
			if err != nil {
				return errors.Wrap(errors.EUsage, "invalid --repo path", err)
			}
			if templatesDir != "" {
				if templatesDir, err = filepath.Abs(templatesDir); err != nil {
					return errors.Wrap(errors.EUsage, "invalid --templates-dir path", err)
				}
			}

			d := app.baseDeps(config.Config{})
			return commands.Init(cmd.Context(), d, commands.InitOpts{
				ConfigPath:   path,
				Repo:         repo,
				TemplatesDir: templatesDir,
				Force:        force,
			})
		},
	}

	cmd.Flags().StringVar(&repoPath, "repo", "", "release pipeline checkout (default: current directory)")
	cmd.Flags().StringVar(&templatesDir, "templates-dir", "", "export the built-in templates here and use them")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}
