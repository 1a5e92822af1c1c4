package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/NielsdaWheelz/releasewarrior/internal/config"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/fs"
	"github.com/NielsdaWheelz/releasewarrior/internal/git"
	"github.com/NielsdaWheelz/releasewarrior/internal/scaffold"
)

// InitOpts holds options for the init command.
type InitOpts struct {
	// ConfigPath is where the YAML config is written.
	ConfigPath string
	// Repo is the release pipeline checkout, absolute.
	Repo string
	// TemplatesDir, when set, receives copies of the built-in templates and
	// is recorded as templates_dir.
	TemplatesDir string
	Force        bool
}

// InitResult holds the result of the init command for output formatting.
type InitResult struct {
	ConfigPath       string
	ConfigState      string // "created" or "overwritten"
	Repo             string
	TemplatesDir     string
	TemplatesCreated []string
}

// Init implements the `releasewarrior init` command. It writes a default
// config pointing at the pipeline checkout and optionally exports the
// built-in templates for customization.
func Init(ctx context.Context, d Deps, opts InitOpts) error {
	if strings.TrimSpace(opts.Repo) == "" {
		return errors.New(errors.EUsage, "--repo is required")
	}

	repo := git.NewRepo(d.Runner, opts.Repo)
	if err := repo.CheckInstalled(); err != nil {
		return err
	}
	if err := repo.Verify(ctx); err != nil {
		return err
	}

	existed, err := fs.Exists(d.FS, opts.ConfigPath)
	if err != nil {
		return errors.Wrap(errors.EInternal, "failed to stat config file", err)
	}

	cfg := config.Default()
	cfg.ReleasePipelineRepo = opts.Repo
	cfg.TemplatesDir = opts.TemplatesDir
	if err := config.Write(d.FS, opts.ConfigPath, cfg, opts.Force); err != nil {
		return err
	}

	result := InitResult{
		ConfigPath:   opts.ConfigPath,
		ConfigState:  "created",
		Repo:         opts.Repo,
		TemplatesDir: opts.TemplatesDir,
	}
	if existed {
		result.ConfigState = "overwritten"
	}

	if opts.TemplatesDir != "" {
		created, err := scaffold.Export(d.FS, opts.TemplatesDir)
		if err != nil {
			return err
		}
		result.TemplatesCreated = created
	}

	d.Logger.Debug("config written", "config", opts.ConfigPath, "state", result.ConfigState)
	writeInitOutput(d.Stdout, result)
	return nil
}

// writeInitOutput writes the stable key: value output for init.
func writeInitOutput(w io.Writer, r InitResult) {
	_, _ = fmt.Fprintf(w, "config: %s\n", r.ConfigPath)
	_, _ = fmt.Fprintf(w, "config_state: %s\n", r.ConfigState)
	_, _ = fmt.Fprintf(w, "release_pipeline_repo: %s\n", r.Repo)
	if r.TemplatesDir == "" {
		_, _ = fmt.Fprintln(w, "templates: built-in")
		return
	}
	_, _ = fmt.Fprintf(w, "templates_dir: %s\n", r.TemplatesDir)
	created := "none"
	if len(r.TemplatesCreated) > 0 {
		created = strings.Join(r.TemplatesCreated, ", ")
	}
	_, _ = fmt.Fprintf(w, "templates_created: %s\n", created)
}
