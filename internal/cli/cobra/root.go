// Package cobra provides the Cobra-based CLI command tree for releasewarrior.
package cobra

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/releasewarrior/internal/commands"
	"github.com/NielsdaWheelz/releasewarrior/internal/config"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/exec"
	"github.com/NielsdaWheelz/releasewarrior/internal/fs"
	"github.com/NielsdaWheelz/releasewarrior/internal/logging"
	"github.com/NielsdaWheelz/releasewarrior/internal/version"
)

// GlobalOpts holds global options parsed before subcommand dispatch.
type GlobalOpts struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	AllowDirty bool
	Verbose    bool
}

// App is the process wiring shared by every subcommand. main builds one;
// tests build their own with buffers and a fixed clock.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Level  *slog.LevelVar
	FS     fs.FS
	Runner exec.CommandRunner
	Now    func() time.Time

	// Styled enables colored table output.
	Styled bool
	// Interactive reports whether prompts can be shown; nil uses the TTY check.
	Interactive func() bool

	Opts GlobalOpts
}

// NewApp returns an App writing to stdout/stderr with the real filesystem,
// git runner and clock.
func NewApp(stdout, stderr io.Writer) *App {
	level := &slog.LevelVar{}
	level.Set(slog.LevelInfo)
	return &App{
		Stdout: stdout,
		Stderr: stderr,
		Logger: logging.New(logging.FormatText, stderr, level),
		Level:  level,
		FS:     fs.NewRealFS(),
		Runner: exec.NewRealRunner(),
		Now:    time.Now,
	}
}

// NewRootCmd creates the root cobra command for releasewarrior.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "releasewarrior",
		Short: "Track Firefox-family releases from upcoming to inflight",
		Long: `releasewarrior - release lifecycle tracker

Keeps one JSON state document and one rendered wiki page per release in a
release pipeline git checkout. Every change is committed with a descriptive
message; graduating a release to its first build moves it from the upcoming
to the inflight directory.`,
		Version:       version.FullVersion(),
		SilenceErrors: true, // main prints errors with codes
		SilenceUsage:  true,
	}
	rootCmd.SetOut(app.Stdout)
	rootCmd.SetErr(app.Stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.Opts.ConfigPath, "config", "", "config file (default $HOME/"+config.FileName+")")
	flags.StringVar(&app.Opts.LogLevel, "log-level", "info", "log verbosity (debug, info, warning, error)")
	flags.StringVar(&app.Opts.LogFormat, "log-format", "text", "log format (text, json)")
	flags.BoolVar(&app.Opts.AllowDirty, "allow-dirty", false, "proceed when the pipeline checkout has staged changes")
	flags.BoolVar(&app.Opts.Verbose, "verbose", false, "show detailed error context")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(app.Opts.LogLevel)
		if err != nil {
			return err
		}
		app.Level.Set(level)

		format, err := logging.ParseFormat(app.Opts.LogFormat)
		if err != nil {
			return err
		}
		if format != logging.FormatText {
			app.Logger = logging.New(format, app.Stderr, app.Level)
		}
		return nil
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrap(errors.EUsage, err.Error(), err)
	})
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		newInitCmd(app),
		newTrackCmd(app),
		newPrereqCmd(app),
		newNewBuildCmd(app),
		newLSCmd(app),
		newShowCmd(app),
		newCompletionCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command with args under ctx.
// This is the main entry point from main.go.
func Execute(ctx context.Context, app *App, args []string) error {
	rootCmd := NewRootCmd(app)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// configPath returns the --config value or the default location, and
// whether it was given explicitly.
func (a *App) configPath() (string, bool, error) {
	if a.Opts.ConfigPath != "" {
		p, err := filepath.Abs(a.Opts.ConfigPath)
		if err != nil {
			return "", false, errors.Wrap(errors.EUsage, "invalid --config path", err)
		}
		return p, true, nil
	}
	p, err := config.DefaultPath()
	return p, false, err
}

// deps loads the config and assembles the command dependencies.
func (a *App) deps() (commands.Deps, error) {
	path, explicit, err := a.configPath()
	if err != nil {
		return commands.Deps{}, err
	}
	cfg, err := config.Load(a.FS, path, explicit)
	if err != nil {
		return commands.Deps{}, err
	}
	a.Logger.Debug("config loaded", "config", path, "repo", cfg.ReleasePipelineRepo)
	return a.baseDeps(cfg), nil
}

func (a *App) baseDeps(cfg config.Config) commands.Deps {
	return commands.Deps{
		FS:     a.FS,
		Runner: a.Runner,
		Config: cfg,
		Logger: a.Logger,
		Now:    a.Now,
		Stdout: a.Stdout,
		Stderr: a.Stderr,
		Styled: a.Styled,
	}
}

func (a *App) transitionOpts() commands.TransitionOpts {
	return commands.TransitionOpts{AllowDirty: a.Opts.AllowDirty}
}

// exactArgs is cobra.ExactArgs with an E_USAGE error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.NewWithDetails(errors.EUsage,
				"expected "+argCount(n)+"; usage: "+cmd.UseLine(),
				map[string]string{"op": cmd.Name()})
		}
		return nil
	}
}

// maxArgs is cobra.MaximumNArgs with an E_USAGE error.
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return errors.NewWithDetails(errors.EUsage,
				"expected at most "+argCount(n)+"; usage: "+cmd.UseLine(),
				map[string]string{"op": cmd.Name()})
		}
		return nil
	}
}

func argCount(n int) string {
	switch n {
	case 0:
		return "no arguments"
	case 1:
		return "1 argument"
	default:
		return strconv.Itoa(n) + " arguments"
	}
}
