// Command releasewarrior tracks Firefox-family releases in a release
// pipeline git checkout.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/NielsdaWheelz/releasewarrior/internal/cli/cobra"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/tty"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cobra.NewApp(os.Stdout, os.Stderr)
	app.Styled = tty.IsTTY(os.Stdout)

	err := cobra.Execute(ctx, app, os.Args[1:])
	if err != nil {
		stop()
		// Use verbose mode if --verbose global flag was set
		errors.PrintWithOptions(os.Stderr, err, errors.PrintOptions{Verbose: app.Opts.Verbose})
		os.Exit(errors.ExitCode(err))
	}
}
