package prompt

import (
	"context"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/NielsdaWheelz/releasewarrior/internal/core"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/lifecycle"
	"github.com/NielsdaWheelz/releasewarrior/internal/tty"
)

// Interactive supplies a prerequisite by running the form on a terminal.
type Interactive struct {
	Title string
	Now   func() time.Time

	// Overridable for tests; default to the process TTY.
	In            io.Reader
	Out           io.Writer
	IsInteractive func() bool
}

// SupplyPrerequisite implements lifecycle.PrerequisiteSupplier.
func (s Interactive) SupplyPrerequisite(ctx context.Context) (lifecycle.Prerequisite, error) {
	isInteractive := s.IsInteractive
	if isInteractive == nil {
		isInteractive = tty.IsInteractive
	}
	if !isInteractive() {
		return lifecycle.Prerequisite{}, errors.NewWithDetails(
			errors.ENotInteractive,
			"adding a prerequisite needs a terminal",
			map[string]string{"hint": "pass --description (and optionally --bug, --deadline) instead"},
		)
	}

	var in io.Reader = os.Stdin
	if s.In != nil {
		in = s.In
	}
	var out io.Writer = os.Stderr
	if s.Out != nil {
		out = s.Out
	}

	model := NewModel(s.Title, core.Today(now(s.Now)))
	final, err := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	).Run()
	if err != nil {
		if ctx.Err() != nil {
			return lifecycle.Prerequisite{}, errors.Wrap(errors.EAborted, "prerequisite entry interrupted", ctx.Err())
		}
		return lifecycle.Prerequisite{}, errors.Wrap(errors.EInternal, "prerequisite form failed", err)
	}
	m, ok := final.(Model)
	if !ok {
		return lifecycle.Prerequisite{}, errors.New(errors.EInternal, "unexpected prerequisite form model")
	}
	return m.Result()
}

// Static supplies a prerequisite from command-line flags.
type Static struct {
	Bug         string
	Description string
	Deadline    string
	Now         func() time.Time
}

// SupplyPrerequisite implements lifecycle.PrerequisiteSupplier.
func (s Static) SupplyPrerequisite(context.Context) (lifecycle.Prerequisite, error) {
	return Complete(s.Bug, s.Description, s.Deadline, core.Today(now(s.Now)))
}

func now(f func() time.Time) time.Time {
	if f == nil {
		return time.Now()
	}
	return f()
}
