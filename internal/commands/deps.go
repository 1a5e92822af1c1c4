// Package commands implements releasewarrior CLI commands.
package commands

import (
	"io"
	"log/slog"
	"time"

	"github.com/NielsdaWheelz/releasewarrior/internal/config"
	"github.com/NielsdaWheelz/releasewarrior/internal/core"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/exec"
	"github.com/NielsdaWheelz/releasewarrior/internal/fs"
	"github.com/NielsdaWheelz/releasewarrior/internal/git"
	"github.com/NielsdaWheelz/releasewarrior/internal/render"
	"github.com/NielsdaWheelz/releasewarrior/internal/scaffold"
	"github.com/NielsdaWheelz/releasewarrior/internal/store"
)

// Deps carries everything a command touches outside its own logic.
// The CLI builds one per invocation; tests swap in temp dirs and fakes.
type Deps struct {
	FS     fs.FS
	Runner exec.CommandRunner
	Config config.Config
	Logger *slog.Logger
	Now    func() time.Time

	Stdout io.Writer
	Stderr io.Writer

	// Styled enables lipgloss styling of table output.
	Styled bool
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d Deps) store() *store.Store {
	return store.NewStore(d.FS, d.Config)
}

func (d Deps) repo() *git.Repo {
	return git.NewRepo(d.Runner, d.Config.ReleasePipelineRepo)
}

func (d Deps) templates() scaffold.Source {
	return scaffold.Source{FS: d.FS, Dir: d.Config.TemplatesDir}
}

func (d Deps) renderer() *render.Renderer {
	return render.NewRenderer(d.templates(), d.Config)
}

// identity parses the product and version arguments shared by every
// release command.
func identity(product, version, date string) (core.Identity, error) {
	p, err := core.ParseProduct(product)
	if err != nil {
		return core.Identity{}, err
	}
	return core.NewIdentity(p, version, date)
}

// releaseDetails is the error context attached to every release command.
func releaseDetails(op string, id core.Identity) map[string]string {
	return map[string]string{"op": op, "release": id.Slug()}
}

func withOp(err error, op string, id core.Identity) error {
	if err == nil {
		return nil
	}
	return errors.WithDetails(err, releaseDetails(op, id))
}
