package commands

import (
	"context"
	"io"
	"strings"

	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
)

// ShowOpts holds options for the show command.
type ShowOpts struct {
	Product string
	Version string

	// Data prints the JSON document instead of the rendered wiki.
	Data bool
}

// Show prints a tracked release. The wiki is rendered fresh from the data
// document, so it reflects the current template.
func Show(_ context.Context, d Deps, opts ShowOpts) error {
	id, err := identity(opts.Product, opts.Version, "")
	if err != nil {
		return err
	}

	rec, err := d.store().Load(id)
	if err != nil {
		return withOp(err, "show", id)
	}

	out := string(rec.Data)
	if !opts.Data {
		out, err = d.renderer().Render(id, rec.Data)
		if err != nil {
			return withOp(err, "show", id)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if _, err := io.WriteString(d.Stdout, out); err != nil {
		return errors.Wrap(errors.EInternal, "failed to write output", err)
	}
	return nil
}
