package commands

import (
	"context"

	"github.com/NielsdaWheelz/releasewarrior/internal/core"
	"github.com/NielsdaWheelz/releasewarrior/internal/render"
)

// ListOpts holds options for the ls command.
type ListOpts struct {
	// Product limits the listing to one product. Empty lists all.
	Product string
}

// List prints the tracked releases found in the upcoming and inflight
// directories. Unreadable documents are listed as broken rather than
// failing the command.
func List(_ context.Context, d Deps, opts ListOpts) error {
	products := core.Products
	if opts.Product != "" {
		p, err := core.ParseProduct(opts.Product)
		if err != nil {
			return err
		}
		products = []core.Product{p}
	}

	entries, err := d.store().Scan(products)
	if err != nil {
		return err
	}

	rows := make([]render.ReleaseRow, 0, len(entries))
	for _, e := range entries {
		row := render.ReleaseRow{
			Product:  string(e.ID.Product),
			Version:  e.ID.Version,
			Branch:   e.ID.Branch,
			Location: string(e.Location),
			Broken:   e.Broken,
		}
		if e.State != nil {
			row.Date = e.State.Date
			row.Unresolved = e.State.UnresolvedPrerequisites()
			if b := e.State.Current(); b != nil {
				row.Buildnum = b.Buildnum
			}
		} else {
			d.Logger.Debug("unreadable release document", "data", e.Paths.Data)
		}
		rows = append(rows, row)
	}
	return render.WriteLS(d.Stdout, rows, d.Styled)
}
