package commands

import (
	"context"

	"github.com/NielsdaWheelz/releasewarrior/internal/events"
	"github.com/NielsdaWheelz/releasewarrior/internal/lifecycle"
	"github.com/NielsdaWheelz/releasewarrior/internal/render"
	"github.com/NielsdaWheelz/releasewarrior/internal/store"
)

// NewBuildOpts holds options for the newbuild command.
type NewBuildOpts struct {
	TransitionOpts
	Product  string
	Version  string
	GraphIDs []string
}

// NewBuild starts a build attempt. The first attempt graduates the release
// from upcoming to inflight; later attempts abort the current one.
func NewBuild(ctx context.Context, d Deps, opts NewBuildOpts) error {
	id, err := identity(opts.Product, opts.Version, "")
	if err != nil {
		return err
	}

	return d.transition(ctx, "newbuild", id, opts.TransitionOpts, func(ctx context.Context, st *store.Store) (change, error) {
		rec, err := st.Load(id)
		if err != nil {
			return change{}, err
		}
		next, ch, err := lifecycle.StartBuild(rec.State, opts.GraphIDs)
		if err != nil {
			return change{}, err
		}

		c := change{
			state:     next,
			from:      rec.Paths,
			to:        rec.Paths,
			toLoc:     rec.Location,
			message:   lifecycle.NewBuildMessage(id, opts.GraphIDs),
			summary:   render.Summary{Buildnum: ch.Buildnum},
			eventData: events.NewBuildData(ch.Buildnum, ch.Aborted, opts.GraphIDs, ch.Graduate),
		}
		if ch.Graduate {
			c.to = st.PathsAt(id, store.Inflight)
			c.toLoc = store.Inflight
			c.move = true
		}
		return c, nil
	})
}
