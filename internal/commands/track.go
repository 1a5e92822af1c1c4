package commands

import (
	"context"

	"github.com/NielsdaWheelz/releasewarrior/internal/core"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/events"
	"github.com/NielsdaWheelz/releasewarrior/internal/lifecycle"
	"github.com/NielsdaWheelz/releasewarrior/internal/store"
)

// TrackOpts holds options for the track command.
type TrackOpts struct {
	TransitionOpts
	Product string
	Version string
	Date    string // YYYY-MM-DD; empty means today in the reference timezone
	Force   bool   // regenerate an existing upcoming document
}

// Track starts tracking an upcoming release: a fresh document built from
// the product/branch data template is committed to the upcoming directory.
func Track(ctx context.Context, d Deps, opts TrackOpts) error {
	date := opts.Date
	if date == "" {
		date = core.Today(d.now())
	}
	if _, err := core.ParseDate(date); err != nil {
		return err
	}
	id, err := identity(opts.Product, opts.Version, date)
	if err != nil {
		return err
	}

	return d.transition(ctx, "track", id, opts.TransitionOpts, func(ctx context.Context, st *store.Store) (change, error) {
		loc, paths, exists, err := st.Locate(id)
		if err != nil {
			return change{}, err
		}
		if exists && (loc == store.Inflight || !opts.Force) {
			details := map[string]string{"location": string(loc), "data": paths.Data}
			if loc == store.Inflight {
				details["hint"] = "inflight releases cannot be re-tracked"
			}
			return change{}, errors.NewWithDetails(errors.EAlreadyTracked,
				id.String()+" is already tracked", details)
		}

		name := d.Config.DataTemplate(id)
		raw, err := d.templates().Read(name)
		if err != nil {
			return change{}, err
		}
		tmpl, err := lifecycle.Decode(raw)
		if err != nil {
			return change{}, errors.WithDetails(err, map[string]string{"template": name})
		}
		if len(tmpl.Inflight) > 0 {
			return change{}, errors.NewWithDetails(errors.EStoreCorrupt,
				"data template already has build attempts", map[string]string{"template": name})
		}

		to := st.PathsAt(id, store.Upcoming)
		return change{
			state:     lifecycle.Track(tmpl, id),
			from:      to,
			to:        to,
			toLoc:     store.Upcoming,
			message:   lifecycle.TrackMessage(id),
			eventData: events.TrackData(string(store.Upcoming), id.Date, exists),
		}, nil
	})
}
