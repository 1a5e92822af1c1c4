package commands

import (
	"context"

	"github.com/NielsdaWheelz/releasewarrior/internal/events"
	"github.com/NielsdaWheelz/releasewarrior/internal/lifecycle"
	"github.com/NielsdaWheelz/releasewarrior/internal/store"
)

// PrereqOpts holds options for the prereq command.
type PrereqOpts struct {
	TransitionOpts
	Product string
	Version string

	// Resolve lists 1-based prerequisite ids to mark resolved. When empty a
	// new prerequisite is added from Supplier.
	Resolve  []string
	Supplier lifecycle.PrerequisiteSupplier
}

// Prereq resolves or adds preflight prerequisites of a tracked release.
// The document stays where it is.
func Prereq(ctx context.Context, d Deps, opts PrereqOpts) error {
	id, err := identity(opts.Product, opts.Version, "")
	if err != nil {
		return err
	}

	return d.transition(ctx, "prereq", id, opts.TransitionOpts, func(ctx context.Context, st *store.Store) (change, error) {
		rec, err := st.Load(id)
		if err != nil {
			return change{}, err
		}
		next, ch, err := lifecycle.UpdatePrerequisites(ctx, rec.State, opts.Resolve, opts.Supplier)
		if err != nil {
			return change{}, err
		}

		added := ""
		if ch.Added != nil {
			added = ch.Added.Description
		}
		return change{
			state:     next,
			from:      rec.Paths,
			to:        rec.Paths,
			toLoc:     rec.Location,
			message:   lifecycle.PrereqMessage(id, ch.Resolved),
			eventData: events.PrereqData(ch.Resolved, added),
		}, nil
	})
}
