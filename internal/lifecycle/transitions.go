package lifecycle

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/NielsdaWheelz/releasewarrior/internal/core"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
)

// Track builds a fresh document for id from a data template.
func Track(template State, id core.Identity) State {
	s := template.Clone()
	s.Version = id.Version
	s.Date = id.Date
	s.normalize()
	return s
}

// PrerequisiteSupplier provides a new prerequisite, typically by prompting
// the operator.
type PrerequisiteSupplier interface {
	SupplyPrerequisite(ctx context.Context) (Prerequisite, error)
}

// SupplierFunc adapts a function to PrerequisiteSupplier.
type SupplierFunc func(ctx context.Context) (Prerequisite, error)

// SupplyPrerequisite implements PrerequisiteSupplier.
func (f SupplierFunc) SupplyPrerequisite(ctx context.Context) (Prerequisite, error) {
	return f(ctx)
}

// PrereqChange describes what UpdatePrerequisites did.
type PrereqChange struct {
	Resolved []int        // 1-based ids, in the order given
	Added    *Prerequisite // set in add mode
}

// UpdatePrerequisites resolves the given 1-based ids, or, when ids is empty,
// appends one prerequisite obtained from supplier.
func UpdatePrerequisites(ctx context.Context, s State, ids []string, supplier PrerequisiteSupplier) (State, PrereqChange, error) {
	if len(ids) > 0 {
		indices, err := ParseIndices(ids, len(s.Preflight.HumanTasks))
		if err != nil {
			return State{}, PrereqChange{}, err
		}
		return ResolvePrerequisites(s, indices), PrereqChange{Resolved: indices}, nil
	}

	if supplier == nil {
		return State{}, PrereqChange{}, errors.New(errors.EInternal, "no prerequisite supplier configured")
	}
	p, err := supplier.SupplyPrerequisite(ctx)
	if err != nil {
		return State{}, PrereqChange{}, err
	}
	next := AddPrerequisite(s, p)
	added := next.Preflight.HumanTasks[len(next.Preflight.HumanTasks)-1]
	return next, PrereqChange{Added: &added}, nil
}

// ParseIndices converts operator-supplied 1-based ids and checks each is in
// 1..count. Nothing is returned unless every id is valid.
func ParseIndices(ids []string, count int) ([]int, error) {
	out := make([]int, 0, len(ids))
	for _, raw := range ids {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 1 || n > count {
			return nil, errors.NewWithDetails(
				errors.EInvalidPrereqIndex,
				fmt.Sprintf("prerequisite %q does not exist; valid ids are 1..%d", raw, count),
				map[string]string{"index": raw, "count": strconv.Itoa(count)},
			)
		}
		out = append(out, n)
	}
	return out, nil
}

// ResolvePrerequisites marks the given 1-based ids resolved. Ids must already
// be validated with ParseIndices. Resolving a resolved task is a no-op.
func ResolvePrerequisites(s State, ids []int) State {
	next := s.Clone()
	for _, id := range ids {
		next.Preflight.HumanTasks[id-1].Resolved = true
	}
	next.normalize()
	return next
}

// AddPrerequisite appends p, unresolved, in insertion order.
func AddPrerequisite(s State, p Prerequisite) State {
	next := s.Clone()
	if strings.TrimSpace(p.Bug) == "" {
		p.Bug = NoBug
	}
	p.Resolved = false
	next.Preflight.HumanTasks = append(next.Preflight.HumanTasks, p)
	next.normalize()
	return next
}

// BuildChange describes what StartBuild did.
type BuildChange struct {
	Buildnum int
	Aborted  int  // buildnum of the superseded attempt, 0 on the first build
	Graduate bool // first build: the document must move from upcoming to inflight
}

// StartBuild starts a new build attempt with the given graph ids.
//
// On the first attempt a buildnum 1 record with no tasks is appended and the
// change is flagged for graduation. Otherwise the current attempt is aborted
// and a successor is appended carrying its tasks, all unresolved, with no
// issues and only the new graph ids.
func StartBuild(s State, graphIDs []string) (State, BuildChange, error) {
	if err := s.Validate(); err != nil {
		return State{}, BuildChange{}, err
	}

	next := s.Clone()
	ids := append([]string{}, graphIDs...)

	prev := next.Current()
	if prev == nil {
		next.Inflight = append(next.Inflight, BuildAttempt{
			Buildnum:   1,
			GraphIDs:   ids,
			HumanTasks: []Prerequisite{},
			Issues:     []string{},
		})
		next.normalize()
		return next, BuildChange{Buildnum: 1, Graduate: true}, nil
	}

	successor := prev.clone()
	prev.Aborted = true
	for i := range successor.HumanTasks {
		successor.HumanTasks[i].Resolved = false
	}
	successor.Issues = []string{}
	successor.Buildnum = prev.Buildnum + 1
	successor.GraphIDs = ids
	successor.Aborted = false

	next.Inflight = append(next.Inflight, successor)
	next.normalize()
	if err := next.Validate(); err != nil {
		return State{}, BuildChange{}, errors.Wrap(errors.EInternal, "new build violates invariants", err)
	}
	return next, BuildChange{Buildnum: successor.Buildnum, Aborted: prev.Buildnum}, nil
}
