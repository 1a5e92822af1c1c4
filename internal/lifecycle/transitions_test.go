package lifecycle

import (
	"context"
	"reflect"
	"testing"

	"github.com/NielsdaWheelz/releasewarrior/internal/core"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
)

func testIdentity(t *testing.T, version string) core.Identity {
	t.Helper()
	id, err := core.NewIdentity(core.Firefox, version, "2024-01-15")
	if err != nil {
		t.Fatalf("NewIdentity() error = %v", err)
	}
	return id
}

func TestTrack(t *testing.T) {
	template := State{
		Version: "placeholder",
		Preflight: Preflight{HumanTasks: []Prerequisite{
			{Bug: NoBug, Description: "from template"},
		}},
	}

	got := Track(template, testIdentity(t, "60.0b3"))

	if got.Version != "60.0b3" || got.Date != "2024-01-15" {
		t.Errorf("Track() version/date = %q/%q", got.Version, got.Date)
	}
	if len(got.Preflight.HumanTasks) != 1 {
		t.Errorf("Track() dropped template tasks: %+v", got.Preflight.HumanTasks)
	}
	if got.Inflight == nil {
		t.Error("Track() left inflight nil")
	}

	got.Preflight.HumanTasks[0].Resolved = true
	if template.Preflight.HumanTasks[0].Resolved {
		t.Error("Track() aliases the template")
	}
}

func TestAddPrerequisite(t *testing.T) {
	s := State{Version: "60.0", Date: "2024-01-15"}
	p := Prerequisite{Bug: "1234567", Description: "update changelog", Deadline: "2024-02-01", Resolved: true}

	got := AddPrerequisite(s, p)

	want := []Prerequisite{{Bug: "1234567", Deadline: "2024-02-01", Description: "update changelog", Resolved: false}}
	if !reflect.DeepEqual(got.Preflight.HumanTasks, want) {
		t.Errorf("human_tasks = %+v, want %+v", got.Preflight.HumanTasks, want)
	}
	if len(s.Preflight.HumanTasks) != 0 {
		t.Error("AddPrerequisite() mutated its input")
	}

	got = AddPrerequisite(got, Prerequisite{Description: "second"})
	if got.Preflight.HumanTasks[1].Bug != NoBug {
		t.Errorf("empty bug = %q, want %q", got.Preflight.HumanTasks[1].Bug, NoBug)
	}
	if got.Preflight.HumanTasks[0].Description != "update changelog" {
		t.Error("insertion order not preserved")
	}
}

func TestParseIndices(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		count   int
		want    []int
		wantErr bool
	}{
		{"single", []string{"1"}, 3, []int{1}, false},
		{"several", []string{"3", "1"}, 3, []int{3, 1}, false},
		{"zero", []string{"0"}, 3, nil, true},
		{"past end", []string{"4"}, 3, nil, true},
		{"not a number", []string{"one"}, 3, nil, true},
		{"one bad among good", []string{"1", "9"}, 3, nil, true},
		{"no tasks", []string{"1"}, 0, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIndices(tt.ids, tt.count)
			if tt.wantErr {
				if errors.GetCode(err) != errors.EInvalidPrereqIndex {
					t.Fatalf("error = %v, want %s", err, errors.EInvalidPrereqIndex)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseIndices() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolvePrerequisites(t *testing.T) {
	s := State{Preflight: Preflight{HumanTasks: []Prerequisite{
		{Description: "a"},
		{Description: "b"},
		{Description: "c"},
	}}}

	once := ResolvePrerequisites(s, []int{2})
	for i, task := range once.Preflight.HumanTasks {
		if task.Resolved != (i == 1) {
			t.Errorf("task %d resolved = %v", i+1, task.Resolved)
		}
	}
	if s.Preflight.HumanTasks[1].Resolved {
		t.Error("ResolvePrerequisites() mutated its input")
	}

	twice := ResolvePrerequisites(once, []int{2})
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("resolve is not idempotent: %+v vs %+v", once, twice)
	}
}

type stubSupplier struct {
	p     Prerequisite
	err   error
	calls int
}

func (s *stubSupplier) SupplyPrerequisite(ctx context.Context) (Prerequisite, error) {
	s.calls++
	return s.p, s.err
}

func TestUpdatePrerequisites(t *testing.T) {
	base := State{Preflight: Preflight{HumanTasks: []Prerequisite{{Description: "a"}}}}

	t.Run("resolve mode does not prompt", func(t *testing.T) {
		sup := &stubSupplier{}
		got, change, err := UpdatePrerequisites(context.Background(), base, []string{"1"}, sup)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sup.calls != 0 {
			t.Error("supplier called in resolve mode")
		}
		if !got.Preflight.HumanTasks[0].Resolved {
			t.Error("task not resolved")
		}
		if !reflect.DeepEqual(change.Resolved, []int{1}) {
			t.Errorf("change.Resolved = %v", change.Resolved)
		}
	})

	t.Run("invalid id mutates nothing", func(t *testing.T) {
		_, _, err := UpdatePrerequisites(context.Background(), base, []string{"1", "2"}, nil)
		if errors.GetCode(err) != errors.EInvalidPrereqIndex {
			t.Fatalf("error = %v", err)
		}
		if base.Preflight.HumanTasks[0].Resolved {
			t.Error("input mutated")
		}
	})

	t.Run("add mode", func(t *testing.T) {
		sup := &stubSupplier{p: Prerequisite{Bug: "42", Description: "sign off", Deadline: "2024-02-01"}}
		got, change, err := UpdatePrerequisites(context.Background(), base, nil, sup)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.Preflight.HumanTasks) != 2 {
			t.Fatalf("human_tasks = %+v", got.Preflight.HumanTasks)
		}
		if change.Added == nil || change.Added.Description != "sign off" {
			t.Errorf("change.Added = %+v", change.Added)
		}
	})

	t.Run("supplier error propagates", func(t *testing.T) {
		sup := &stubSupplier{err: errors.New(errors.EAborted, "cancelled")}
		_, _, err := UpdatePrerequisites(context.Background(), base, nil, sup)
		if errors.GetCode(err) != errors.EAborted {
			t.Fatalf("error = %v", err)
		}
	})
}

func TestStartBuildFirst(t *testing.T) {
	s := State{Version: "60.0b3", Date: "2024-01-15"}
	s.normalize()

	got, change, err := StartBuild(s, []string{"G1", "G2"})
	if err != nil {
		t.Fatalf("StartBuild() error = %v", err)
	}
	if !change.Graduate || change.Buildnum != 1 || change.Aborted != 0 {
		t.Errorf("change = %+v", change)
	}
	want := []BuildAttempt{{
		Aborted:    false,
		Buildnum:   1,
		GraphIDs:   []string{"G1", "G2"},
		HumanTasks: []Prerequisite{},
		Issues:     []string{},
	}}
	if !reflect.DeepEqual(got.Inflight, want) {
		t.Errorf("inflight = %+v, want %+v", got.Inflight, want)
	}
}

func TestStartBuildSubsequent(t *testing.T) {
	s := State{Inflight: []BuildAttempt{{
		Buildnum: 1,
		GraphIDs: []string{"G1"},
		HumanTasks: []Prerequisite{
			{Bug: NoBug, Description: "push to cdn", Resolved: true},
			{Bug: "9", Description: "sign off"},
		},
		Issues: []string{"bad signing"},
	}}}
	s.normalize()

	got, change, err := StartBuild(s, []string{"G3"})
	if err != nil {
		t.Fatalf("StartBuild() error = %v", err)
	}
	if change.Graduate || change.Buildnum != 2 || change.Aborted != 1 {
		t.Errorf("change = %+v", change)
	}
	if !got.Inflight[0].Aborted {
		t.Error("previous attempt not aborted")
	}
	want := BuildAttempt{
		Aborted:  false,
		Buildnum: 2,
		GraphIDs: []string{"G3"},
		HumanTasks: []Prerequisite{
			{Bug: NoBug, Description: "push to cdn", Resolved: false},
			{Bug: "9", Description: "sign off", Resolved: false},
		},
		Issues: []string{},
	}
	if !reflect.DeepEqual(got.Inflight[1], want) {
		t.Errorf("inflight[1] = %+v, want %+v", got.Inflight[1], want)
	}
	if s.Inflight[0].Aborted || len(s.Inflight) != 1 {
		t.Error("StartBuild() mutated its input")
	}
}

func TestStartBuildKeepsInvariants(t *testing.T) {
	s := State{}
	s.normalize()
	for n := 1; n <= 5; n++ {
		var err error
		s, _, err = StartBuild(s, []string{"G"})
		if err != nil {
			t.Fatalf("build %d: %v", n, err)
		}
		if err := s.Validate(); err != nil {
			t.Fatalf("build %d: Validate() = %v", n, err)
		}
		if s.Current().Buildnum != n {
			t.Errorf("current buildnum = %d, want %d", s.Current().Buildnum, n)
		}
	}
}

func TestStartBuildRejectsCorruptState(t *testing.T) {
	s := State{Inflight: []BuildAttempt{{Buildnum: 3}}}
	if _, _, err := StartBuild(s, nil); errors.GetCode(err) != errors.EStoreCorrupt {
		t.Errorf("error = %v, want %s", err, errors.EStoreCorrupt)
	}
}

func TestCommitMessages(t *testing.T) {
	id := testIdentity(t, "60.0b3")

	tests := []struct {
		got  string
		want string
	}{
		{TrackMessage(id), "firefox 60.0b3 started tracking upcoming release."},
		{PrereqMessage(id, nil), "firefox 60.0b3 - updated prerequisites."},
		{PrereqMessage(id, []int{1, 3}), "firefox 60.0b3 - updated prerequisites. Resolved 1, 3"},
		{NewBuildMessage(id, nil), "firefox 60.0b3 - new buildnum started."},
		{NewBuildMessage(id, []string{"G1", "G2"}), "firefox 60.0b3 - new buildnum started. Graphids: G1, G2"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("message = %q, want %q", tt.got, tt.want)
		}
	}
}
