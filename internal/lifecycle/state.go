// Package lifecycle implements the release state document and the
// transitions that move a release from upcoming through its build attempts.
//
// Transitions are pure: they take a State and return a new State without
// touching the filesystem. Where the document lives is the store's concern.
package lifecycle

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/fs"
)

// NoBug is the bug value for prerequisites without a tracking bug.
const NoBug = "no bug"

// Prerequisite is a human task that must be done before or around a build.
// Fields are declared in JSON key order so encoding is stable.
type Prerequisite struct {
	Bug         string `json:"bug"`
	Deadline    string `json:"deadline"`
	Description string `json:"description"`
	Resolved    bool   `json:"resolved"`
}

// Preflight holds the tasks that precede the first build.
type Preflight struct {
	HumanTasks []Prerequisite `json:"human_tasks"`
}

// BuildAttempt is one numbered try at producing a release build.
type BuildAttempt struct {
	Aborted    bool           `json:"aborted"`
	Buildnum   int            `json:"buildnum"`
	GraphIDs   []string       `json:"graphids"`
	HumanTasks []Prerequisite `json:"human_tasks"`
	Issues     []string       `json:"issues"`
}

// State is the release state document persisted as <slug>.json.
type State struct {
	Date      string         `json:"date"`
	Inflight  []BuildAttempt `json:"inflight"`
	Preflight Preflight      `json:"preflight"`
	Version   string         `json:"version"`

	// Extra holds top-level keys not modelled above, such as fields a custom
	// data template adds for its wiki. Decode and Encode carry them through.
	Extra map[string]json.RawMessage `json:"-"`
}

// documentKeys are the top-level keys State models.
var documentKeys = map[string]bool{
	"date":      true,
	"inflight":  true,
	"preflight": true,
	"version":   true,
}

// Current returns the last build attempt, or nil when no build has started.
func (s *State) Current() *BuildAttempt {
	if len(s.Inflight) == 0 {
		return nil
	}
	return &s.Inflight[len(s.Inflight)-1]
}

// UnresolvedPrerequisites counts preflight tasks not yet resolved.
func (s *State) UnresolvedPrerequisites() int {
	n := 0
	for _, t := range s.Preflight.HumanTasks {
		if !t.Resolved {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Preflight.HumanTasks = cloneTasks(s.Preflight.HumanTasks)
	if s.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(s.Extra))
		for k, v := range s.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	if s.Inflight != nil {
		out.Inflight = make([]BuildAttempt, len(s.Inflight))
		for i, b := range s.Inflight {
			out.Inflight[i] = b.clone()
		}
	}
	return out
}

func (b BuildAttempt) clone() BuildAttempt {
	out := b
	out.GraphIDs = append([]string(nil), b.GraphIDs...)
	out.HumanTasks = cloneTasks(b.HumanTasks)
	out.Issues = append([]string(nil), b.Issues...)
	return out
}

func cloneTasks(tasks []Prerequisite) []Prerequisite {
	if tasks == nil {
		return nil
	}
	return append([]Prerequisite(nil), tasks...)
}

// normalize replaces nil sequences with empty ones so they encode as [].
func (s *State) normalize() {
	if s.Inflight == nil {
		s.Inflight = []BuildAttempt{}
	}
	if s.Preflight.HumanTasks == nil {
		s.Preflight.HumanTasks = []Prerequisite{}
	}
	for i := range s.Inflight {
		b := &s.Inflight[i]
		if b.GraphIDs == nil {
			b.GraphIDs = []string{}
		}
		if b.HumanTasks == nil {
			b.HumanTasks = []Prerequisite{}
		}
		if b.Issues == nil {
			b.Issues = []string{}
		}
	}
}

// Validate checks the build attempt invariants:
// buildnums are 1..n in order, and only the last attempt is not aborted.
func (s *State) Validate() error {
	for i, b := range s.Inflight {
		if b.Buildnum != i+1 {
			return errors.NewWithDetails(
				errors.EStoreCorrupt,
				fmt.Sprintf("inflight[%d] has buildnum %d, want %d", i, b.Buildnum, i+1),
				map[string]string{"buildnum": fmt.Sprint(b.Buildnum)},
			)
		}
		last := i == len(s.Inflight)-1
		if last && b.Aborted {
			return errors.NewWithDetails(
				errors.EStoreCorrupt,
				fmt.Sprintf("current build %d is marked aborted", b.Buildnum),
				map[string]string{"buildnum": fmt.Sprint(b.Buildnum)},
			)
		}
		if !last && !b.Aborted {
			return errors.NewWithDetails(
				errors.EStoreCorrupt,
				fmt.Sprintf("superseded build %d is not marked aborted", b.Buildnum),
				map[string]string{"buildnum": fmt.Sprint(b.Buildnum)},
			)
		}
	}
	return nil
}

// Decode parses a state document. Unknown top-level keys are kept in Extra.
// Unknown keys inside preflight or build attempts are rejected so that a
// load/encode cycle never silently drops data.
func Decode(data []byte) (State, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return State{}, errors.Wrap(errors.EStoreCorrupt, "invalid release document: "+err.Error(), err)
	}
	known := make(map[string]json.RawMessage, len(documentKeys))
	var extra map[string]json.RawMessage
	for k, v := range raw {
		if documentKeys[k] {
			known[k] = v
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}
	body, err := json.Marshal(known)
	if err != nil {
		return State{}, errors.Wrap(errors.EInternal, "failed to re-encode release document", err)
	}

	var s State
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return State{}, errors.Wrap(errors.EStoreCorrupt, "invalid release document: "+err.Error(), err)
	}
	s.Extra = extra
	s.normalize()
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// Encode serializes s with sorted keys and 4-space indentation.
func Encode(s State) ([]byte, error) {
	s = s.Clone()
	s.normalize()
	var v any = s
	if len(s.Extra) > 0 {
		doc := make(map[string]any, len(s.Extra)+len(documentKeys))
		for k, raw := range s.Extra {
			doc[k] = raw
		}
		doc["date"] = s.Date
		doc["inflight"] = s.Inflight
		doc["preflight"] = s.Preflight
		doc["version"] = s.Version
		v = doc
	}
	data, err := fs.MarshalJSONStable(v)
	if err != nil {
		return nil, errors.Wrap(errors.EInternal, "failed to encode release document", err)
	}
	return data, nil
}
