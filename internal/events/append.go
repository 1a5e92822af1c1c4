// Package events records the transition history of the pipeline checkout.
// Events are stored in an append-only JSONL file under the state directory.
package events

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is written into every event.
const SchemaVersion = "1.0"

// Event represents a single line in events.jsonl.
// This is the public contract for the events file format.
type Event struct {
	SchemaVersion string         `json:"schema_version"`
	ID            string         `json:"id"`
	Timestamp     string         `json:"timestamp"` // RFC3339
	Op            string         `json:"op"`        // "track", "prereq", "newbuild"
	Release       string         `json:"release"`
	Commit        string         `json:"commit,omitempty"`
	Data          map[string]any `json:"data,omitempty"`
}

// New returns an event with a fresh id and the current schema version.
func New(now time.Time, op, release, commit string, data map[string]any) Event {
	return Event{
		SchemaVersion: SchemaVersion,
		ID:            uuid.NewString(),
		Timestamp:     now.UTC().Format(time.RFC3339),
		Op:            op,
		Release:       release,
		Commit:        commit,
		Data:          data,
	}
}

// AppendEvent appends a single event to the events.jsonl file.
// The file is created lazily if it doesn't exist.
//
// Best-effort: errors are returned but callers should log them and carry on,
// the commit has already landed by the time an event is written.
func AppendEvent(path string, e Event) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.Write(data)
	return err
}

// TrackData returns the data map for a track event.
func TrackData(location string, date string, forced bool) map[string]any {
	return map[string]any{
		"location": location,
		"date":     date,
		"force":    forced,
	}
}

// PrereqData returns the data map for a prereq event. added is the
// description of a newly appended prerequisite, empty when resolving.
func PrereqData(resolved []int, added string) map[string]any {
	data := map[string]any{}
	if len(resolved) > 0 {
		data["resolved"] = resolved
	}
	if added != "" {
		data["added"] = added
	}
	return data
}

// NewBuildData returns the data map for a newbuild event.
func NewBuildData(buildnum, aborted int, graphIDs []string, moved bool) map[string]any {
	data := map[string]any{
		"buildnum": buildnum,
		"graphids": graphIDs,
		"moved":    moved,
	}
	if aborted > 0 {
		data["aborted"] = aborted
	}
	return data
}
