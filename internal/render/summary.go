package render

import (
	"fmt"
	"io"
	"strconv"
)

// Summary describes a committed transition.
type Summary struct {
	Op       string
	Release  string
	Location string
	Data     string
	Wiki     string
	Commit   string
	Buildnum int  // 0 when the transition did not start a build
	Moved    bool // the release graduated from upcoming to inflight
}

type field struct {
	key   string
	value string
}

// WriteSummary writes the key: value lines printed after a transition.
func WriteSummary(w io.Writer, s Summary) error {
	lines := []field{
		{"op", s.Op},
		{"release", s.Release},
		{"location", s.Location},
		{"data", s.Data},
		{"wiki", s.Wiki},
	}
	if s.Buildnum > 0 {
		lines = append(lines, field{"buildnum", strconv.Itoa(s.Buildnum)})
	}
	if s.Moved {
		lines = append(lines, field{"moved", "upcoming -> inflight"})
	}
	lines = append(lines, field{"commit", s.Commit})

	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s: %s\n", line.key, line.value); err != nil {
			return err
		}
	}
	return nil
}
