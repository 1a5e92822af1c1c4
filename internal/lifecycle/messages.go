package lifecycle

import (
	"strconv"
	"strings"

	"github.com/NielsdaWheelz/releasewarrior/internal/core"
)

// TrackMessage is the commit message for starting to track a release.
func TrackMessage(id core.Identity) string {
	return id.String() + " started tracking upcoming release."
}

// PrereqMessage is the commit message for a prerequisite update.
func PrereqMessage(id core.Identity, resolved []int) string {
	msg := id.String() + " - updated prerequisites."
	if len(resolved) == 0 {
		return msg
	}
	ids := make([]string, len(resolved))
	for i, n := range resolved {
		ids[i] = strconv.Itoa(n)
	}
	return msg + " Resolved " + strings.Join(ids, ", ")
}

// NewBuildMessage is the commit message for starting a build attempt.
func NewBuildMessage(id core.Identity, graphIDs []string) string {
	msg := id.String() + " - new buildnum started."
	if len(graphIDs) == 0 {
		return msg
	}
	return msg + " Graphids: " + strings.Join(graphIDs, ", ")
}
