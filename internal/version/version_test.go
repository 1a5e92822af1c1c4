package version

import "testing"

func TestFullVersion(t *testing.T) {
	oldV, oldC := Version, Commit
	t.Cleanup(func() { Version, Commit = oldV, oldC })

	Version, Commit = "v0.3.0", ""
	if got := FullVersion(); got != "v0.3.0" {
		t.Errorf("FullVersion() = %q", got)
	}
	Commit = "1a2b3c4"
	if got := FullVersion(); got != "v0.3.0 (commit 1a2b3c4)" {
		t.Errorf("FullVersion() = %q", got)
	}
}
