package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NielsdaWheelz/releasewarrior/internal/config"
	"github.com/NielsdaWheelz/releasewarrior/internal/exec"
	"github.com/NielsdaWheelz/releasewarrior/internal/fs"
	"github.com/NielsdaWheelz/releasewarrior/internal/lifecycle"
	"github.com/NielsdaWheelz/releasewarrior/internal/logging"
	"github.com/NielsdaWheelz/releasewarrior/internal/testutil"
)

// fixedNow is 2026-03-02 in US/Pacific.
func fixedNow() time.Time {
	return time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
}

type testEnv struct {
	t      *testing.T
	repo   string
	stdout *bytes.Buffer
	deps   Deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := testutil.InitRepo(t)

	cfg := config.Default()
	cfg.ReleasePipelineRepo = repo
	cfg.StateDir = t.TempDir()
	cfg, err := config.Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	stdout := &bytes.Buffer{}
	return &testEnv{
		t:      t,
		repo:   repo,
		stdout: stdout,
		deps: Deps{
			FS:     fs.NewRealFS(),
			Runner: exec.NewRealRunner(),
			Config: cfg,
			Logger: logging.Discard(),
			Now:    fixedNow,
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
		},
	}
}

func (e *testEnv) path(rel string) string {
	return filepath.Join(e.repo, rel)
}

func (e *testEnv) exists(rel string) bool {
	_, err := os.Stat(e.path(rel))
	return err == nil
}

func (e *testEnv) state(rel string) lifecycle.State {
	e.t.Helper()
	data, err := os.ReadFile(e.path(rel))
	if err != nil {
		e.t.Fatalf("read %s: %v", rel, err)
	}
	s, err := lifecycle.Decode(data)
	if err != nil {
		e.t.Fatalf("decode %s: %v", rel, err)
	}
	return s
}

func (e *testEnv) head() string {
	return testutil.Git(e.t, e.repo, "rev-parse", "HEAD")
}

func (e *testEnv) lastMessage() string {
	return testutil.Git(e.t, e.repo, "log", "-1", "--format=%s")
}

func (e *testEnv) status() string {
	return testutil.Git(e.t, e.repo, "status", "--porcelain", "--untracked-files=all")
}

func (e *testEnv) track(version string) {
	e.t.Helper()
	err := Track(context.Background(), e.deps, TrackOpts{Product: "firefox", Version: version, Date: "2026-03-09"})
	if err != nil {
		e.t.Fatalf("Track(%s) error = %v", version, err)
	}
}

func (e *testEnv) newbuild(version string, graphIDs ...string) {
	e.t.Helper()
	err := NewBuild(context.Background(), e.deps, NewBuildOpts{Product: "firefox", Version: version, GraphIDs: graphIDs})
	if err != nil {
		e.t.Fatalf("NewBuild(%s) error = %v", version, err)
	}
}

// staticSupplier returns p every time.
func staticSupplier(p lifecycle.Prerequisite) lifecycle.PrerequisiteSupplier {
	return lifecycle.SupplierFunc(func(context.Context) (lifecycle.Prerequisite, error) {
		return p, nil
	})
}
