package cobra

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/testutil"
)

func TestMain(m *testing.M) {
	if err := testutil.UnsetGitEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func newTestApp() (*App, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	app := NewApp(&stdout, &stderr)
	app.Now = func() time.Time { return time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC) }
	app.Interactive = func() bool { return false }
	return app, &stdout, &stderr
}

// executeCmd runs the root command with the given args and returns stdout, stderr, and error.
func executeCmd(args ...string) (string, string, error) {
	app, stdout, stderr := newTestApp()
	err := Execute(context.Background(), app, args)
	return stdout.String(), stderr.String(), err
}

func TestRoot_Help(t *testing.T) {
	for _, arg := range []string{"--help", "-h"} {
		t.Run(arg, func(t *testing.T) {
			stdout, _, err := executeCmd(arg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(stdout, "releasewarrior") || !strings.Contains(stdout, "Available Commands") {
				t.Errorf("unexpected help output:\n%s", stdout)
			}
			for _, cmd := range []string{"init", "track", "prereq", "newbuild", "ls", "show", "version"} {
				if !strings.Contains(stdout, cmd) {
					t.Errorf("expected %q command in help output", cmd)
				}
			}
		})
	}
}

func TestRoot_Version(t *testing.T) {
	for _, arg := range []string{"--version", "-v", "version"} {
		t.Run(arg, func(t *testing.T) {
			stdout, _, err := executeCmd(arg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(stdout, "releasewarrior") {
				t.Errorf("expected 'releasewarrior' in version output, got %q", stdout)
			}
		})
	}
}

func TestRoot_UnknownCommand(t *testing.T) {
	_, _, err := executeCmd("nonexistent")
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("expected 'unknown command' in error, got: %v", err)
	}
}

func TestRoot_UsageErrors(t *testing.T) {
	tests := [][]string{
		{"track", "firefox"},
		{"newbuild", "firefox", "60.0b3", "extra"},
		{"ls", "firefox", "thunderbird"},
		{"track", "firefox", "60.0b3", "--no-such-flag"},
		{"--log-level", "loud", "ls"},
		{"--log-format", "xml", "ls"},
		{"prereq", "firefox", "60.0b3", "--resolve", "1", "--description", "x"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, _, err := executeCmd(args...)
			if errors.GetCode(err) != errors.EUsage {
				t.Fatalf("error = %v, want %s", err, errors.EUsage)
			}
			if errors.ExitCode(err) != 2 {
				t.Errorf("ExitCode = %d, want 2", errors.ExitCode(err))
			}
		})
	}
}

func TestRoot_MissingExplicitConfig(t *testing.T) {
	_, _, err := executeCmd("--config", filepath.Join(t.TempDir(), "missing.yaml"), "ls")
	if errors.GetCode(err) != errors.EInvalidConfig {
		t.Fatalf("error = %v, want %s", err, errors.EInvalidConfig)
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		stdout, _, err := executeCmd("completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(stdout, "releasewarrior") {
			t.Errorf("completion %s output missing command name", shell)
		}
	}
	_, _, err := executeCmd("completion", "tcsh")
	if errors.GetCode(err) != errors.EUsage {
		t.Errorf("error = %v, want %s", err, errors.EUsage)
	}
}

func TestCompleteProduct(t *testing.T) {
	got, _ := completeProduct(nil, nil, "f")
	if strings.Join(got, ",") != "firefox,fennec" {
		t.Errorf("completeProduct(f) = %v", got)
	}
	if got, _ := completeProduct(nil, []string{"firefox"}, ""); got != nil {
		t.Errorf("version should not complete, got %v", got)
	}
}

func TestReleaseLifecycle(t *testing.T) {
	repo := testutil.InitRepo(t)
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	cfgPath := filepath.Join(t.TempDir(), "rw.yaml")

	run := func(args ...string) (string, string, error) {
		t.Helper()
		app, stdout, stderr := newTestApp()
		err := Execute(context.Background(), app, append([]string{"--config", cfgPath}, args...))
		return stdout.String(), stderr.String(), err
	}
	mustRun := func(args ...string) string {
		t.Helper()
		stdout, stderr, err := run(args...)
		if err != nil {
			t.Fatalf("%v: %v\nstderr:\n%s", args, err, stderr)
		}
		return stdout
	}

	out := mustRun("init", "--repo", repo)
	if !strings.Contains(out, "config_state: created") {
		t.Errorf("init output:\n%s", out)
	}

	mustRun("track", "firefox", "60.0b3", "--date", "2026-03-09")
	mustRun("prereq", "firefox", "60.0b3", "--description", "partner repacks", "--bug", "1440000")

	_, _, err := run("prereq", "firefox", "60.0b3")
	if errors.GetCode(err) != errors.ENotInteractive {
		t.Errorf("prompt without a terminal: error = %v, want %s", err, errors.ENotInteractive)
	}

	mustRun("prereq", "firefox", "60.0b3", "--resolve", "1")
	out = mustRun("newbuild", "firefox", "60.0b3", "--graphid", "G1", "--graphid", "G2")
	if !strings.Contains(out, "moved: upcoming -> inflight") {
		t.Errorf("newbuild output:\n%s", out)
	}

	log := testutil.Git(t, repo, "log", "--format=%s")
	want := []string{
		"firefox 60.0b3 - new buildnum started. Graphids: G1, G2",
		"firefox 60.0b3 - updated prerequisites. Resolved 1",
		"firefox 60.0b3 - updated prerequisites.",
		"firefox 60.0b3 started tracking upcoming release.",
		"initial commit",
	}
	if log != strings.Join(want, "\n") {
		t.Errorf("git log =\n%s", log)
	}

	out = mustRun("ls")
	if !strings.Contains(out, "inflight") || !strings.Contains(out, "60.0b3") {
		t.Errorf("ls output:\n%s", out)
	}

	out = mustRun("show", "firefox", "60.0b3")
	if !strings.Contains(out, "### Build 1") || !strings.Contains(out, "Graph ids: G1, G2") {
		t.Errorf("show output:\n%s", out)
	}

	_, _, err = run("newbuild", "firefox", "61.0b1")
	if errors.GetCode(err) != errors.EUntrackedRelease {
		t.Errorf("error = %v, want %s", err, errors.EUntrackedRelease)
	}
}

func TestLogFormatJSON(t *testing.T) {
	repo := testutil.InitRepo(t)
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	cfgPath := filepath.Join(t.TempDir(), "rw.yaml")

	app, _, _ := newTestApp()
	if err := Execute(context.Background(), app, []string{"--config", cfgPath, "init", "--repo", repo}); err != nil {
		t.Fatal(err)
	}

	app, _, stderr := newTestApp()
	args := []string{"--config", cfgPath, "--log-format", "json", "--log-level", "debug", "ls"}
	if err := Execute(context.Background(), app, args); err != nil {
		t.Fatalf("ls: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	if len(lines) == 0 || lines[0] == "" {
		t.Fatal("expected debug logs on stderr")
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "{") {
			t.Errorf("non-JSON log line: %q", line)
		}
	}
}
