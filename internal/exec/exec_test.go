package exec

import (
	"context"
	"strings"
	"testing"
)

func requireSh(t *testing.T, r *RealRunner) {
	t.Helper()
	if _, err := r.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRealRunner_CapturesOutput(t *testing.T) {
	r := NewRealRunner()
	requireSh(t, r)

	result, err := r.Run(context.Background(), "sh", []string{"-c", "echo out; echo err >&2"}, RunOpts{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
	if strings.TrimSpace(result.Stdout) != "out" {
		t.Errorf("Stdout = %q, want %q", result.Stdout, "out\n")
	}
	if strings.TrimSpace(result.Stderr) != "err" {
		t.Errorf("Stderr = %q, want %q", result.Stderr, "err\n")
	}
}

func TestRealRunner_NonZeroExitIsNotError(t *testing.T) {
	r := NewRealRunner()
	requireSh(t, r)

	result, err := r.Run(context.Background(), "sh", []string{"-c", "exit 3"}, RunOpts{})
	if err != nil {
		t.Fatalf("Run returned error for non-zero exit: %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
}

func TestRealRunner_DirEnvStdin(t *testing.T) {
	r := NewRealRunner()
	requireSh(t, r)
	dir := t.TempDir()

	result, err := r.Run(context.Background(), "sh", []string{"-c", `pwd; echo "$RW_TEST"; cat`}, RunOpts{
		Dir:   dir,
		Env:   map[string]string{"RW_TEST": "hello"},
		Stdin: []byte("piped"),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(result.Stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("unexpected output %q", result.Stdout)
	}
	if !strings.HasSuffix(lines[0], dir[strings.LastIndex(dir, "/"):]) {
		t.Errorf("pwd = %q, want suffix of %q", lines[0], dir)
	}
	if lines[1] != "hello" {
		t.Errorf("env = %q, want hello", lines[1])
	}
	if lines[2] != "piped" {
		t.Errorf("stdin = %q, want piped", lines[2])
	}
}

func TestRealRunner_MissingBinary(t *testing.T) {
	r := NewRealRunner()
	_, err := r.Run(context.Background(), "releasewarrior-no-such-binary", nil, RunOpts{})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestRealRunner_CancelledContext(t *testing.T) {
	r := NewRealRunner()
	requireSh(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Run(ctx, "sh", []string{"-c", "sleep 5"}, RunOpts{})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
