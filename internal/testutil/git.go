// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// RequireGit skips the test when git is not installed.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// InitRepo creates a git repository in a temp dir with a local identity and
// one initial commit, and returns its path.
func InitRepo(t *testing.T) string {
	t.Helper()
	RequireGit(t)

	dir := t.TempDir()
	// Resolve symlinks so paths compare equal to git's output on macOS.
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}

	Git(t, dir, "init", "-q")
	Git(t, dir, "config", "user.name", "Release Warrior")
	Git(t, dir, "config", "user.email", "releasewarrior@example.com")
	Git(t, dir, "config", "commit.gpgsign", "false")

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("release pipeline\n"), 0o644); err != nil {
		t.Fatalf("write README: %v", err)
	}
	Git(t, dir, "add", "README.md")
	Git(t, dir, "commit", "-q", "-m", "initial commit")
	return dir
}

// Git runs git in dir and fails the test on error. Returns trimmed stdout.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		stderr := ""
		if ee, ok := err.(*exec.ExitError); ok {
			stderr = string(ee.Stderr)
		}
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, stderr)
	}
	return strings.TrimSpace(string(out))
}

// gitEnvVars override which repository git operates on.
var gitEnvVars = []string{
	"GIT_DIR",
	"GIT_WORK_TREE",
	"GIT_COMMON_DIR",
	"GIT_INDEX_FILE",
	"GIT_OBJECT_DIRECTORY",
	"GIT_ALTERNATE_OBJECT_DIRECTORIES",
}

// UnsetGitEnv clears git environment variables so tests run against their
// own temp repositories even when invoked from a git hook.
func UnsetGitEnv() error {
	for _, name := range gitEnvVars {
		if err := os.Unsetenv(name); err != nil {
			return fmt.Errorf("unset %s: %w", name, err)
		}
	}
	return nil
}
