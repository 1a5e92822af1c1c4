// Package git runs the git operations that persist release transitions in
// the release pipeline checkout.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/exec"
)

// nonInteractiveEnv keeps git from prompting for credentials or editors.
func nonInteractiveEnv() map[string]string {
	return map[string]string{
		"GIT_TERMINAL_PROMPT": "0",
		"GIT_EDITOR":          "true",
	}
}

// Repo is a git checkout driven through a CommandRunner.
type Repo struct {
	Runner exec.CommandRunner
	Dir    string
}

// NewRepo returns a Repo for the checkout at dir.
func NewRepo(cr exec.CommandRunner, dir string) *Repo {
	return &Repo{Runner: cr, Dir: dir}
}

// result runs git and returns the raw result. Only start failures are errors.
func (r *Repo) result(ctx context.Context, args ...string) (exec.CmdResult, error) {
	full := append([]string{"-C", r.Dir}, args...)
	res, err := r.Runner.Run(ctx, "git", full, exec.RunOpts{Env: nonInteractiveEnv()})
	if err != nil {
		return res, errors.WrapWithDetails(errors.EGitFailed, "failed to run git", err,
			map[string]string{"command": "git " + strings.Join(args, " ")})
	}
	return res, nil
}

// run runs git and maps a non-zero exit to E_GIT_FAILED.
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	res, err := r.result(ctx, args...)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", failed(args, res)
	}
	return res.Stdout, nil
}

func failed(args []string, res exec.CmdResult) error {
	stderr := strings.TrimSpace(res.Stderr)
	msg := fmt.Sprintf("git %s failed", args[0])
	if stderr != "" {
		msg += ": " + stderr
	}
	return errors.NewWithDetails(errors.EGitFailed, msg, map[string]string{
		"command":   "git " + strings.Join(args, " "),
		"exit_code": fmt.Sprintf("%d", res.ExitCode),
		"stderr":    stderr,
	})
}

// CheckInstalled returns E_GIT_NOT_INSTALLED when git is not on PATH.
func (r *Repo) CheckInstalled() error {
	if _, err := r.Runner.LookPath("git"); err != nil {
		return errors.Wrap(errors.EGitNotInstalled, "git not found on PATH", err)
	}
	return nil
}

// Verify checks that Dir is the top of a git work tree.
func (r *Repo) Verify(ctx context.Context) error {
	out, err := r.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return errors.WrapWithDetails(errors.ENoPipelineRepo, "release_pipeline_repo is not a git checkout", err,
			map[string]string{"data": r.Dir})
	}
	if strings.TrimSpace(out) == "" {
		return errors.NewWithDetails(errors.ENoPipelineRepo, "release_pipeline_repo is not a git checkout",
			map[string]string{"data": r.Dir})
	}
	return nil
}

// Add stages paths.
func (r *Repo) Add(ctx context.Context, paths ...string) error {
	_, err := r.run(ctx, append([]string{"add", "--"}, paths...)...)
	return err
}

// Move runs git mv, moving every src into dstDir. dstDir must exist.
func (r *Repo) Move(ctx context.Context, srcs []string, dstDir string) error {
	args := append([]string{"mv", "--"}, srcs...)
	_, err := r.run(ctx, append(args, dstDir)...)
	return err
}

// Unstage drops paths from the index, keeping the work tree as is.
func (r *Repo) Unstage(ctx context.Context, paths ...string) error {
	hasHead, err := r.HasHead(ctx)
	if err != nil {
		return err
	}
	if hasHead {
		_, err = r.run(ctx, append([]string{"reset", "-q", "--"}, paths...)...)
		return err
	}
	_, err = r.run(ctx, append([]string{"rm", "-q", "--cached", "--ignore-unmatch", "--"}, paths...)...)
	return err
}

// HasHead reports whether the current branch has at least one commit.
func (r *Repo) HasHead(ctx context.Context) (bool, error) {
	res, err := r.result(ctx, "rev-parse", "--verify", "-q", "HEAD")
	if err != nil {
		return false, err
	}
	return res.ExitCode == 0, nil
}

// HasStagedChanges reports whether the index differs from HEAD, limited to
// paths when any are given.
func (r *Repo) HasStagedChanges(ctx context.Context, paths ...string) (bool, error) {
	args := []string{"diff", "--cached", "--quiet"}
	if len(paths) > 0 {
		args = append(append(args, "--"), paths...)
	}
	res, err := r.result(ctx, args...)
	if err != nil {
		return false, err
	}
	switch res.ExitCode {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, failed(args, res)
	}
}

// StagedFiles lists staged paths, for error context.
func (r *Repo) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := r.run(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// Commit commits only paths with msg and returns the new HEAD sha.
func (r *Repo) Commit(ctx context.Context, msg string, paths ...string) (string, error) {
	args := append([]string{"commit", "-q", "-m", msg, "--"}, paths...)
	if _, err := r.run(ctx, args...); err != nil {
		return "", err
	}
	out, err := r.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// DiffStat returns the --stat summary of rev.
func (r *Repo) DiffStat(ctx context.Context, rev string) (string, error) {
	out, err := r.run(ctx, "show", "--stat", "--format=", rev)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
