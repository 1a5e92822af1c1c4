// Package exec runs external commands behind an interface so callers can be
// tested with fake runners.
package exec

import (
	"bytes"
	"context"
	"errors"
	"os"
	osexec "os/exec"
	"sort"
)

// CmdResult holds the captured output of a finished command.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunOpts configures a single command invocation.
type RunOpts struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env overlays the parent environment.
	Env map[string]string

	// Stdin is fed to the command when non-nil.
	Stdin []byte
}

// CommandRunner runs external commands.
type CommandRunner interface {
	// Run executes name with args. A non-zero exit is reported through
	// CmdResult.ExitCode, not as an error; err is only set when the command
	// could not be started or the context was cancelled.
	Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error)

	// LookPath searches PATH for an executable.
	LookPath(file string) (string, error)
}

// RealRunner runs commands with os/exec.
type RealRunner struct{}

// NewRealRunner returns a CommandRunner backed by os/exec.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// Run implements CommandRunner.
func (r *RealRunner) Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error) {
	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = os.Environ()
		keys := make([]string, 0, len(opts.Env))
		for k := range opts.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Env = append(cmd.Env, k+"="+opts.Env[k])
		}
	}
	if opts.Stdin != nil {
		cmd.Stdin = bytes.NewReader(opts.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CmdResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, err
	}
	return result, nil
}

// LookPath implements CommandRunner.
func (r *RealRunner) LookPath(file string) (string, error) {
	return osexec.LookPath(file)
}
