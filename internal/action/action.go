// Package action records undo steps while a transition mutates the pipeline
// checkout, so a failure part way through can put everything back.
package action

import (
	"context"
	"log/slog"
	"strings"

	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
)

// Undo reverses one completed step.
type Undo func(ctx context.Context) error

type step struct {
	task string
	undo Undo
}

// Chain is a stack of undo steps, run last-in first-out.
type Chain struct {
	steps  []step
	logger *slog.Logger
}

// NewChain returns an empty chain logging to logger.
func NewChain(logger *slog.Logger) *Chain {
	return &Chain{logger: logger}
}

// Push records the undo for a step that just succeeded.
func (c *Chain) Push(task string, undo Undo) {
	if undo != nil {
		c.steps = append(c.steps, step{task: task, undo: undo})
	}
}

// Len returns the number of recorded steps.
func (c *Chain) Len() int {
	return len(c.steps)
}

// Rollback runs every undo in reverse order, continuing past failures.
// When a step fails, the first failure carrying its own error code is
// returned (E_PARTIAL_MOVE for a failed move undo); otherwise
// E_ROLLBACK_FAILED. The chain is empty afterwards.
func (c *Chain) Rollback(ctx context.Context) error {
	var first error
	var failedTasks []string
	for i := len(c.steps) - 1; i >= 0; i-- {
		s := c.steps[i]
		c.logger.Warn("rolling back", "task", s.task)
		if err := s.undo(ctx); err != nil {
			c.logger.Error("rollback step failed", "task", s.task, "err", err)
			failedTasks = append(failedTasks, s.task)
			if first == nil && errors.GetCode(err) != "" && errors.GetCode(err) != errors.EGitFailed {
				first = err
			}
		}
	}
	c.steps = nil

	if len(failedTasks) == 0 {
		return nil
	}
	details := map[string]string{"failed_steps": strings.Join(failedTasks, ", ")}
	if first != nil {
		return errors.WithDetails(first, details)
	}
	return errors.NewWithDetails(errors.ERollbackFailed,
		"failed to undo: "+strings.Join(failedTasks, ", "), details)
}

// RollbackOnError rolls back when *err is set. Use with defer:
//
//	defer chain.RollbackOnError(ctx, &err)
//
// A failed rollback replaces *err, keeping the original failure in the
// details under "original_error".
func (c *Chain) RollbackOnError(ctx context.Context, err *error) {
	if *err == nil {
		return
	}
	// Undo must run even when the transition failed because ctx was cancelled.
	if rerr := c.Rollback(context.WithoutCancel(ctx)); rerr != nil {
		*err = errors.WithDetails(rerr, map[string]string{"original_error": (*err).Error()})
	}
}

// Discard forgets all steps after a successful transition.
func (c *Chain) Discard() {
	c.steps = nil
}
