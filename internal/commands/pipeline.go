package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/NielsdaWheelz/releasewarrior/internal/action"
	"github.com/NielsdaWheelz/releasewarrior/internal/core"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/events"
	"github.com/NielsdaWheelz/releasewarrior/internal/fs"
	"github.com/NielsdaWheelz/releasewarrior/internal/git"
	"github.com/NielsdaWheelz/releasewarrior/internal/lifecycle"
	"github.com/NielsdaWheelz/releasewarrior/internal/lock"
	"github.com/NielsdaWheelz/releasewarrior/internal/render"
	"github.com/NielsdaWheelz/releasewarrior/internal/store"
)

// TransitionOpts are the options shared by every mutating command.
type TransitionOpts struct {
	// AllowDirty proceeds even when the pipeline checkout has staged changes.
	AllowDirty bool
}

// change is a transition computed under the release lock, ready to persist.
type change struct {
	state   lifecycle.State
	from    store.Paths // where the document is now
	to      store.Paths // where it will be written
	toLoc   store.Location
	move    bool // graduate: git mv from -> to first
	message string

	summary   render.Summary
	eventData map[string]any
}

// planFunc computes a change. It runs after the lock is held and the dirty
// check has passed.
type planFunc func(ctx context.Context, st *store.Store) (change, error)

// transition runs the shared pipeline: lock, dirty check, plan, render,
// commit guard, then move/write/add/commit with rollback on failure.
func (d Deps) transition(ctx context.Context, op string, id core.Identity, opts TransitionOpts, plan planFunc) (err error) {
	defer func() { err = withOp(err, op, id) }()

	logger := d.Logger.With("op", op, "release", id.Slug())
	repo := d.repo()
	if err := repo.CheckInstalled(); err != nil {
		return err
	}
	if err := repo.Verify(ctx); err != nil {
		return err
	}

	lk, err := lock.Acquire(d.Config.LocksDir(), id.Slug())
	if err != nil {
		return err
	}
	defer func() {
		if uerr := lk.Unlock(); uerr != nil {
			logger.Warn("failed to release lock", "path", lk.Path(), "err", uerr)
		}
	}()
	logger.Debug("lock acquired", "path", lk.Path())

	if err := d.checkStaged(ctx, repo, opts); err != nil {
		return err
	}

	st := d.store()
	c, err := plan(ctx, st)
	if err != nil {
		return err
	}
	if err := c.state.Validate(); err != nil {
		return err
	}

	data, err := lifecycle.Encode(c.state)
	if err != nil {
		return err
	}
	wikiText, err := d.renderer().Render(id, data)
	if err != nil {
		return err
	}
	wiki := []byte(wikiText)

	priorData, priorWiki, err := st.ReadFiles(c.to)
	if err != nil {
		return errors.WrapWithDetails(errors.EInternal, "failed to read current release documents", err,
			map[string]string{"data": c.to.Data})
	}
	if !c.move && bytes.Equal(priorData, data) && bytes.Equal(priorWiki, wiki) {
		return errors.NewWithDetails(errors.ENoChanges, "nothing to commit; release documents are unchanged",
			map[string]string{"location": string(c.toLoc), "data": c.to.Data})
	}

	sha, err := d.persist(ctx, repo, st, c, data, wiki)
	if err != nil {
		return errors.WithDetails(err, map[string]string{"location": string(c.toLoc)})
	}

	logger.Info("committed", "commit", sha, "location", c.toLoc)
	if stat, err := repo.DiffStat(ctx, sha); err != nil {
		logger.Warn("failed to read diffstat", "commit", sha, "err", err)
	} else {
		logger.Debug("diffstat", "commit", sha, "stat", stat)
	}

	ev := events.New(d.now(), op, id.String(), sha, c.eventData)
	if err := events.AppendEvent(d.Config.EventsPath(), ev); err != nil {
		logger.Warn("failed to record history event", "path", d.Config.EventsPath(), "err", err)
	}

	s := c.summary
	s.Op = op
	s.Release = id.String()
	s.Location = string(c.toLoc)
	s.Data = c.to.Data
	s.Wiki = c.to.Wiki
	s.Commit = sha
	s.Moved = c.move
	return render.WriteSummary(d.Stdout, s)
}

// checkStaged refuses to run on a checkout with staged changes unless
// --allow-dirty was given.
func (d Deps) checkStaged(ctx context.Context, repo *git.Repo, opts TransitionOpts) error {
	dirty, err := repo.HasStagedChanges(ctx)
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}
	files, err := repo.StagedFiles(ctx)
	if err != nil {
		return err
	}
	if opts.AllowDirty {
		d.Logger.Warn("pipeline checkout has staged changes; proceeding due to --allow-dirty",
			"staged", strings.Join(files, ", "))
		return nil
	}
	return errors.NewWithDetails(errors.EPipelineDirty,
		"release pipeline checkout has staged changes; use --allow-dirty to proceed",
		map[string]string{"staged": strings.Join(files, ", "), "data": repo.Dir})
}

// persist moves, writes, stages and commits. Any failure rolls every
// completed step back so the checkout is left as it was.
func (d Deps) persist(ctx context.Context, repo *git.Repo, st *store.Store, c change, data, wiki []byte) (sha string, err error) {
	chain := action.NewChain(d.Logger)
	defer chain.RollbackOnError(ctx, &err)

	// The undo reads paths when it runs, so moved sources appended below are
	// unstaged too.
	paths := []string{c.to.Data, c.to.Wiki}
	chain.Push("unstage release documents", func(ctx context.Context) error {
		return repo.Unstage(ctx, paths...)
	})

	if err := d.FS.MkdirAll(filepath.Dir(c.to.Data), 0o755); err != nil {
		return "", errors.WrapWithDetails(errors.EPersistFailed, "failed to create release directory", err,
			map[string]string{"data": c.to.Data})
	}

	if c.move {
		moved, err := d.move(ctx, repo, chain, c)
		paths = append(paths, moved...)
		if err != nil {
			return "", err
		}
	}

	priorData, priorWiki, err := st.ReadFiles(c.to)
	if err != nil {
		return "", errors.Wrap(errors.EInternal, "failed to snapshot release documents", err)
	}
	chain.Push("restore "+c.to.Wiki, func(context.Context) error {
		return st.Restore(c.to.Wiki, priorWiki)
	})
	chain.Push("restore "+c.to.Data, func(context.Context) error {
		return st.Restore(c.to.Data, priorData)
	})
	if err := st.Write(c.to, data, wiki); err != nil {
		return "", err
	}

	if err := repo.Add(ctx, c.to.Data, c.to.Wiki); err != nil {
		return "", err
	}
	staged, err := repo.HasStagedChanges(ctx, paths...)
	if err != nil {
		return "", err
	}
	if !staged {
		return "", errors.NewWithDetails(errors.ENoChanges, "nothing to commit; git reports no changes",
			map[string]string{"data": c.to.Data})
	}

	sha, err = repo.Commit(ctx, c.message, paths...)
	if err != nil {
		return "", err
	}
	chain.Discard()
	return sha, nil
}

// move graduates the documents with git mv and returns the source paths it
// tried to move. The undo renames whatever reached the destination back to
// the source; if that fails the release is split across directories and
// E_PARTIAL_MOVE names both sides.
func (d Deps) move(ctx context.Context, repo *git.Repo, chain *action.Chain, c change) ([]string, error) {
	pairs := [][2]string{{c.from.Data, c.to.Data}}
	if ok, err := fs.Exists(d.FS, c.from.Wiki); err != nil {
		return nil, errors.Wrap(errors.EInternal, "failed to stat wiki document", err)
	} else if ok {
		pairs = append(pairs, [2]string{c.from.Wiki, c.to.Wiki})
	}

	chain.Push("move documents back to "+filepath.Dir(c.from.Data), func(context.Context) error {
		for _, p := range pairs {
			src, dst := p[0], p[1]
			if ok, _ := fs.Exists(d.FS, src); ok {
				continue
			}
			if err := d.FS.Rename(dst, src); err != nil && !os.IsNotExist(err) {
				return errors.WrapWithDetails(errors.EPartialMove, "release documents are split between upcoming and inflight", err,
					map[string]string{"data": src, "destination": dst})
			}
		}
		return nil
	})

	srcs := make([]string, len(pairs))
	for i, p := range pairs {
		srcs[i] = p[0]
	}
	return srcs, repo.Move(ctx, srcs, filepath.Dir(c.to.Data))
}
