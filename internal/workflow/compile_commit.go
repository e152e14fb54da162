package workflow

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/specialistvlad/jobgraph/internal/ctxlog"
	"github.com/specialistvlad/jobgraph/internal/fsutil"
	"go.uber.org/multierr"
)

// written remembers what a path held before this run overwrote it.
type written struct {
	path    string
	prev    []byte
	existed bool
}

// finish reports accumulated diagnostics, writes the staged files and marks
// the planned nodes built.
func (r *compileRun) finish() error {
	if r.diag != nil {
		return r.diag
	}
	if err := r.commit(); err != nil {
		return err
	}
	r.markBuilt()
	return nil
}

// commit writes every staged file in planning order, which puts nested
// artifacts and descriptors before the artifacts referencing them. On any
// failure the files written so far are restored.
func (r *compileRun) commit() error {
	logger := ctxlog.FromContext(r.ctx)

	for _, dir := range r.mkdirs {
		if err := fsutil.EnsureDir(dir, true); err != nil {
			return err
		}
		logger.Debug("Created directory.", "dir", dir)
	}

	done := make([]written, 0, len(r.files))
	for _, f := range r.files {
		if err := r.ctx.Err(); err != nil {
			return multierr.Append(fmt.Errorf("compilation interrupted: %w", err), rollback(done))
		}

		w := written{path: f.path}
		prev, err := os.ReadFile(f.path)
		switch {
		case err == nil:
			w.prev, w.existed = prev, true
		case !errors.Is(err, fs.ErrNotExist):
			return multierr.Append(fmt.Errorf("reading %s: %w", f.path, err), rollback(done))
		}

		if err := fsutil.WriteFileAtomic(f.path, f.data); err != nil {
			return multierr.Append(fmt.Errorf("writing %s: %w", f.path, err), rollback(done))
		}
		done = append(done, w)
		logger.Debug("Wrote file.", "path", f.path, "bytes", len(f.data))
	}
	return nil
}

// rollback undoes writes in reverse order.
func rollback(done []written) error {
	var err error
	for i := len(done) - 1; i >= 0; i-- {
		w := done[i]
		if w.existed {
			err = multierr.Append(err, fsutil.WriteFileAtomic(w.path, w.prev))
			continue
		}
		if rmErr := os.Remove(w.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			err = multierr.Append(err, rmErr)
		}
	}
	return err
}

func (r *compileRun) markBuilt() {
	for _, p := range r.units {
		if p.reused {
			continue
		}
		u := p.unit
		u.built = true
		u.compiledName = p.compiledName
		u.descriptorPath = p.descriptorPath
		u.standalone = p.standalone
	}
	for _, p := range r.workflows {
		if p.reused {
			continue
		}
		w := p.wf
		w.built = true
		w.compiledName = p.compiledName
		w.artifactPath = p.artifactPath
		w.invalidNames = p.invalid
	}
}
