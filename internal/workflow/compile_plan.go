package workflow

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/specialistvlad/jobgraph/internal/errkind"
	"github.com/specialistvlad/jobgraph/internal/fsutil"
	"github.com/specialistvlad/jobgraph/internal/jobfile"
	"github.com/specialistvlad/jobgraph/internal/nodeid"
	"go.uber.org/multierr"
)

// compileRun holds the state of one Compile or BuildUnit call. Nothing in it
// touches the filesystem except read-only checks until commit.
type compileRun struct {
	ctx  context.Context
	opts CompileOptions
	date string

	units     map[nodeid.Key]*unitPlan
	workflows map[nodeid.Key]*workflowPlan
	// reserved counts decorated names handed out per directory, name, and
	// extension during this run.
	reserved map[string]int

	files  []stagedFile
	paths  map[string]struct{}
	mkdirs []string
	dirs   map[string]struct{}

	// diag accumulates filesystem problems so they are reported together.
	diag error
}

type stagedFile struct {
	path string
	data []byte
}

type unitPlan struct {
	unit           *Unit
	compiledName   string
	descriptorPath string
	standalone     bool
	reused         bool
}

// workflowPlan is the in-memory rendition of one workflow artifact.
type workflowPlan struct {
	wf           *Workflow
	compiledName string
	artifactPath string
	artifact     jobfile.Artifact
	// index maps each member to its physical node names.
	index map[nodeid.Key][]string
	// seen maps every declared physical name to the member declaring it.
	seen    map[string]string
	invalid bool
	reused  bool
}

// declare records the physical names of n. Names must be unique within the
// artifact.
func (p *workflowPlan) declare(n Node, names []string) error {
	for _, name := range names {
		if owner, dup := p.seen[name]; dup {
			return errkind.New(errkind.ConflictKind, p.wf.name,
				"node name %q is declared by both %q and %q", name, owner, n.Name())
		}
		p.seen[name] = n.Name()
		if nodeid.HasDisallowedChars(name) {
			p.invalid = true
		}
	}
	p.index[n.Key()] = names
	return nil
}

func (r *compileRun) planWorkflow(w *Workflow) (*workflowPlan, error) {
	if p, ok := r.workflows[w.key]; ok {
		return p, nil
	}
	if w.built {
		p := &workflowPlan{
			wf:           w,
			compiledName: w.compiledName,
			artifactPath: w.artifactPath,
			invalid:      w.invalidNames,
			reused:       true,
		}
		r.workflows[w.key] = p
		return p, nil
	}

	compiled, err := r.reserveName(w.name, w.dirs.Submit, WorkflowExt)
	if err != nil {
		return nil, err
	}
	p := &workflowPlan{
		wf:           w,
		compiledName: compiled,
		artifactPath: filepath.Join(w.dirs.Submit, compiled+WorkflowExt),
		index:        make(map[nodeid.Key][]string, len(w.nodes)),
		seen:         make(map[string]string),
	}
	r.requireDir(w.dirs.Submit, w.name)

	for _, n := range w.nodes {
		if err := n.compileAsChild(r, p); err != nil {
			return nil, err
		}
	}

	keys := make([]nodeid.Key, 0, len(w.nodes))
	for _, n := range w.nodes {
		keys = append(keys, n.Key())
	}
	if err := w.g.store.DetectCycle(keys); err != nil {
		return nil, errkind.Wrap(errkind.ConflictKind, w.name, err, "dependencies must be acyclic")
	}

	for _, n := range w.nodes {
		if !n.HasParents() {
			continue
		}
		var parents []string
		for _, pk := range w.g.store.Parents(n.Key()) {
			names, ok := p.index[pk]
			if !ok {
				return nil, errkind.New(errkind.NotFoundKind, n.Name(),
					"parent %q is not part of workflow %q", w.g.store.Name(pk), w.name)
			}
			parents = append(parents, names...)
		}
		p.artifact.Dependency(parents, p.index[n.Key()])
	}
	p.artifact.Extra(w.opts.ExtraLines...)

	if err := r.stage(p.artifactPath, p.artifact.Bytes(), w.name); err != nil {
		return nil, err
	}
	r.workflows[w.key] = p
	return p, nil
}

func (r *compileRun) planUnit(u *Unit, standalone bool) (*unitPlan, error) {
	if p, ok := r.units[u.key]; ok {
		return p, nil
	}
	if u.built {
		if u.standalone {
			return nil, errkind.New(errkind.UnsupportedKind, u.name, "unit was built standalone and cannot join a workflow")
		}
		p := &unitPlan{unit: u, compiledName: u.compiledName, descriptorPath: u.descriptorPath, reused: true}
		r.units[u.key] = p
		return p, nil
	}

	compiled, err := r.reserveName(u.name, u.dirs.Submit, DescriptorExt)
	if err != nil {
		return nil, err
	}
	p := &unitPlan{
		unit:           u,
		compiledName:   compiled,
		descriptorPath: filepath.Join(u.dirs.Submit, compiled+DescriptorExt),
		standalone:     standalone,
	}

	for _, dir := range []string{u.dirs.Submit, u.dirs.Log, u.dirs.Output, u.dirs.Error} {
		if dir != "" {
			r.requireDir(dir, u.name)
		}
	}
	if err := fsutil.CheckExecutable(u.executable); err != nil {
		r.diag = multierr.Append(r.diag,
			errkind.Wrap(errkind.NotFoundKind, u.name, err, "executable %q is not usable", u.executable))
	}

	if err := r.stage(p.descriptorPath, renderDescriptor(u, compiled, standalone), u.name); err != nil {
		return nil, err
	}
	r.units[u.key] = p
	return p, nil
}

// reserveName returns the compiled name for name. With FancyName it appends
// the date and the next free sequence number in dir, counting names already
// handed out in this run.
func (r *compileRun) reserveName(name, dir, ext string) (string, error) {
	if !r.opts.FancyName {
		return name, nil
	}
	seq, err := fsutil.NextSequence(dir, name, r.date, ext)
	if errors.Is(err, fsutil.ErrSequenceExhausted) {
		return "", errkind.Wrap(errkind.ConflictKind, name, err, "cannot derive a versioned name")
	}
	if err != nil {
		return "", errkind.Wrap(errkind.NotFoundKind, name, err, "cannot derive a versioned name")
	}
	key := filepath.Join(dir, name) + "\x00" + ext
	seq += r.reserved[key]
	if seq > fsutil.MaxSequence {
		return "", errkind.Wrap(errkind.ConflictKind, name, fsutil.ErrSequenceExhausted, "cannot derive a versioned name")
	}
	r.reserved[key]++
	return nodeid.Decorated(name, r.date, seq), nil
}

// requireDir checks dir once per run. Missing directories are either queued
// for creation or reported as not found.
func (r *compileRun) requireDir(dir, node string) {
	if dir == "" {
		dir = "."
	}
	if _, ok := r.dirs[dir]; ok {
		return
	}
	r.dirs[dir] = struct{}{}

	if fsutil.DirExists(dir) {
		return
	}
	if r.opts.MakeDirs {
		r.mkdirs = append(r.mkdirs, dir)
		return
	}
	r.diag = multierr.Append(r.diag,
		errkind.Wrap(errkind.NotFoundKind, node, fsutil.ErrMissingDir, "directory %q does not exist", dir))
}

func (r *compileRun) stage(path string, data []byte, node string) error {
	if _, dup := r.paths[path]; dup {
		return errkind.New(errkind.ConflictKind, node, "file %q would be written twice in one compilation", path)
	}
	r.paths[path] = struct{}{}
	r.files = append(r.files, stagedFile{path: path, data: data})
	return nil
}
