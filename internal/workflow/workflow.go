package workflow

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/jobgraph/internal/config"
	"github.com/specialistvlad/jobgraph/internal/errkind"
	"github.com/specialistvlad/jobgraph/internal/nodeid"
)

// WorkflowOptions configure a workflow.
type WorkflowOptions struct {
	// ExtraLines are appended verbatim after the dependency section.
	ExtraLines []string
	// SubmitDir overrides the graph's submit directory for the artifact.
	SubmitDir string
}

// Workflow is an ordered container of units and nested workflows.
type Workflow struct {
	base
	opts    WorkflowOptions
	dirs    config.Dirs
	nodes   []Node
	members map[nodeid.Key]struct{}

	artifactPath string
	invalidNames bool
}

// AddUnit adds u to the workflow.
func (w *Workflow) AddUnit(u *Unit) error {
	if u == nil {
		return errkind.New(errkind.TypeKind, w.name, "add_unit() is expecting a unit, got nil")
	}
	return w.add(u, "add_unit")
}

// AddSubworkflow adds sub as a nested workflow. It compiles to its own
// artifact referenced from this one.
func (w *Workflow) AddSubworkflow(sub *Workflow) error {
	if sub == nil {
		return errkind.New(errkind.TypeKind, w.name, "add_subworkflow() is expecting a workflow, got nil")
	}
	return w.add(sub, "add_subworkflow")
}

// AddNode adds a unit or workflow. Adding a node that is already a member is
// a no-op.
func (w *Workflow) AddNode(n Node) error {
	if isNil(n) {
		return errkind.New(errkind.TypeKind, w.name, "add_node() is expecting a unit or workflow, got nil")
	}
	return w.add(n, "add_node")
}

func (w *Workflow) add(n Node, op string) error {
	if n.graph() != w.g {
		return errkind.New(errkind.TypeKind, w.name, "%s() got %q, which belongs to a different graph", op, n.Name())
	}
	if w.built {
		return errkind.New(errkind.UnsupportedKind, w.name, "cannot add %q after the workflow has been built", n.Name())
	}
	if _, ok := w.members[n.Key()]; ok {
		return nil
	}

	switch v := n.(type) {
	case *Workflow:
		if v == w {
			return errkind.New(errkind.ConflictKind, w.name, "a workflow cannot contain itself")
		}
		if v.contains(w) {
			return errkind.New(errkind.ConflictKind, w.name, "%q already contains %q", v.name, w.name)
		}
	case *Unit:
		if v.standalone {
			return errkind.New(errkind.UnsupportedKind, w.name, "unit %q was built standalone and cannot join a workflow", v.name)
		}
	}

	w.nodes = append(w.nodes, n)
	w.members[n.Key()] = struct{}{}
	w.g.logger.Debug("Added node to workflow.", "workflow", w.name, "node", n.Name(), "kind", n.Kind())
	return nil
}

// contains reports whether target is a direct or nested member of w.
func (w *Workflow) contains(target Node) bool {
	if _, ok := w.members[target.Key()]; ok {
		return true
	}
	for _, n := range w.nodes {
		if sub, ok := n.(*Workflow); ok && sub.contains(target) {
			return true
		}
	}
	return false
}

// Nodes returns the members in insertion order.
func (w *Workflow) Nodes() []Node { return slices.Clone(w.nodes) }

// Len returns the number of direct members.
func (w *Workflow) Len() int { return len(w.nodes) }

// Contains reports whether n is a direct member.
func (w *Workflow) Contains(n Node) bool {
	if isNil(n) {
		return false
	}
	_, ok := w.members[n.Key()]
	return ok && n.graph() == w.g
}

// Options returns the workflow options.
func (w *Workflow) Options() WorkflowOptions { return w.opts }

// Dirs returns the directories resolved for this workflow.
func (w *Workflow) Dirs() config.Dirs { return w.dirs }

// ArtifactPath returns the compiled artifact path, or "" before building.
func (w *Workflow) ArtifactPath() string { return w.artifactPath }

// HasInvalidNodeNames reports whether the compiled artifact, or any nested
// artifact, declares a node name the newer schedulers reject.
func (w *Workflow) HasInvalidNodeNames() bool { return w.invalidNames }

func (w *Workflow) String() string {
	return fmt.Sprintf("Workflow(name=%s, n_nodes=%d)", w.name, len(w.nodes))
}

// compileAsChild plans w as its own artifact and references it from parent.
func (w *Workflow) compileAsChild(run *compileRun, parent *workflowPlan) error {
	sub, err := run.planWorkflow(w)
	if err != nil {
		return err
	}
	parent.artifact.Subworkflow(sub.compiledName, sub.artifactPath)
	if sub.invalid {
		parent.invalid = true
	}
	return parent.declare(w, []string{sub.compiledName})
}
