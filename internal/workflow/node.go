package workflow

import (
	"github.com/specialistvlad/jobgraph/internal/errkind"
	"github.com/specialistvlad/jobgraph/internal/nodeid"
	"github.com/specialistvlad/jobgraph/internal/topology"
)

// Node is a logical node of a Graph: either a *Unit or a *Workflow.
// The interface is sealed; only this package implements it.
type Node interface {
	Name() string
	Key() nodeid.Key
	Kind() topology.Kind
	Built() bool
	CompiledName() string

	Parents() []Node
	Children() []Node
	HasParents() bool
	HasChildren() bool
	AddParent(n Node) error
	AddChild(n Node) error
	AddParents(nodes ...Node) error
	AddChildren(nodes ...Node) error

	graph() *Graph
	// compileAsChild emits the node's declarations into the artifact of the
	// workflow being planned and records its physical names in the index.
	compileAsChild(run *compileRun, parent *workflowPlan) error
}

// base carries identity and adjacency shared by both variants.
type base struct {
	g            *Graph
	key          nodeid.Key
	name         string
	built        bool
	compiledName string
}

// Name returns the logical name.
func (b *base) Name() string { return b.name }

// Key returns the arena key.
func (b *base) Key() nodeid.Key { return b.key }

// Kind returns the node variant.
func (b *base) Kind() topology.Kind { return b.g.store.Kind(b.key) }

// Built reports whether the node has been compiled.
func (b *base) Built() bool { return b.built }

// CompiledName returns the name used in artifacts, or "" before compilation.
func (b *base) CompiledName() string { return b.compiledName }

// Parents returns the parent nodes in insertion order.
func (b *base) Parents() []Node { return b.g.resolve(b.g.store.Parents(b.key)) }

// Children returns the child nodes in insertion order.
func (b *base) Children() []Node { return b.g.resolve(b.g.store.Children(b.key)) }

// HasParents reports whether the node has any parent.
func (b *base) HasParents() bool { return b.g.store.HasParents(b.key) }

// HasChildren reports whether the node has any child.
func (b *base) HasChildren() bool { return b.g.store.HasChildren(b.key) }

func (b *base) graph() *Graph { return b.g }

// AddParent registers n as a parent of this node and this node as a child
// of n. Adding an existing parent is a no-op.
func (b *base) AddParent(n Node) error {
	if err := b.checkPeer(n, "add_parent"); err != nil {
		return err
	}
	return b.link(n.Key(), b.key)
}

// AddChild registers n as a child of this node and this node as a parent
// of n. Adding an existing child is a no-op.
func (b *base) AddChild(n Node) error {
	if err := b.checkPeer(n, "add_child"); err != nil {
		return err
	}
	return b.link(b.key, n.Key())
}

// AddParents adds every node as a parent. All nodes are validated before
// any edge is recorded.
func (b *base) AddParents(nodes ...Node) error {
	for _, n := range nodes {
		if err := b.checkPeer(n, "add_parents"); err != nil {
			return err
		}
	}
	for _, n := range nodes {
		if err := b.link(n.Key(), b.key); err != nil {
			return err
		}
	}
	return nil
}

// AddChildren adds every node as a child. All nodes are validated before
// any edge is recorded.
func (b *base) AddChildren(nodes ...Node) error {
	for _, n := range nodes {
		if err := b.checkPeer(n, "add_children"); err != nil {
			return err
		}
	}
	for _, n := range nodes {
		if err := b.link(b.key, n.Key()); err != nil {
			return err
		}
	}
	return nil
}

func (b *base) checkPeer(n Node, op string) error {
	if isNil(n) {
		return errkind.New(errkind.TypeKind, b.name, "%s() is expecting a unit or workflow, got nil", op)
	}
	if n.graph() != b.g {
		return errkind.New(errkind.TypeKind, b.name, "%s() got %q, which belongs to a different graph", op, n.Name())
	}
	if n.Key() == b.key {
		return errkind.New(errkind.ConflictKind, b.name, "%s(): a node cannot depend on itself", op)
	}
	return nil
}

func (b *base) link(parent, child nodeid.Key) error {
	added, err := b.g.store.Link(parent, child)
	if err != nil {
		return errkind.Wrap(errkind.ConflictKind, b.name, err, "cannot link %q to %q", b.g.store.Name(parent), b.g.store.Name(child))
	}
	if added {
		b.g.logger.Debug("Added dependency.", "parent", b.g.store.Name(parent), "child", b.g.store.Name(child))
	}
	return nil
}

// isNil catches both untyped nil and typed nil pointers.
func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Unit:
		return v == nil
	case *Workflow:
		return v == nil
	}
	return false
}
