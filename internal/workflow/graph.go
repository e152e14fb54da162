package workflow

import (
	"log/slog"
	"slices"

	"github.com/specialistvlad/jobgraph/internal/config"
	"github.com/specialistvlad/jobgraph/internal/errkind"
	"github.com/specialistvlad/jobgraph/internal/nodeid"
	"github.com/specialistvlad/jobgraph/internal/topology"
)

// Graph is the arena that owns units and workflows and the edges between them.
type Graph struct {
	store  *topology.Store
	nodes  []Node // indexed by key-1
	logger *slog.Logger
	dirs   config.Dirs
}

// NewGraph creates an empty graph. dirs are the already resolved default
// directories inherited by every node; a nil logger discards diagnostics.
func NewGraph(logger *slog.Logger, dirs config.Dirs) *Graph {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Graph{
		store:  topology.New(),
		logger: logger,
		dirs:   dirs,
	}
}

// Dirs returns the default directories of the graph.
func (g *Graph) Dirs() config.Dirs {
	return g.dirs
}

// Len returns the number of nodes created in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns every node in creation order.
func (g *Graph) Nodes() []Node {
	return slices.Clone(g.nodes)
}

// NewUnit creates a unit. The executable is only checked at build time.
func (g *Graph) NewUnit(name, executable string, opts UnitOptions) (*Unit, error) {
	if err := nodeid.Validate(name); err != nil {
		return nil, errkind.Wrap(errkind.TypeKind, name, err, "invalid unit name")
	}
	if executable == "" {
		return nil, errkind.New(errkind.TypeKind, name, "executable is required")
	}
	if err := opts.validate(name); err != nil {
		return nil, err
	}

	u := &Unit{
		executable: executable,
		opts:       opts,
		dirs:       g.dirs.Override(opts.Dirs),
		argNames:   make(map[string]struct{}),
	}
	u.base = g.register(u, name, topology.KindUnit)
	g.logger.Debug("Unit initialized.", "unit", name, "executable", executable)
	return u, nil
}

// NewWorkflow creates an empty workflow.
func (g *Graph) NewWorkflow(name string, opts WorkflowOptions) (*Workflow, error) {
	if err := nodeid.Validate(name); err != nil {
		return nil, errkind.Wrap(errkind.TypeKind, name, err, "invalid workflow name")
	}

	w := &Workflow{
		opts:    opts,
		dirs:    g.dirs.Override(config.Dirs{Submit: opts.SubmitDir}),
		members: make(map[nodeid.Key]struct{}),
	}
	w.base = g.register(w, name, topology.KindWorkflow)
	g.logger.Debug("Workflow initialized.", "workflow", name)
	return w, nil
}

// Lookup returns the first node created with name.
func (g *Graph) Lookup(name string) (Node, bool) {
	for _, n := range g.nodes {
		if n.Name() == name {
			return n, true
		}
	}
	return nil, false
}

func (g *Graph) register(n Node, name string, kind topology.Kind) base {
	key := g.store.Add(name, kind)
	g.nodes = append(g.nodes, n)
	return base{g: g, key: key, name: name}
}

func (g *Graph) lookup(k nodeid.Key) Node {
	if !g.store.Has(k) {
		return nil
	}
	return g.nodes[k-1]
}

func (g *Graph) resolve(keys []nodeid.Key) []Node {
	out := make([]Node, 0, len(keys))
	for _, k := range keys {
		out = append(out, g.lookup(k))
	}
	return out
}
