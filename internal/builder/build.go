package builder

import (
	"context"
	"log/slog"

	"github.com/specialistvlad/jobgraph/internal/config"
	"github.com/specialistvlad/jobgraph/internal/ctxlog"
	"github.com/specialistvlad/jobgraph/internal/workflow"
)

// Result is the graph built from a model, with its nodes indexed by name.
type Result struct {
	Graph *workflow.Graph
	// Units and Workflows are in declaration order.
	Units     []*workflow.Unit
	Workflows []*workflow.Workflow

	nodes map[string]workflow.Node
	decls []decl
}

// decl remembers the references of a created node until they are resolved.
type decl struct {
	node      workflow.Node
	members   []string
	dependsOn []string
}

// Node returns the node declared as name.
func (r *Result) Node(name string) (workflow.Node, bool) {
	n, ok := r.nodes[name]
	return n, ok
}

// Roots returns the workflows that are not nested in another workflow.
func (r *Result) Roots() []*workflow.Workflow {
	nested := make(map[string]bool)
	for _, w := range r.Workflows {
		for _, n := range w.Nodes() {
			nested[n.Name()] = true
		}
	}
	var roots []*workflow.Workflow
	for _, w := range r.Workflows {
		if !nested[w.Name()] {
			roots = append(roots, w)
		}
	}
	return roots
}

// Standalone returns the units that are not a member of any workflow.
func (r *Result) Standalone() []*workflow.Unit {
	member := make(map[string]bool)
	for _, w := range r.Workflows {
		for _, n := range w.Nodes() {
			member[n.Name()] = true
		}
	}
	var out []*workflow.Unit
	for _, u := range r.Units {
		if !member[u.Name()] {
			out = append(out, u)
		}
	}
	return out
}

// Build constructs a graph from model. dirs are the resolved default
// directories; per-unit directories in the model override them.
func Build(ctx context.Context, model *config.Model, dirs config.Dirs) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")

	res := &Result{
		Graph: workflow.NewGraph(logger.With(slog.String("component", "graph")), dirs),
		nodes: make(map[string]workflow.Node),
	}

	if err := createNodes(ctx, model, res); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node creation complete.", "units", len(res.Units), "workflows", len(res.Workflows))

	if err := addMembers(ctx, res); err != nil {
		return nil, err
	}
	logger.Debug("Build: Membership complete.")

	if err := linkNodes(ctx, res); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.")

	logger.Info("Build: Graph construction successful.", "nodes", res.Graph.Len())
	return res, nil
}
