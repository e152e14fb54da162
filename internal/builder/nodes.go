package builder

import (
	"context"

	"github.com/specialistvlad/jobgraph/internal/config"
	"github.com/specialistvlad/jobgraph/internal/ctxlog"
	"github.com/specialistvlad/jobgraph/internal/errkind"
	"github.com/specialistvlad/jobgraph/internal/workflow"
	"go.uber.org/multierr"
)

// createNodes performs the first pass, creating a node for every declaration.
func createNodes(ctx context.Context, model *config.Model, res *Result) error {
	logger := ctxlog.FromContext(ctx)
	sources := make(map[string]string)
	var errs error

	claim := func(name, source string) bool {
		if prev, dup := sources[name]; dup {
			errs = multierr.Append(errs, errkind.New(errkind.ConflictKind, name,
				"declared in %s and again in %s; units and workflows share one namespace", prev, source))
			return false
		}
		sources[name] = source
		return true
	}

	for _, cu := range model.Units {
		if !claim(cu.Name, cu.Source) {
			continue
		}
		u, err := newUnit(res.Graph, cu)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		logger.Debug("Created unit node.", "unit", cu.Name, "arguments", u.Len())
		res.Units = append(res.Units, u)
		res.nodes[cu.Name] = u
		res.decls = append(res.decls, decl{node: u, dependsOn: cu.DependsOn})
	}

	for _, cw := range model.Workflows {
		if !claim(cw.Name, cw.Source) {
			continue
		}
		w, err := res.Graph.NewWorkflow(cw.Name, workflow.WorkflowOptions{
			ExtraLines: cw.ExtraLines,
			SubmitDir:  cw.SubmitDir,
		})
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		logger.Debug("Created workflow node.", "workflow", cw.Name)
		res.Workflows = append(res.Workflows, w)
		res.nodes[cw.Name] = w
		res.decls = append(res.decls, decl{node: w, members: cw.Nodes, dependsOn: cw.DependsOn})
	}
	return errs
}

func newUnit(g *workflow.Graph, cu *config.Unit) (*workflow.Unit, error) {
	opts := workflow.UnitOptions{
		Universe:      cu.Universe,
		RequestMemory: cu.RequestMemory,
		RequestDisk:   cu.RequestDisk,
		GetEnv:        cu.GetEnv,
		InitialDir:    cu.InitialDir,
		Notification:  cu.Notification,
		Requirements:  cu.Requirements,
		Retry:         cu.Retry,
		ExtraLines:    cu.ExtraLines,
		Dirs:          cu.Dirs,
	}
	if cu.RequestCPUs != nil {
		opts.RequestCPUs = *cu.RequestCPUs
	}
	if cu.Queue != nil {
		opts.Queue = *cu.Queue
	}

	u, err := g.NewUnit(cu.Name, cu.Executable, opts)
	if err != nil {
		return nil, err
	}
	for _, a := range cu.Arguments {
		var argOpts []workflow.ArgOption
		if a.Name != "" {
			argOpts = append(argOpts, workflow.WithArgName(a.Name))
		}
		if a.Retry != nil {
			argOpts = append(argOpts, workflow.WithRetry(*a.Retry))
		}
		if err := u.AddArgument(a.Value, argOpts...); err != nil {
			return nil, err
		}
	}
	return u, nil
}
