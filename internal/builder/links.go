package builder

import (
	"context"

	"github.com/specialistvlad/jobgraph/internal/ctxlog"
	"github.com/specialistvlad/jobgraph/internal/errkind"
	"github.com/specialistvlad/jobgraph/internal/workflow"
	"go.uber.org/multierr"
)

// addMembers performs the second pass, filling each workflow's node list.
func addMembers(ctx context.Context, res *Result) error {
	logger := ctxlog.FromContext(ctx)
	var errs error

	for _, d := range res.decls {
		w, ok := d.node.(*workflow.Workflow)
		if !ok {
			continue
		}
		for _, member := range d.members {
			target, ok := res.nodes[member]
			if !ok {
				errs = multierr.Append(errs, errkind.New(errkind.NotFoundKind, w.Name(),
					"workflow lists unknown node %q", member))
				continue
			}
			if err := w.AddNode(target); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			logger.Debug("Added workflow member.", "workflow", w.Name(), "node", member)
		}
	}
	return errs
}

// linkNodes performs the third pass, turning depends_on into parent edges.
func linkNodes(ctx context.Context, res *Result) error {
	logger := ctxlog.FromContext(ctx)
	var errs error

	for _, d := range res.decls {
		for _, dep := range d.dependsOn {
			parent, ok := res.nodes[dep]
			if !ok {
				errs = multierr.Append(errs, errkind.New(errkind.NotFoundKind, d.node.Name(),
					"depends on non-existent node %q", dep))
				continue
			}
			if err := d.node.AddParent(parent); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			logger.Debug("Linked explicit dependency.", "parent", dep, "child", d.node.Name())
		}
	}
	return errs
}
