package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/jobgraph/internal/builder"
	"github.com/specialistvlad/jobgraph/internal/config"
	"github.com/specialistvlad/jobgraph/internal/ctxlog"
	"github.com/specialistvlad/jobgraph/internal/dispatch"
	"github.com/specialistvlad/jobgraph/internal/errkind"
	"github.com/specialistvlad/jobgraph/internal/visualize"
	"github.com/specialistvlad/jobgraph/internal/workflow"
	"go.uber.org/multierr"
)

// targets are the nodes selected for compilation.
type targets struct {
	workflows []*workflow.Workflow
	units     []*workflow.Unit
}

// Run executes the main application logic: load, build, compile, and
// optionally visualize and submit.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.Exec != "" {
		return a.runExec(ctx)
	}

	model, err := a.Load(ctx)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	res, err := builder.Build(ctx, model, config.ResolveDirs(a.config.Dirs, a.env, cwd))
	if err != nil {
		return fmt.Errorf("failed to build workflow graph: %w", err)
	}
	dirs := res.Graph.Dirs()
	a.logger.Debug("Graph built.", "nodes", len(res.Graph.Nodes()),
		"submit", dirs.Submit, "log", dirs.Log, "output", dirs.Output, "error", dirs.Error)

	sel, err := a.selectTargets(res)
	if err != nil {
		return err
	}
	if len(sel.workflows) == 0 && len(sel.units) == 0 {
		a.logger.Warn("No units or workflows found, nothing to compile.")
		return nil
	}

	if err := a.compile(ctx, sel); err != nil {
		return err
	}

	if a.config.DotPath != "" {
		if err := a.writeDot(sel); err != nil {
			return err
		}
	}

	if a.config.Submit {
		if err := a.submit(ctx, sel); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// runExec builds one unit around the configured executable and submits it
// unless submission is disabled.
func (a *App) runExec(ctx context.Context) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	g := workflow.NewGraph(a.logger.With("component", "graph"), config.ResolveDirs(a.config.Dirs, a.env, cwd))

	base := filepath.Base(a.config.Exec)
	u, err := g.NewUnit(strings.TrimSuffix(base, filepath.Ext(base)), a.config.Exec, workflow.UnitOptions{})
	if err != nil {
		return err
	}
	if len(a.config.ExecArgs) > 0 {
		if err := u.AddArgument(strings.Join(a.config.ExecArgs, " ")); err != nil {
			return err
		}
	}

	sel := targets{units: []*workflow.Unit{u}}
	if err := a.compile(ctx, sel); err != nil {
		return err
	}
	if !a.config.Submit {
		a.logger.Info("Dry run, not submitting.", "unit", u.Name())
		return nil
	}
	return a.submit(ctx, sel)
}

func (a *App) selectTargets(res *builder.Result) (targets, error) {
	if a.config.Workflow == "" {
		return targets{workflows: res.Roots(), units: res.Standalone()}, nil
	}

	n, ok := res.Node(a.config.Workflow)
	if !ok {
		return targets{}, errkind.New(errkind.NotFoundKind, a.config.Workflow, "workflow is not defined")
	}
	w, ok := n.(*workflow.Workflow)
	if !ok {
		return targets{}, errkind.New(errkind.TypeKind, a.config.Workflow, "expected a workflow, got a unit")
	}
	return targets{workflows: []*workflow.Workflow{w}}, nil
}

// compile builds every selected target. A failing target does not stop the
// others; all failures are returned together.
func (a *App) compile(ctx context.Context, sel targets) error {
	opts := workflow.DefaultCompileOptions()
	opts.MakeDirs = a.config.MakeDirs
	opts.FancyName = a.config.FancyName
	compiler := workflow.NewCompiler(a.logger.With("component", "compiler"), opts)

	var errs error
	for _, w := range sel.workflows {
		art, err := compiler.Compile(ctx, w)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		fmt.Fprintf(a.outW, "workflow %s: %s\n", w.Name(), art.Path)
	}
	for _, u := range sel.units {
		art, err := compiler.BuildUnit(ctx, u)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		fmt.Fprintf(a.outW, "unit %s: %s\n", u.Name(), art.Path)
	}
	return errs
}

func (a *App) writeDot(sel targets) error {
	if len(sel.workflows) != 1 {
		return errkind.New(errkind.UnsupportedKind, "",
			"a graph diagram needs exactly one workflow, found %d; select one with -workflow", len(sel.workflows))
	}
	w := sel.workflows[0]
	if err := visualize.Write(w, a.config.DotPath); err != nil {
		return fmt.Errorf("failed to write graph diagram: %w", err)
	}
	a.logger.Info("Graph diagram written.", "workflow", w.Name(), "path", a.config.DotPath)
	return nil
}

func (a *App) submit(ctx context.Context, sel targets) error {
	d := dispatch.New(a.runner, a.commands, a.logger.With("component", "dispatch"))

	for _, w := range sel.workflows {
		out, err := d.SubmitWorkflow(ctx, w, a.config.SubmitOptions)
		if err != nil {
			return fmt.Errorf("failed to submit workflow %s: %w", w.Name(), err)
		}
		fmt.Fprint(a.outW, out)
	}
	for _, u := range sel.units {
		out, err := d.SubmitUnit(ctx, u, a.config.SubmitOptions)
		if err != nil {
			return fmt.Errorf("failed to submit unit %s: %w", u.Name(), err)
		}
		fmt.Fprint(a.outW, out)
	}
	return nil
}
