// This file translates decoded HCL block bodies into the format-agnostic
// configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/jobgraph/internal/config"
	"github.com/specialistvlad/jobgraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// translateUnit decodes a unit block. Records from the `arguments` list come
// first, followed by `argument` blocks in source order.
func (l *Loader) translateUnit(ctx context.Context, b *namedBlock, evalCtx *hcl.EvalContext, source string) (*config.Unit, error) {
	logger := ctxlog.FromContext(ctx).With("unit", b.Name)
	ctx = ctxlog.WithLogger(ctx, logger)

	var body unitBody
	if diags := gohcl.DecodeBody(b.Body, evalCtx, &body); diags.HasErrors() {
		return nil, fmt.Errorf("unit %q in %s: %w", b.Name, source, diags)
	}

	u := &config.Unit{
		Name:          b.Name,
		Executable:    body.Executable,
		Universe:      body.Universe,
		RequestMemory: body.RequestMemory,
		RequestDisk:   body.RequestDisk,
		RequestCPUs:   body.RequestCPUs,
		GetEnv:        body.GetEnv,
		InitialDir:    body.InitialDir,
		Notification:  body.Notification,
		Requirements:  body.Requirements,
		Queue:         body.Queue,
		Retry:         body.Retry,
		ExtraLines:    body.ExtraLines,
		Dirs: config.Dirs{
			Submit: body.SubmitDir,
			Log:    body.LogDir,
			Output: body.OutputDir,
			Error:  body.ErrorDir,
		},
		DependsOn: body.DependsOn,
		Source:    source,
	}

	if isExprDefined(ctx, body.Arguments, "arguments") {
		raws, err := evalStringList(body.Arguments, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("unit %q in %s: arguments: %w", b.Name, source, err)
		}
		for _, raw := range raws {
			u.Arguments = append(u.Arguments, config.Argument{Value: raw})
		}
	}
	for _, ab := range body.ArgumentBlocks {
		u.Arguments = append(u.Arguments, config.Argument{Value: ab.Value, Name: ab.Name, Retry: ab.Retry})
	}

	logger.Debug("Translated unit.", "arguments", len(u.Arguments), "depends_on", len(u.DependsOn))
	return u, nil
}

func (l *Loader) translateWorkflow(b *namedBlock, evalCtx *hcl.EvalContext, source string) (*config.Workflow, error) {
	var body workflowBody
	if diags := gohcl.DecodeBody(b.Body, evalCtx, &body); diags.HasErrors() {
		return nil, fmt.Errorf("workflow %q in %s: %w", b.Name, source, diags)
	}
	return &config.Workflow{
		Name:       b.Name,
		Nodes:      body.Nodes,
		ExtraLines: body.ExtraLines,
		SubmitDir:  body.SubmitDir,
		DependsOn:  body.DependsOn,
		Source:     source,
	}, nil
}

// evalStringList evaluates expr and converts the result to a list of
// strings. Numbers and bools are converted; nested collections are not.
func evalStringList(expr hcl.Expression, evalCtx *hcl.EvalContext) ([]string, error) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	listVal, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("expected a list of strings, got %s: %w", val.Type().FriendlyName(), err)
	}
	var out []string
	if err := gocty.FromCtyValue(listVal, &out); err != nil {
		return nil, err
	}
	return out, nil
}
