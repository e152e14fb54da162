package hcl_adapter

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/jobgraph/internal/config"
	"github.com/specialistvlad/jobgraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// functions available to every expression.
func functions() map[string]function.Function {
	return map[string]function.Function{
		"concat":     stdlib.ConcatFunc,
		"format":     stdlib.FormatFunc,
		"formatlist": stdlib.FormatListFunc,
		"join":       stdlib.JoinFunc,
		"length":     stdlib.LengthFunc,
		"lower":      stdlib.LowerFunc,
		"range":      stdlib.RangeFunc,
		"split":      stdlib.SplitFunc,
		"trimspace":  stdlib.TrimSpaceFunc,
		"upper":      stdlib.UpperFunc,
	}
}

// newEvalContext evaluates locals and returns the context used for unit and
// workflow bodies. Locals may reference each other in any order.
func newEvalContext(ctx context.Context, env config.Environment, locals []*hcl.Attribute) (*hcl.EvalContext, error) {
	logger := ctxlog.FromContext(ctx)

	vars := env.Vars()
	if vars == nil {
		vars = map[string]string{}
	}
	envVal, err := gocty.ToCtyValue(vars, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("converting environment: %w", err)
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env":   envVal,
			"local": cty.EmptyObjectVal,
		},
		Functions: functions(),
	}

	resolved := make(map[string]cty.Value, len(locals))
	seen := make(map[string]hcl.Range, len(locals))
	for _, a := range locals {
		if prev, dup := seen[a.Name]; dup {
			return nil, fmt.Errorf("local %q at %s is already defined at %s", a.Name, a.NameRange, prev)
		}
		seen[a.Name] = a.NameRange
	}

	pending := locals
	for len(pending) > 0 {
		var next []*hcl.Attribute
		for _, a := range pending {
			if !localsReady(a, resolved) {
				next = append(next, a)
				continue
			}
			val, diags := a.Expr.Value(evalCtx)
			if diags.HasErrors() {
				return nil, fmt.Errorf("evaluating local %q: %w", a.Name, diags)
			}
			resolved[a.Name] = val
			evalCtx.Variables["local"] = cty.ObjectVal(resolved)
			logger.Debug("Evaluated local.", "name", a.Name, "type", val.Type().FriendlyName())
		}
		if len(next) == len(pending) {
			stuck := make([]string, 0, len(next))
			for _, a := range next {
				stuck = append(stuck, fmt.Sprintf("%s (needs %s)", a.Name, strings.Join(pendingRefs(a, resolved), ", ")))
			}
			return nil, fmt.Errorf("cannot resolve locals %s: unknown reference or cycle", strings.Join(stuck, ", "))
		}
		pending = next
	}
	return evalCtx, nil
}

// localsReady reports whether every `local.*` reference of a is resolved.
func localsReady(a *hcl.Attribute, resolved map[string]cty.Value) bool {
	for _, tr := range a.Expr.Variables() {
		if tr.RootName() != "local" || len(tr) < 2 {
			continue
		}
		step, ok := tr[1].(hcl.TraverseAttr)
		if !ok {
			continue
		}
		if _, done := resolved[step.Name]; !done {
			return false
		}
	}
	return true
}

// pendingRefs lists the unresolved `local.*` references of a as written
// in the source.
func pendingRefs(a *hcl.Attribute, resolved map[string]cty.Value) []string {
	var refs []string
	for _, tr := range a.Expr.Variables() {
		if tr.RootName() != "local" || len(tr) < 2 {
			continue
		}
		if step, ok := tr[1].(hcl.TraverseAttr); ok {
			if _, done := resolved[step.Name]; done {
				continue
			}
		}
		refs = append(refs, traversalKey(tr))
	}
	return refs
}

// traversalKey renders a traversal the way it appears in source, e.g.
// local.foo[0].
func traversalKey(t hcl.Traversal) string {
	return strings.TrimSpace(string(hclwrite.TokensForTraversal(t).Bytes()))
}

// sortedAttributes returns attrs in source order.
func sortedAttributes(attrs hcl.Attributes) []*hcl.Attribute {
	out := make([]*hcl.Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b *hcl.Attribute) int {
		return a.Range.Start.Byte - b.Range.Start.Byte
	})
	return out
}
