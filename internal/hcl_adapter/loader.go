// Package hcl_adapter loads unit and workflow definitions written in HCL and
// translates them into the format-agnostic config.Model.
//
// Attribute expressions are evaluated against an eval context exposing the
// process environment as `env.*`, values from `locals` blocks as `local.*`,
// and a small set of collection and string functions.
package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/jobgraph/internal/config"
	"github.com/specialistvlad/jobgraph/internal/ctxlog"
	"github.com/specialistvlad/jobgraph/internal/fsutil"
	"go.uber.org/multierr"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	env config.Environment
}

// NewLoader creates a new HCL definition loader. env backs the `env.*`
// variables of the eval context.
func NewLoader(env config.Environment) *Loader {
	return &Loader{env: env}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".hcl"}
}

// parsedFile keeps a file's top-level blocks until locals are known.
type parsedFile struct {
	path string
	root fileRoot
}

// Load parses every .hcl file under paths. Locals are shared across all
// files, so every file is parsed before any unit or workflow is evaluated.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	var files []string
	for _, p := range paths {
		found, err := fsutil.FindFilesByExtension(p, l.Extensions()...)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	parsed := make([]parsedFile, 0, len(files))
	var localAttrs []*hcl.Attribute

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		for _, lb := range root.Locals {
			attrs, diags := lb.Body.JustAttributes()
			if diags.HasErrors() {
				return nil, fmt.Errorf("invalid locals block in %s: %w", file, diags)
			}
			localAttrs = append(localAttrs, sortedAttributes(attrs)...)
		}
		parsed = append(parsed, parsedFile{path: file, root: root})
	}

	evalCtx, err := newEvalContext(ctx, l.env, localAttrs)
	if err != nil {
		return nil, err
	}

	model := &config.Model{}
	var errs error
	for _, f := range parsed {
		for _, b := range f.root.Units {
			u, err := l.translateUnit(ctx, b, evalCtx, f.path)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			model.Units = append(model.Units, u)
		}
		for _, b := range f.root.Workflows {
			w, err := l.translateWorkflow(b, evalCtx, f.path)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			model.Workflows = append(model.Workflows, w)
		}
	}
	if errs != nil {
		return nil, errs
	}

	logger.Debug("HCL loading complete.", "units", len(model.Units), "workflows", len(model.Workflows))
	return model, nil
}
