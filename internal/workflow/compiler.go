package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/jobgraph/internal/ctxlog"
	"github.com/specialistvlad/jobgraph/internal/errkind"
	"github.com/specialistvlad/jobgraph/internal/nodeid"
	"github.com/specialistvlad/jobgraph/internal/topology"
)

// Artifact extensions.
const (
	WorkflowExt   = ".submit"
	DescriptorExt = ".sub"
)

// largeFanOut is the record count above which a standalone unit logs a hint
// to use a workflow instead.
const largeFanOut = 10

// CompileOptions control how artifacts are named and where they may be written.
type CompileOptions struct {
	// MakeDirs creates missing directories. When false a missing directory
	// fails the compilation with a not-found error.
	MakeDirs bool
	// FancyName decorates compiled names with the date and a sequence number
	// so repeated runs do not overwrite earlier artifacts.
	FancyName bool
	// Now returns the date used by FancyName. Defaults to time.Now.
	Now func() time.Time
}

// DefaultCompileOptions returns the options used by the command line tool.
func DefaultCompileOptions() CompileOptions {
	return CompileOptions{MakeDirs: true, FancyName: true, Now: time.Now}
}

// Artifact describes a compiled file.
type Artifact struct {
	Name string
	Path string
	Kind topology.Kind
	// HasInvalidNodeNames is set when the artifact declares a node name
	// containing '.' or '+'.
	HasInvalidNodeNames bool
}

// Built reports whether the artifact refers to a written file.
func (a Artifact) Built() bool { return a.Path != "" }

// Compiler turns workflows and standalone units into scheduler files.
type Compiler struct {
	logger *slog.Logger
	opts   CompileOptions
}

// NewCompiler returns a compiler that logs to logger. Each compilation run
// derives a child logger tagged with its run id.
func NewCompiler(logger *slog.Logger, opts CompileOptions) *Compiler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Compiler{logger: logger, opts: opts}
}

// Compile writes the artifact of w and of everything nested in it. Either
// every file of the run is written or none is. Compiling a workflow that is
// already built returns its existing artifact.
func (c *Compiler) Compile(ctx context.Context, w *Workflow) (Artifact, error) {
	if w == nil {
		return Artifact{}, errkind.New(errkind.TypeKind, "", "compile() is expecting a workflow, got nil")
	}
	if w.built {
		c.logger.Warn("Workflow already built, not compiling again.", "workflow", w.name, "path", w.artifactPath)
		return w.artifact(), nil
	}

	run := c.newRun(ctx)
	logger := ctxlog.FromContext(run.ctx)
	logger.Info("Compiling workflow.", "workflow", w.name, "nodes", len(w.nodes))

	if _, err := run.planWorkflow(w); err != nil {
		return Artifact{}, err
	}
	if err := run.finish(); err != nil {
		return Artifact{}, err
	}

	logger.Info("Workflow compiled.", "workflow", w.name, "path", w.artifactPath, "files", len(run.files))
	if w.invalidNames {
		logger.Warn("Workflow declares node names containing '.' or '+', newer schedulers will refuse it.", "workflow", w.name)
	}
	return w.artifact(), nil
}

// BuildUnit writes a standalone submit descriptor for u. Per-record retries
// and fan-out combined with a queue count need a workflow and are rejected.
func (c *Compiler) BuildUnit(ctx context.Context, u *Unit) (Artifact, error) {
	if u == nil {
		return Artifact{}, errkind.New(errkind.TypeKind, "", "build_unit() is expecting a unit, got nil")
	}
	if u.built {
		if !u.standalone {
			return Artifact{}, errkind.New(errkind.UnsupportedKind, u.name, "unit was already built as part of a workflow")
		}
		c.logger.Warn("Unit already built, not building again.", "unit", u.name, "path", u.descriptorPath)
		return u.artifact(), nil
	}
	if u.hasRetries() {
		return Artifact{}, errkind.New(errkind.UnsupportedKind, u.name, "retries are only supported inside a workflow")
	}
	if len(u.args) > 1 && u.opts.Queue > 0 {
		return Artifact{}, errkind.New(errkind.UnsupportedKind, u.name,
			"multiple arguments combined with queue=%d are only supported inside a workflow", u.opts.Queue)
	}

	run := c.newRun(ctx)
	logger := ctxlog.FromContext(run.ctx)
	if len(u.args) >= largeFanOut {
		logger.Warn("Unit has many arguments, consider adding it to a workflow.", "unit", u.name, "arguments", len(u.args))
	}

	if _, err := run.planUnit(u, true); err != nil {
		return Artifact{}, err
	}
	if err := run.finish(); err != nil {
		return Artifact{}, err
	}

	logger.Info("Unit built.", "unit", u.name, "path", u.descriptorPath)
	return u.artifact(), nil
}

func (c *Compiler) newRun(ctx context.Context) *compileRun {
	ctx = ctxlog.With(ctxlog.WithLogger(ctx, c.logger), "run_id", uuid.NewString())
	return &compileRun{
		ctx:       ctx,
		opts:      c.opts,
		date:      nodeid.DateStamp(c.opts.Now()),
		units:     make(map[nodeid.Key]*unitPlan),
		workflows: make(map[nodeid.Key]*workflowPlan),
		reserved:  make(map[string]int),
		paths:     make(map[string]struct{}),
		dirs:      make(map[string]struct{}),
	}
}

func (w *Workflow) artifact() Artifact {
	return Artifact{
		Name:                w.compiledName,
		Path:                w.artifactPath,
		Kind:                topology.KindWorkflow,
		HasInvalidNodeNames: w.invalidNames,
	}
}

func (u *Unit) artifact() Artifact {
	return Artifact{
		Name:                u.compiledName,
		Path:                u.descriptorPath,
		Kind:                topology.KindUnit,
		HasInvalidNodeNames: nodeid.HasDisallowedChars(u.compiledName),
	}
}
