// Package dispatch hands compiled artifacts to the scheduler's submission
// commands. It never schedules anything itself.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/specialistvlad/jobgraph/internal/errkind"
	"github.com/specialistvlad/jobgraph/internal/workflow"
)

// ErrIllegalNodeName is returned when a workflow declares node names the
// installed scheduler rejects.
var ErrIllegalNodeName = errors.New("illegal character in node name")

// Commands names the scheduler tools.
type Commands struct {
	SubmitWorkflow string
	SubmitUnit     string
	Version        string
}

// DefaultCommands returns the standard tool names.
func DefaultCommands() Commands {
	return Commands{
		SubmitWorkflow: "condor_submit_dag",
		SubmitUnit:     "condor_submit",
		Version:        "condor_version",
	}
}

// Dispatcher submits built workflows and units.
type Dispatcher struct {
	runner   Runner
	commands Commands
	logger   *slog.Logger
}

// New creates a dispatcher running commands through runner.
func New(runner Runner, commands Commands, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{runner: runner, commands: commands, logger: logger}
}

// SchedulerVersion asks the scheduler for its release.
func (d *Dispatcher) SchedulerVersion(ctx context.Context) (Version, error) {
	if err := d.require(d.commands.Version, ""); err != nil {
		return Version{}, err
	}
	out, err := d.runner.Run(ctx, d.commands.Version)
	if err != nil {
		return Version{}, err
	}
	return ParseVersion(string(out))
}

// SubmitWorkflow submits the compiled artifact of w. options are passed to
// the submission command before the artifact path. It returns the command's
// output.
func (d *Dispatcher) SubmitWorkflow(ctx context.Context, w *workflow.Workflow, options string) (string, error) {
	if w == nil {
		return "", errkind.New(errkind.TypeKind, "", "submit_workflow() is expecting a workflow, got nil")
	}
	if !w.Built() {
		return "", errkind.New(errkind.UnsupportedKind, w.Name(), "workflow must be compiled before it is submitted")
	}
	if err := d.require(d.commands.SubmitWorkflow, w.Name()); err != nil {
		return "", err
	}

	if w.HasInvalidNodeNames() {
		v, err := d.SchedulerVersion(ctx)
		if err != nil {
			return "", err
		}
		if v.AtLeast(IllegalNameVersion) {
			return "", errkind.Wrap(errkind.ConflictKind, w.Name(), ErrIllegalNodeName,
				"scheduler %s prohibits '+' and '.' in node names (since %s)",
				v, IllegalNameVersion)
		}
	}

	return d.submit(ctx, d.commands.SubmitWorkflow, w.Name(), w.ArtifactPath(), options)
}

// SubmitUnit submits the standalone descriptor of u. Units with ordering
// constraints need a workflow.
func (d *Dispatcher) SubmitUnit(ctx context.Context, u *workflow.Unit, options string) (string, error) {
	if u == nil {
		return "", errkind.New(errkind.TypeKind, "", "submit_unit() is expecting a unit, got nil")
	}
	if !u.Built() {
		return "", errkind.New(errkind.UnsupportedKind, u.Name(), "unit must be built before it is submitted")
	}
	if u.HasParents() || u.HasChildren() {
		return "", errkind.New(errkind.UnsupportedKind, u.Name(), "units with parents or children must be submitted as part of a workflow")
	}
	if err := d.require(d.commands.SubmitUnit, u.Name()); err != nil {
		return "", err
	}
	return d.submit(ctx, d.commands.SubmitUnit, u.Name(), u.DescriptorPath(), options)
}

func (d *Dispatcher) submit(ctx context.Context, command, node, path, options string) (string, error) {
	args := append(strings.Fields(options), path)
	d.logger.Info("Submitting.", "node", node, "command", command, "path", path)

	out, err := d.runner.Run(ctx, command, args...)
	if err != nil {
		return string(out), err
	}
	d.logger.Debug("Submission finished.", "node", node, "output_bytes", len(out))
	return string(out), nil
}

func (d *Dispatcher) require(command, node string) error {
	if _, err := d.runner.LookPath(command); err != nil {
		return errkind.Wrap(errkind.NotFoundKind, node, err, "command %q was not found on this machine", command)
	}
	return nil
}
