package workflow

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/specialistvlad/jobgraph/internal/config"
	"github.com/specialistvlad/jobgraph/internal/errkind"
)

// UnitOptions are the optional submit attributes of a unit. Zero values mean
// "not set" and are left out of the submit descriptor.
type UnitOptions struct {
	Universe      string
	RequestMemory string
	RequestDisk   string
	RequestCPUs   int
	GetEnv        *bool
	InitialDir    string
	Notification  string
	Requirements  string
	// Queue is how many times the job is queued. Zero queues it once.
	Queue int
	// Retry is the default retry count for argument records that do not set
	// their own.
	Retry      *int
	ExtraLines []string
	// Dirs overrides the graph's default directories for this unit.
	Dirs config.Dirs
}

func (o UnitOptions) validate(name string) error {
	if o.RequestCPUs < 0 {
		return errkind.New(errkind.TypeKind, name, "request_cpus must not be negative, got %d", o.RequestCPUs)
	}
	if o.Queue < 0 {
		return errkind.New(errkind.TypeKind, name, "queue must not be negative, got %d", o.Queue)
	}
	if o.Retry != nil && *o.Retry < 0 {
		return errkind.New(errkind.TypeKind, name, "retry must not be negative, got %d", *o.Retry)
	}
	return nil
}

// ArgumentRecord is one argument set of a unit. Each record becomes its own
// schedulable sub-node inside a workflow.
type ArgumentRecord struct {
	Raw string
	// Name is optional. Named records get their own sub-node name and their
	// own log, output and error files.
	Name  string
	Retry *int
}

// ArgOption configures an argument record.
type ArgOption func(*ArgumentRecord)

// WithArgName names the record.
func WithArgName(name string) ArgOption {
	return func(r *ArgumentRecord) { r.Name = name }
}

// WithRetry sets the record's retry count.
func WithRetry(n int) ArgOption {
	return func(r *ArgumentRecord) { r.Retry = &n }
}

// Unit is an executable plus its argument records.
type Unit struct {
	base
	executable string
	opts       UnitOptions
	dirs       config.Dirs
	args       []ArgumentRecord
	argNames   map[string]struct{}

	descriptorPath string
	// standalone is set when the unit was built outside any workflow.
	standalone bool
}

// Executable returns the executable path.
func (u *Unit) Executable() string { return u.executable }

// Options returns the unit's submit attributes.
func (u *Unit) Options() UnitOptions { return u.opts }

// Dirs returns the directories resolved for this unit.
func (u *Unit) Dirs() config.Dirs { return u.dirs }

// Arguments returns a copy of the argument records in insertion order.
func (u *Unit) Arguments() []ArgumentRecord { return slices.Clone(u.args) }

// Len returns the number of argument records.
func (u *Unit) Len() int { return len(u.args) }

// DescriptorPath returns the submit descriptor path, or "" before building.
func (u *Unit) DescriptorPath() string { return u.descriptorPath }

// String summarizes the unit for logs.
func (u *Unit) String() string {
	return fmt.Sprintf("Unit(name=%s, executable=%s, n_args=%d)", u.name, filepath.Base(u.executable), len(u.args))
}

// AddArgument appends an argument record. A record without an explicit
// retry inherits the unit's default retry.
func (u *Unit) AddArgument(raw string, opts ...ArgOption) error {
	if u.built {
		return errkind.New(errkind.UnsupportedKind, u.name, "cannot add arguments after the unit has been built")
	}

	r := ArgumentRecord{Raw: raw}
	for _, opt := range opts {
		opt(&r)
	}
	if r.Retry == nil && u.opts.Retry != nil {
		retry := *u.opts.Retry
		r.Retry = &retry
	}
	if r.Retry != nil && *r.Retry < 0 {
		return errkind.New(errkind.TypeKind, u.name, "retry must not be negative, got %d", *r.Retry)
	}
	if r.Name != "" {
		if _, dup := u.argNames[r.Name]; dup {
			return errkind.New(errkind.ConflictKind, u.name, "argument name %q is already used by another record", r.Name)
		}
		u.argNames[r.Name] = struct{}{}
	}

	u.args = append(u.args, r)
	u.g.logger.Debug("Added argument.", "unit", u.name, "argument", raw, "name", r.Name)
	return nil
}

// AddArguments appends one unnamed record per raw argument string.
func (u *Unit) AddArguments(raws ...string) error {
	for _, raw := range raws {
		if err := u.AddArgument(raw); err != nil {
			return err
		}
	}
	return nil
}

func (u *Unit) hasArgNames() bool {
	return len(u.argNames) > 0
}

func (u *Unit) hasRetries() bool {
	if len(u.args) == 0 {
		return u.opts.Retry != nil
	}
	for _, r := range u.args {
		if r.Retry != nil {
			return true
		}
	}
	return false
}
