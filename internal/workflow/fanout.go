package workflow

import (
	"github.com/specialistvlad/jobgraph/internal/jobfile"
	"github.com/specialistvlad/jobgraph/internal/nodeid"
)

// compileAsChild declares one schedulable node per argument record, or a
// single node named after the unit when it has no records.
func (u *Unit) compileAsChild(run *compileRun, parent *workflowPlan) error {
	up, err := run.planUnit(u, false)
	if err != nil {
		return err
	}
	names := fanOut(&parent.artifact, u, up.compiledName, up.descriptorPath)
	return parent.declare(u, names)
}

// fanOut writes the NODE, VARS and Retry lines of u into a and returns the
// physical names in record order.
func fanOut(a *jobfile.Artifact, u *Unit, compiled, descriptorPath string) []string {
	if len(u.args) == 0 {
		a.Node(compiled, descriptorPath)
		if u.opts.Retry != nil {
			a.Retry(compiled, *u.opts.Retry)
		}
		return []string{compiled}
	}

	named := u.hasArgNames()
	names := make([]string, 0, len(u.args))
	for i, r := range u.args {
		sub := nodeid.SubNodeName(compiled, i, r.Name)
		a.Node(sub, descriptorPath)
		a.Vars(sub, jobfile.VarArgs, r.Raw)
		if named {
			a.Vars(sub, jobfile.VarJobName, nodeid.DisplayName(compiled, r.Name))
		}
		if r.Retry != nil {
			a.Retry(sub, *r.Retry)
		}
		names = append(names, sub)
	}
	return names
}
