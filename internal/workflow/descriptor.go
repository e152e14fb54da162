package workflow

import (
	"path/filepath"
	"strconv"

	"github.com/specialistvlad/jobgraph/internal/jobfile"
	"github.com/specialistvlad/jobgraph/internal/nodeid"
)

// renderDescriptor builds the submit descriptor of u. Inside a workflow one
// descriptor serves every sub-node, with the arguments bound through VARS.
// A standalone descriptor carries the arguments literally.
func renderDescriptor(u *Unit, compiled string, standalone bool) []byte {
	var d jobfile.Descriptor
	o := u.opts

	setIf(&d, "universe", o.Universe)
	d.Set("executable", u.executable)
	setIf(&d, "request_memory", o.RequestMemory)
	setIf(&d, "request_disk", o.RequestDisk)
	if o.RequestCPUs > 0 {
		d.SetInt("request_cpus", o.RequestCPUs)
	}
	if o.GetEnv != nil {
		d.SetBool("getenv", *o.GetEnv)
	}
	setIf(&d, "initialdir", o.InitialDir)
	setIf(&d, "notification", o.Notification)
	setIf(&d, "requirements", o.Requirements)

	fileBase := compiled
	if u.hasArgNames() {
		fileBase = "$(" + jobfile.VarJobName + ")"
	}
	for _, f := range []struct{ kind, dir string }{
		{"log", u.dirs.Log},
		{"output", u.dirs.Output},
		{"error", u.dirs.Error},
	} {
		if f.dir != "" {
			d.Set(f.kind, filepath.Join(f.dir, fileBase+"."+f.kind))
		}
	}

	d.Raw(o.ExtraLines...)

	if !standalone {
		if len(u.args) > 0 {
			d.Set("arguments", "$("+jobfile.VarArgs+")")
		}
		if u.hasArgNames() {
			d.Set(jobfile.VarJobName, "$("+jobfile.VarJobName+")")
		}
		d.Queue(o.Queue)
		return d.Bytes()
	}

	switch {
	case len(u.args) == 1 && o.Queue > 0:
		d.Set("arguments", strconv.Quote(u.args[0].Raw))
		d.Queue(o.Queue)
	case len(u.args) > 0:
		for _, r := range u.args {
			d.Set("arguments", r.Raw)
			if u.hasArgNames() {
				d.Set(jobfile.VarJobName, nodeid.DisplayName(compiled, r.Name))
			}
			d.Queue(0)
		}
	default:
		d.Queue(o.Queue)
	}
	return d.Bytes()
}

func setIf(d *jobfile.Descriptor, key, value string) {
	if value != "" {
		d.Set(key, value)
	}
}
