// Package jobfile renders the two text formats the scheduler consumes: the
// workflow job-control artifact and the per-unit submit descriptor.
//
// Both are line oriented. The writers here only format; deciding what to
// write is the compiler's job.
package jobfile

import (
	"bytes"
	"strconv"
	"strings"
)

// DependencyHeader separates declarations from dependency lines.
const DependencyHeader = "#Inter-job dependencies"

// Variable names bound on fanned-out nodes.
const (
	VarArgs    = "ARGS"
	VarJobName = "job_name"
)

// Artifact accumulates the lines of a workflow job-control file.
type Artifact struct {
	decls []string
	deps  []string
	extra []string
}

// Node declares a schedulable node backed by a submit descriptor.
func (a *Artifact) Node(name, descriptorPath string) {
	a.decls = append(a.decls, "NODE "+name+" "+descriptorPath)
}

// Vars binds a variable on a node. The value is quoted and escaped.
func (a *Artifact) Vars(name, key, value string) {
	a.decls = append(a.decls, "VARS "+name+" "+key+"="+quote(value))
}

// Retry sets the scheduler-level retry count of a node.
func (a *Artifact) Retry(name string, n int) {
	a.decls = append(a.decls, "Retry "+name+" "+strconv.Itoa(n))
}

// Subworkflow references an already compiled nested workflow artifact.
func (a *Artifact) Subworkflow(name, artifactPath string) {
	a.decls = append(a.decls, "SUBWORKFLOW "+name+" "+artifactPath)
}

// Dependency declares that every child waits for every parent.
func (a *Artifact) Dependency(parents, children []string) {
	a.deps = append(a.deps, "Parent "+strings.Join(parents, " ")+" Child "+strings.Join(children, " "))
}

// Extra appends caller-supplied lines verbatim after the generated content.
func (a *Artifact) Extra(lines ...string) {
	a.extra = append(a.extra, lines...)
}

// Bytes renders the artifact.
func (a *Artifact) Bytes() []byte {
	var buf bytes.Buffer
	for _, l := range a.decls {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.WriteString(DependencyHeader)
	buf.WriteByte('\n')
	for _, l := range a.deps {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	for _, l := range a.extra {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// quote wraps v in double quotes, escaping backslashes and quotes the way
// the scheduler's VARS parser expects.
func quote(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(v) + `"`
}
