// Package visualize renders the members of a workflow as a Graphviz DOT
// digraph.
package visualize

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/jobgraph/internal/errkind"
	"github.com/specialistvlad/jobgraph/internal/topology"
	"github.com/specialistvlad/jobgraph/internal/workflow"
)

// Extensions lists the file extensions Write accepts.
var Extensions = []string{".dot", ".gv"}

// Render writes w as DOT text. Units are drawn as circles, workflows as
// squares, and every edge points from a parent to its child.
func Render(out io.Writer, w *workflow.Workflow) error {
	if w == nil {
		return errkind.New(errkind.TypeKind, "", "visualize() is expecting a workflow, got nil")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", dotID(w.Name()))
	buf.WriteString("\trankdir=BT;\n")
	for _, n := range w.Nodes() {
		fmt.Fprintf(&buf, "\t%s [label=%s, shape=%s];\n", dotID(n.Name()), dotID(n.Name()), shape(n))
		for _, p := range n.Parents() {
			fmt.Fprintf(&buf, "\t%s -> %s;\n", dotID(p.Name()), dotID(n.Name()))
		}
	}
	buf.WriteString("}\n")

	_, err := out.Write(buf.Bytes())
	return err
}

// Write renders w into the file at path.
func Write(w *workflow.Workflow, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	valid := false
	for _, e := range Extensions {
		if ext == e {
			valid = true
		}
	}
	if !valid {
		return errkind.New(errkind.TypeKind, "", "invalid format %q entered, must be one of %s", ext, strings.Join(Extensions, ", "))
	}

	var buf bytes.Buffer
	if err := Render(&buf, w); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// dotID quotes s as a DOT string. DOT only knows the \" and \\ escapes;
// every other rune is written as is.
func dotID(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func shape(n workflow.Node) string {
	if n.Kind() == topology.KindWorkflow {
		return "square"
	}
	return "circle"
}
