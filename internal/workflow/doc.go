// Package workflow is the graph construction and compilation core.
//
// A Graph owns every node created through it. Nodes come in two variants:
// a Unit is an executable with zero or more argument records, and a Workflow
// is an ordered container of Units and nested Workflows. Ordering constraints
// are parent/child edges recorded in the Graph's arena (see package
// topology), never as pointers between nodes.
//
// # Compilation
//
// A Compiler turns a Workflow into the scheduler's job-control artifact:
//
//	g := workflow.NewGraph(logger, dirs)
//	a, _ := g.NewUnit("A", "/bin/prep", workflow.UnitOptions{})
//	b, _ := g.NewUnit("B", "/bin/train", workflow.UnitOptions{})
//	_ = b.AddArguments("x", "y")
//	_ = b.AddParent(a)
//	w, _ := g.NewWorkflow("W", workflow.WorkflowOptions{})
//	_ = w.AddUnit(a)
//	_ = w.AddUnit(b)
//	artifact, err := workflow.NewCompiler(logger, opts).Compile(ctx, w)
//
// Each Unit fans out into one schedulable sub-node per argument record
// (`B_arg_0`, `B_arg_1`), and dependency lines reference the fanned-out
// names (`Parent A Child B_arg_0 B_arg_1`).
//
// Compilation is all-or-nothing. Every file of a run, including nested
// workflow artifacts and unit submit descriptors, is rendered in memory
// first and written only when the whole tree validated. A Workflow compiles
// at most once; compiling it again returns the existing artifact.
//
// # Thread-Safety
//
// A Graph and its nodes have a single owner. Mutations and compilation are
// not synchronized and must not run concurrently on the same Graph.
package workflow
