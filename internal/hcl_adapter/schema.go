package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is decoded without an eval context. Block bodies are kept and
// decoded later, once locals are evaluated.
type fileRoot struct {
	Locals    []*localsBlock `hcl:"locals,block"`
	Units     []*namedBlock  `hcl:"unit,block"`
	Workflows []*namedBlock  `hcl:"workflow,block"`
}

type localsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type namedBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// unitBody is the schema of a `unit "name" { ... }` block.
type unitBody struct {
	Executable string `hcl:"executable"`
	// Arguments may be any list or tuple convertible to strings.
	Arguments      hcl.Expression   `hcl:"arguments,optional"`
	ArgumentBlocks []*argumentBlock `hcl:"argument,block"`

	Universe      string `hcl:"universe,optional"`
	RequestMemory string `hcl:"request_memory,optional"`
	RequestDisk   string `hcl:"request_disk,optional"`
	RequestCPUs   *int   `hcl:"request_cpus,optional"`
	GetEnv        *bool  `hcl:"getenv,optional"`
	InitialDir    string `hcl:"initialdir,optional"`
	Notification  string `hcl:"notification,optional"`
	Requirements  string `hcl:"requirements,optional"`
	Queue         *int   `hcl:"queue,optional"`
	Retry         *int   `hcl:"retry,optional"`

	ExtraLines []string `hcl:"extra_lines,optional"`
	SubmitDir  string   `hcl:"submit_dir,optional"`
	LogDir     string   `hcl:"log_dir,optional"`
	OutputDir  string   `hcl:"output_dir,optional"`
	ErrorDir   string   `hcl:"error_dir,optional"`
	DependsOn  []string `hcl:"depends_on,optional"`
}

type argumentBlock struct {
	Value string `hcl:"value"`
	Name  string `hcl:"name,optional"`
	Retry *int   `hcl:"retry,optional"`
}

// workflowBody is the schema of a `workflow "name" { ... }` block.
type workflowBody struct {
	Nodes      []string `hcl:"nodes,optional"`
	ExtraLines []string `hcl:"extra_lines,optional"`
	SubmitDir  string   `hcl:"submit_dir,optional"`
	DependsOn  []string `hcl:"depends_on,optional"`
}
