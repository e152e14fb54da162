package config

// Model is the unified, format-agnostic representation of every unit and
// workflow declared across the loaded definition files.
type Model struct {
	Units     []*Unit
	Workflows []*Workflow
}

// Merge appends the definitions of other to m, preserving order.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Units = append(m.Units, other.Units...)
	m.Workflows = append(m.Workflows, other.Workflows...)
}

// Argument is one argument record of a unit.
type Argument struct {
	Value string
	Name  string
	Retry *int
}

// Unit is the format-agnostic representation of a `unit` declaration.
type Unit struct {
	Name       string
	Executable string
	Arguments  []Argument

	Universe      string
	RequestMemory string
	RequestDisk   string
	RequestCPUs   *int
	GetEnv        *bool
	InitialDir    string
	Notification  string
	Requirements  string
	Queue         *int
	Retry         *int
	ExtraLines    []string

	// Dirs overrides the resolved default directories for this unit only.
	Dirs      Dirs
	DependsOn []string

	// Source is the file the unit was declared in, for diagnostics.
	Source string
}

// Workflow is the format-agnostic representation of a `workflow` declaration.
type Workflow struct {
	Name       string
	Nodes      []string
	ExtraLines []string
	SubmitDir  string
	DependsOn  []string

	Source string
}
