// Package yaml_adapter loads unit and workflow definitions written in YAML
// and translates them into the format-agnostic config.Model.
//
// Decoding is strict: unknown keys are errors. `${NAME}` references in
// executables and directories are expanded from the loader's environment.
package yaml_adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/jobgraph/internal/config"
	"github.com/specialistvlad/jobgraph/internal/ctxlog"
	"github.com/specialistvlad/jobgraph/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML implementation of config.Loader.
type Loader struct {
	env config.Environment
}

// NewLoader creates a YAML loader expanding references from env.
func NewLoader(env config.Environment) *Loader {
	return &Loader{env: env}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

type document struct {
	Units     []unitDoc     `yaml:"units"`
	Workflows []workflowDoc `yaml:"workflows"`
}

type argumentDoc struct {
	Value string `yaml:"value"`
	Name  string `yaml:"name"`
	Retry *int   `yaml:"retry"`
}

type unitDoc struct {
	Name          string        `yaml:"name"`
	Executable    string        `yaml:"executable"`
	Arguments     []argumentDoc `yaml:"arguments"`
	Universe      string        `yaml:"universe"`
	RequestMemory string        `yaml:"request_memory"`
	RequestDisk   string        `yaml:"request_disk"`
	RequestCPUs   *int          `yaml:"request_cpus"`
	GetEnv        *bool         `yaml:"getenv"`
	InitialDir    string        `yaml:"initialdir"`
	Notification  string        `yaml:"notification"`
	Requirements  string        `yaml:"requirements"`
	Queue         *int          `yaml:"queue"`
	Retry         *int          `yaml:"retry"`
	ExtraLines    []string      `yaml:"extra_lines"`
	SubmitDir     string        `yaml:"submit_dir"`
	LogDir        string        `yaml:"log_dir"`
	OutputDir     string        `yaml:"output_dir"`
	ErrorDir      string        `yaml:"error_dir"`
	DependsOn     []string      `yaml:"depends_on"`
}

type workflowDoc struct {
	Name       string   `yaml:"name"`
	Nodes      []string `yaml:"nodes"`
	ExtraLines []string `yaml:"extra_lines"`
	SubmitDir  string   `yaml:"submit_dir"`
	DependsOn  []string `yaml:"depends_on"`
}

// Load reads every YAML file under paths. A file may hold several
// documents separated by `---`.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	model := &config.Model{}
	for _, p := range paths {
		files, err := fsutil.FindFilesByExtension(p, l.Extensions()...)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			m, err := l.loadFile(file)
			if err != nil {
				return nil, err
			}
			model.Merge(m)
			logger.Debug("Loaded YAML file.", "file", file, "units", len(m.Units), "workflows", len(m.Workflows))
		}
	}
	return model, nil
}

func (l *Loader) loadFile(path string) (*config.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	model := &config.Model{}
	for {
		var doc document
		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
		}
		for _, u := range doc.Units {
			model.Units = append(model.Units, l.translateUnit(u, path))
		}
		for _, w := range doc.Workflows {
			model.Workflows = append(model.Workflows, &config.Workflow{
				Name:       w.Name,
				Nodes:      w.Nodes,
				ExtraLines: w.ExtraLines,
				SubmitDir:  l.expand(w.SubmitDir),
				DependsOn:  w.DependsOn,
				Source:     path,
			})
		}
	}
	return model, nil
}

func (l *Loader) translateUnit(u unitDoc, source string) *config.Unit {
	out := &config.Unit{
		Name:          u.Name,
		Executable:    l.expand(u.Executable),
		Universe:      u.Universe,
		RequestMemory: u.RequestMemory,
		RequestDisk:   u.RequestDisk,
		RequestCPUs:   u.RequestCPUs,
		GetEnv:        u.GetEnv,
		InitialDir:    l.expand(u.InitialDir),
		Notification:  u.Notification,
		Requirements:  u.Requirements,
		Queue:         u.Queue,
		Retry:         u.Retry,
		ExtraLines:    u.ExtraLines,
		Dirs: config.Dirs{
			Submit: l.expand(u.SubmitDir),
			Log:    l.expand(u.LogDir),
			Output: l.expand(u.OutputDir),
			Error:  l.expand(u.ErrorDir),
		},
		DependsOn: u.DependsOn,
		Source:    source,
	}
	for _, a := range u.Arguments {
		out.Arguments = append(out.Arguments, config.Argument{Value: a.Value, Name: a.Name, Retry: a.Retry})
	}
	return out
}

// expand replaces `${NAME}` and `$NAME` with values from the environment.
// Unknown names expand to the empty string.
func (l *Loader) expand(s string) string {
	if s == "" {
		return s
	}
	return os.Expand(s, func(name string) string {
		v, _ := l.env.Lookup(name)
		return v
	})
}
