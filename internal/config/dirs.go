package config

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables consulted for default directories.
const (
	EnvSubmitDir = "JOBGRAPH_SUBMIT_DIR"
	EnvLogDir    = "JOBGRAPH_LOG_DIR"
	EnvOutputDir = "JOBGRAPH_OUTPUT_DIR"
	EnvErrorDir  = "JOBGRAPH_ERROR_DIR"
)

// Dirs holds the directories artifacts and job files are written to. An
// empty Log, Output or Error directory means the corresponding file is not
// requested from the scheduler.
type Dirs struct {
	Submit string
	Log    string
	Output string
	Error  string
}

// Override returns d with every non-empty field of o applied on top.
func (d Dirs) Override(o Dirs) Dirs {
	if o.Submit != "" {
		d.Submit = o.Submit
	}
	if o.Log != "" {
		d.Log = o.Log
	}
	if o.Output != "" {
		d.Output = o.Output
	}
	if o.Error != "" {
		d.Error = o.Error
	}
	return d
}

// Environment is an immutable snapshot of environment variables.
type Environment struct {
	vars map[string]string
}

// NewEnvironment wraps vars. The map is copied.
func NewEnvironment(vars map[string]string) Environment {
	return Environment{vars: maps.Clone(vars)}
}

// ProcessEnvironment snapshots the current process environment.
func ProcessEnvironment() Environment {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return Environment{vars: vars}
}

// LoadEnvironment snapshots the process environment layered over the
// variables of envFile. Process variables win. An empty envFile skips the
// file; a named file that cannot be read is an error.
func LoadEnvironment(envFile string) (Environment, error) {
	proc := ProcessEnvironment()
	if envFile == "" {
		return proc, nil
	}

	fileVars, err := godotenv.Read(envFile)
	if err != nil {
		return Environment{}, fmt.Errorf("reading env file %s: %w", envFile, err)
	}
	maps.Copy(fileVars, proc.vars)
	return Environment{vars: fileVars}, nil
}

// Lookup returns the value of key. Empty values count as unset.
func (e Environment) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Vars returns a copy of all variables.
func (e Environment) Vars() map[string]string {
	return maps.Clone(e.vars)
}

// ResolveDirs resolves every directory once, in order of precedence:
// explicit value, environment variable, default. The only default is the
// submit directory, which falls back to cwd.
func ResolveDirs(explicit Dirs, env Environment, cwd string) Dirs {
	pick := func(value, envKey, fallback string) string {
		if value != "" {
			return value
		}
		if v, ok := env.Lookup(envKey); ok {
			return v
		}
		return fallback
	}

	return Dirs{
		Submit: pick(explicit.Submit, EnvSubmitDir, cwd),
		Log:    pick(explicit.Log, EnvLogDir, ""),
		Output: pick(explicit.Output, EnvOutputDir, ""),
		Error:  pick(explicit.Error, EnvErrorDir, ""),
	}
}
