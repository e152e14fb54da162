package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/jobgraph/internal/app"
	"github.com/specialistvlad/jobgraph/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("jobgraph", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
jobgraph - Compiles declarative job workflows into scheduler submit files.

Usage:
  jobgraph [options] PATH
  jobgraph -exec EXECUTABLE [options] [ARGS...]

Arguments:
  PATH
    Path to a definition file or a directory of .hcl, .yaml and .yml files.
  ARGS
    With -exec, arguments passed to the executable as a single record.
    Put -- before ARGS that start with a dash.

Options:
`)
		flagSet.PrintDefaults()
	}

	workflowFlag := flagSet.String("workflow", "", "Compile only the named workflow. Default: every workflow not nested in another, plus units outside any workflow.")
	submitDirFlag := flagSet.String("submit-dir", "", "Directory for generated files. Overrides "+config.EnvSubmitDir+"; default is the working directory.")
	logDirFlag := flagSet.String("log-dir", "", "Directory for scheduler log files. Overrides "+config.EnvLogDir+".")
	outputDirFlag := flagSet.String("output-dir", "", "Directory for job stdout files. Overrides "+config.EnvOutputDir+".")
	errorDirFlag := flagSet.String("error-dir", "", "Directory for job stderr files. Overrides "+config.EnvErrorDir+".")
	envFileFlag := flagSet.String("env-file", "", "Optional .env file layered under the process environment.")
	fancyFlag := flagSet.Bool("fancyname", true, "Append a date and sequence number to generated file names.")
	makeDirsFlag := flagSet.Bool("makedirs", true, "Create missing directories instead of failing.")
	submitFlag := flagSet.Bool("submit", false, "Submit the compiled files to the scheduler.")
	submitOptsFlag := flagSet.String("submit-options", "", "Extra options passed to the submission command.")
	execFlag := flagSet.String("exec", "", "Build and submit a single job for this executable instead of reading definitions.")
	dryRunFlag := flagSet.Bool("dryrun", false, "With -exec, write the submit file without submitting it.")
	dotFlag := flagSet.String("dot", "", "Write a Graphviz diagram of the workflow to this .dot or .gv file.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var path string
	var execArgs []string
	submit := *submitFlag
	switch {
	case *execFlag != "":
		execArgs = flagSet.Args()
		submit = !*dryRunFlag
		slog.Debug("Executable given, skipping definitions.", "exec", *execFlag, "args", len(execArgs))
	case *dryRunFlag:
		return nil, false, &ExitError{Code: 2, Message: "-dryrun only applies together with -exec"}
	case flagSet.NArg() == 0:
		slog.Debug("No definition path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	case flagSet.NArg() > 1:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected a single PATH, got %d: %s", flagSet.NArg(), strings.Join(flagSet.Args(), " "))}
	default:
		path = flagSet.Arg(0)
		slog.Debug("Definition path determined.", "path", path)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg, err := app.NewConfig(app.Config{
		Path:     path,
		Workflow: *workflowFlag,
		Exec:     *execFlag,
		ExecArgs: execArgs,
		Dirs: config.Dirs{
			Submit: *submitDirFlag,
			Log:    *logDirFlag,
			Output: *outputDirFlag,
			Error:  *errorDirFlag,
		},
		EnvFile:       *envFileFlag,
		FancyName:     *fancyFlag,
		MakeDirs:      *makeDirsFlag,
		Submit:        submit,
		SubmitOptions: *submitOptsFlag,
		DotPath:       *dotFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
