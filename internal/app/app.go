package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/jobgraph/internal/config"
	"github.com/specialistvlad/jobgraph/internal/ctxlog"
	"github.com/specialistvlad/jobgraph/internal/dispatch"
	"github.com/specialistvlad/jobgraph/internal/hcl_adapter"
	"github.com/specialistvlad/jobgraph/internal/yaml_adapter"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	env      config.Environment
	loaders  []config.Loader
	runner   dispatch.Runner
	commands dispatch.Commands
}

// Option customizes an App.
type Option func(*App)

// WithRunner replaces the runner used to call the scheduler's tools.
func WithRunner(r dispatch.Runner) Option {
	return func(a *App) { a.runner = r }
}

// WithLoaders replaces the definition loaders.
func WithLoaders(loaders ...config.Loader) Option {
	return func(a *App) { a.loaders = loaders }
}

// NewApp is the constructor for the main application. It configures an
// isolated logger and snapshots the environment, layering the env file from
// cfg under the process environment.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	env, err := config.LoadEnvironment(cfg.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		env:      env,
		loaders:  []config.Loader{hcl_adapter.NewLoader(env), yaml_adapter.NewLoader(env)},
		runner:   dispatch.ExecRunner{},
		commands: dispatch.DefaultCommands(),
	}
	for _, opt := range opts {
		opt(a)
	}
	logger.Debug("App initialized.", "loaders", len(a.loaders))
	return a, nil
}

// Load reads the definitions under the configured path with every loader
// and merges the results.
func (a *App) Load(ctx context.Context) (*config.Model, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("Loading definitions...", "path", a.config.Path)

	model := &config.Model{}
	for _, l := range a.loaders {
		m, err := l.Load(ctx, a.config.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load definitions: %w", err)
		}
		model.Merge(m)
	}
	a.logger.Info("Definitions loaded.", "units", len(model.Units), "workflows", len(model.Workflows))
	return model, nil
}
