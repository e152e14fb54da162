package app

import (
	"errors"

	"github.com/specialistvlad/jobgraph/internal/config"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Path     string // .hcl, .yaml and .yml definitions
	Workflow string // compile only this workflow; empty compiles every root

	// Exec builds a single unit for this executable instead of loading
	// definitions. ExecArgs become its one argument record.
	Exec     string
	ExecArgs []string

	Dirs    config.Dirs
	EnvFile string

	FancyName bool
	MakeDirs  bool

	Submit        bool
	SubmitOptions string
	DotPath       string

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Exec != "" {
		if cfg.Path != "" || cfg.Workflow != "" || cfg.DotPath != "" {
			return nil, errors.New("an executable cannot be combined with a definition path, workflow or diagram")
		}
	} else if cfg.Path == "" {
		return nil, errors.New("Path is a required configuration field and cannot be empty")
	}
	if cfg.SubmitOptions != "" && !cfg.Submit {
		return nil, errors.New("submit options given but submission is disabled")
	}
	return &cfg, nil
}
