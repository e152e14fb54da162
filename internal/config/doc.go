// Package config defines the format-agnostic definition model for the
// application, the Loader interface that concrete formats implement, and the
// resolution of default directories from flags, the environment and an
// optional .env file.
//
// The `config.Model` is the single source of truth for the `builder`
// package. Concrete implementations of the Loader interface, such as for HCL
// and YAML, are provided in separate packages.
package config
