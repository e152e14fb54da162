// Package app contains the core application logic. It loads definitions,
// builds the workflow graph, compiles it into scheduler artifacts and
// optionally hands them to the scheduler, decoupled from any specific
// entrypoint like a CLI.
package app
