package hcl_adapter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/jobgraph/internal/config"
	"github.com/specialistvlad/jobgraph/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.DiscardHandler))
}

func writeHCL(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeHCL(t, dir, "units.hcl", `
locals {
  prefix = "--seed"
  seeds  = range(local.count)
  count  = 3
}

unit "preprocess" {
  executable     = "${env.TOOLS}/prep"
  request_memory = "2GB"
  request_cpus   = 2
  getenv         = true
  arguments      = formatlist("${local.prefix} %d", local.seeds)
  retry          = 1
  log_dir        = "/logs"

  argument {
    value = "--mode full"
    name  = "full"
    retry = 3
  }
}

unit "train" {
  executable = "/opt/bin/train"
  arguments  = [1, true, "x"]
  depends_on = ["preprocess"]
}
`)
	writeHCL(t, dir, "workflow.hcl", `
workflow "main" {
  nodes       = ["preprocess", "train"]
  extra_lines = ["CONFIG ${upper("dagman")}.config"]
  submit_dir  = "/submit"
}
`)
	writeHCL(t, dir, "notes.txt", "ignored")

	loader := NewLoader(config.NewEnvironment(map[string]string{"TOOLS": "/tools"}))
	model, err := loader.Load(testContext(), dir)
	require.NoError(t, err)

	require.Len(t, model.Units, 2)
	prep := model.Units[0]
	assert.Equal(t, "preprocess", prep.Name)
	assert.Equal(t, "/tools/prep", prep.Executable)
	assert.Equal(t, "2GB", prep.RequestMemory)
	require.NotNil(t, prep.RequestCPUs)
	assert.Equal(t, 2, *prep.RequestCPUs)
	require.NotNil(t, prep.GetEnv)
	assert.True(t, *prep.GetEnv)
	require.NotNil(t, prep.Retry)
	assert.Equal(t, 1, *prep.Retry)
	assert.Equal(t, "/logs", prep.Dirs.Log)
	assert.Equal(t, filepath.Join(dir, "units.hcl"), prep.Source)

	require.Len(t, prep.Arguments, 4)
	assert.Equal(t, "--seed 0", prep.Arguments[0].Value)
	assert.Equal(t, "--seed 2", prep.Arguments[2].Value)
	assert.Equal(t, "--mode full", prep.Arguments[3].Value)
	assert.Equal(t, "full", prep.Arguments[3].Name)
	assert.Equal(t, 3, *prep.Arguments[3].Retry)

	train := model.Units[1]
	assert.Equal(t, []string{"1", "true", "x"}, []string{train.Arguments[0].Value, train.Arguments[1].Value, train.Arguments[2].Value})
	assert.Equal(t, []string{"preprocess"}, train.DependsOn)
	assert.Nil(t, train.Queue)

	require.Len(t, model.Workflows, 1)
	wf := model.Workflows[0]
	assert.Equal(t, "main", wf.Name)
	assert.Equal(t, []string{"preprocess", "train"}, wf.Nodes)
	assert.Equal(t, []string{"CONFIG DAGMAN.config"}, wf.ExtraLines)
	assert.Equal(t, "/submit", wf.SubmitDir)
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		message string
	}{
		{
			name:    "syntax error",
			content: `unit "a" {`,
			message: "failed to parse HCL file",
		},
		{
			name:    "unknown block",
			content: `job "a" {}`,
			message: "failed to decode HCL file",
		},
		{
			name:    "missing executable",
			content: `unit "a" {}`,
			message: `unit "a"`,
		},
		{
			name:    "unknown attribute",
			content: "unit \"a\" {\n  executable = \"/bin/true\"\n  colour = 1\n}",
			message: "colour",
		},
		{
			name:    "arguments not a list",
			content: "unit \"a\" {\n  executable = \"/bin/true\"\n  arguments = { a = 1 }\n}",
			message: "expected a list of strings",
		},
		{
			name:    "locals cycle",
			content: "locals {\n  a = local.b\n  b = local.a\n}",
			message: "cannot resolve locals a (needs local.b), b (needs local.a)",
		},
		{
			name:    "duplicate local",
			content: "locals {\n  a = 1\n}\nlocals {\n  a = 2\n}",
			message: `local "a"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeHCL(t, dir, "main.hcl", tc.content)

			_, err := NewLoader(config.NewEnvironment(nil)).Load(testContext(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestLoader_MissingPath(t *testing.T) {
	_, err := NewLoader(config.NewEnvironment(nil)).Load(testContext(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorContains(t, err, "error accessing path")
}

func TestLoader_Extensions(t *testing.T) {
	assert.Equal(t, []string{".hcl"}, NewLoader(config.NewEnvironment(nil)).Extensions())
}
