package yaml_adapter

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

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	content := `
units:
  - name: preprocess
    executable: ${TOOLS}/prep
    request_cpus: 2
    getenv: false
    log_dir: $LOGS
    arguments:
      - value: "--seed 1"
      - value: "--mode full"
        name: full
        retry: 3
---
workflows:
  - name: main
    nodes: [preprocess]
    extra_lines: ["CONFIG dagman.config"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "defs.yml"), []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.yaml"), nil, 0o644))

	env := config.NewEnvironment(map[string]string{"TOOLS": "/tools", "LOGS": "/var/log/jobs"})
	model, err := NewLoader(env).Load(testContext(), dir)
	require.NoError(t, err)

	require.Len(t, model.Units, 1)
	u := model.Units[0]
	assert.Equal(t, "/tools/prep", u.Executable)
	assert.Equal(t, "/var/log/jobs", u.Dirs.Log)
	assert.Equal(t, 2, *u.RequestCPUs)
	assert.False(t, *u.GetEnv)
	assert.Equal(t, []config.Argument{
		{Value: "--seed 1"},
		{Value: "--mode full", Name: "full", Retry: u.Arguments[1].Retry},
	}, u.Arguments)
	assert.Equal(t, 3, *u.Arguments[1].Retry)

	require.Len(t, model.Workflows, 1)
	assert.Equal(t, []string{"preprocess"}, model.Workflows[0].Nodes)
	assert.Equal(t, filepath.Join(dir, "defs.yml"), model.Workflows[0].Source)
}

func TestLoader_StrictFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("units:\n  - name: a\n    colour: red\n"), 0o644))

	_, err := NewLoader(config.NewEnvironment(nil)).Load(testContext(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
	assert.Contains(t, err.Error(), "failed to decode YAML file")
}
