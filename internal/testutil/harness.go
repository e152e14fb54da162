package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/jobgraph/internal/app"
	"github.com/specialistvlad/jobgraph/internal/config"
	"github.com/stretchr/testify/require"
)

// ExeVar is the environment variable pointing at the harness executable.
// Definitions reference it as ${env.JOBGRAPH_TEST_EXE} in HCL and
// ${JOBGRAPH_TEST_EXE} in YAML.
const ExeVar = "JOBGRAPH_TEST_EXE"

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	// Root is the temporary directory holding definitions and artifacts.
	Root string
	// Submit is the submit directory artifacts are written to.
	Submit string
	// Exe is the executable fixture referenced through ExeVar.
	Exe string
}

// ReadArtifact returns the content of a file in the submit directory.
func (r *HarnessResult) ReadArtifact(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(r.Submit, name))
	require.NoError(t, err)
	return string(data)
}

// Summary returns the artifact lines printed by the app, without log lines.
func (r *HarnessResult) Summary() []string {
	var out []string
	for _, line := range strings.Split(r.LogOutput, "\n") {
		if strings.HasPrefix(line, "workflow ") || strings.HasPrefix(line, "unit ") {
			out = append(out, line)
		}
	}
	return out
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, configure func(*app.Config), opts ...app.Option) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, configure, opts...)
}

// RunIntegrationTestWithContext writes files below a temporary "defs"
// directory, points the app at it and runs it. configure may adjust the
// default configuration before the app is created.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, configure func(*app.Config), opts ...app.Option) *HarnessResult {
	t.Helper()

	root := t.TempDir()
	defsDir := filepath.Join(root, "defs")
	submitDir := filepath.Join(root, "submit")
	require.NoError(t, os.MkdirAll(defsDir, 0o755))

	for name, content := range files {
		filePath := filepath.Join(defsDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	exe := filepath.Join(root, "bin", "job.sh")
	require.NoError(t, os.MkdirAll(filepath.Dir(exe), 0o755))
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	envFile := filepath.Join(root, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(fmt.Sprintf("%s=%s\n", ExeVar, exe)), 0o644))

	cfg := app.Config{
		Path:      defsDir,
		Dirs:      config.Dirs{Submit: submitDir},
		EnvFile:   envFile,
		MakeDirs:  true,
		LogLevel:  "debug",
		LogFormat: "text",
	}
	if configure != nil {
		configure(&cfg)
	}

	logBuffer := &SafeBuffer{}
	result := &HarnessResult{Root: root, Submit: cfg.Dirs.Submit, Exe: exe}

	testApp, err := app.NewApp(logBuffer, &cfg, opts...)
	if err == nil {
		result.App = testApp
		err = testApp.Run(ctx)
	}
	result.Err = err
	result.LogOutput = logBuffer.String()

	if os.Getenv("JOBGRAPH_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
	}
	return result
}
