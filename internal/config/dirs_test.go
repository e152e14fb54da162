package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDirs(t *testing.T) {
	testCases := []struct {
		name     string
		explicit Dirs
		env      map[string]string
		expected Dirs
	}{
		{
			name:     "defaults only",
			expected: Dirs{Submit: "/cwd"},
		},
		{
			name: "environment over default",
			env: map[string]string{
				EnvSubmitDir: "/env/submit",
				EnvLogDir:    "/env/log",
			},
			expected: Dirs{Submit: "/env/submit", Log: "/env/log"},
		},
		{
			name:     "explicit over environment",
			explicit: Dirs{Submit: "/flag/submit", Error: "/flag/error"},
			env: map[string]string{
				EnvSubmitDir: "/env/submit",
				EnvErrorDir:  "/env/error",
				EnvOutputDir: "/env/output",
			},
			expected: Dirs{Submit: "/flag/submit", Output: "/env/output", Error: "/flag/error"},
		},
		{
			name:     "empty environment value is unset",
			env:      map[string]string{EnvSubmitDir: ""},
			expected: Dirs{Submit: "/cwd"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveDirs(tc.explicit, NewEnvironment(tc.env), "/cwd")
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("Dirs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDirs_Override(t *testing.T) {
	base := Dirs{Submit: "/s", Log: "/l"}
	got := base.Override(Dirs{Log: "/unit/log", Output: "/unit/out"})
	assert.Equal(t, Dirs{Submit: "/s", Log: "/unit/log", Output: "/unit/out"}, got)
}

func TestLoadEnvironment(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "JOBGRAPH_TEST_FROM_FILE=file\nJOBGRAPH_TEST_SHADOWED=file\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))
	t.Setenv("JOBGRAPH_TEST_SHADOWED", "process")

	env, err := LoadEnvironment(envFile)
	require.NoError(t, err)

	v, ok := env.Lookup("JOBGRAPH_TEST_FROM_FILE")
	require.True(t, ok)
	assert.Equal(t, "file", v)

	v, ok = env.Lookup("JOBGRAPH_TEST_SHADOWED")
	require.True(t, ok)
	assert.Equal(t, "process", v)

	_, err = LoadEnvironment(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestEnvironment_IsSnapshot(t *testing.T) {
	vars := map[string]string{"A": "1"}
	env := NewEnvironment(vars)
	vars["A"] = "2"

	v, _ := env.Lookup("A")
	assert.Equal(t, "1", v)

	copied := env.Vars()
	copied["A"] = "3"
	v, _ = env.Lookup("A")
	assert.Equal(t, "1", v)
}
