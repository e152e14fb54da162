package integration_tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/jobgraph/internal/app"
	"github.com/specialistvlad/jobgraph/internal/errkind"
	"github.com/specialistvlad/jobgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test for: invalid hcl is rejected
func TestErrorHandling_InvalidHCL_IsRejected(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
			unit "A" {
				executable = "/bin/true"
			// Missing closing brace here
		`,
	}

	result := testutil.RunIntegrationTest(t, files, nil)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "failed to parse")
}

func TestErrorHandling_CompileFailures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		hcl      string
		kind     errkind.Kind
		contains string
	}{
		{
			name: "cycle",
			hcl: `
				unit "a" {
					executable = env.JOBGRAPH_TEST_EXE
					depends_on = ["b"]
				}
				unit "b" {
					executable = env.JOBGRAPH_TEST_EXE
					depends_on = ["a"]
				}
				workflow "W" {
					nodes = ["a", "b"]
				}
			`,
			kind:     errkind.ConflictKind,
			contains: "acyclic",
		},
		{
			name: "parent outside workflow",
			hcl: `
				unit "a" {
					executable = env.JOBGRAPH_TEST_EXE
				}
				unit "b" {
					executable = env.JOBGRAPH_TEST_EXE
					depends_on = ["a"]
				}
				workflow "W" {
					nodes = ["b"]
				}
			`,
			kind:     errkind.NotFoundKind,
			contains: `parent "a" is not part of workflow "W"`,
		},
		{
			name: "executable missing on disk",
			hcl: `
				unit "a" {
					executable = "/definitely/not/here"
				}
				workflow "W" {
					nodes = ["a"]
				}
			`,
			kind:     errkind.NotFoundKind,
			contains: "is not usable",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := testutil.RunIntegrationTest(t, map[string]string{"main.hcl": tc.hcl}, nil)

			require.Error(t, result.Err)
			assert.Equal(t, tc.kind, errkind.KindOf(result.Err))
			assert.Contains(t, result.Err.Error(), tc.contains)
			assert.NoFileExists(t, filepath.Join(result.Submit, "W.submit"), "nothing is written on failure")
		})
	}
}

func TestErrorHandling_MissingSubmitDir(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
			unit "a" {
				executable = env.JOBGRAPH_TEST_EXE
			}
			workflow "W" {
				nodes = ["a"]
			}
		`,
	}

	result := testutil.RunIntegrationTest(t, files, func(cfg *app.Config) {
		cfg.MakeDirs = false
	})

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "does not exist")
	_, err := os.Stat(result.Submit)
	assert.True(t, os.IsNotExist(err))
}

func TestErrorHandling_UnknownWorkflow(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
			unit "a" {
				executable = env.JOBGRAPH_TEST_EXE
			}
		`,
	}

	testCases := []struct {
		name     string
		workflow string
		kind     errkind.Kind
	}{
		{"not defined", "ghost", errkind.NotFoundKind},
		{"names a unit", "a", errkind.TypeKind},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := testutil.RunIntegrationTest(t, files, func(cfg *app.Config) {
				cfg.Workflow = tc.workflow
			})

			require.Error(t, result.Err)
			assert.Equal(t, tc.kind, errkind.KindOf(result.Err))
		})
	}
}
