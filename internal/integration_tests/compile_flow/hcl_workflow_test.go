package integration_tests

import (
	"path/filepath"
	"testing"

	"github.com/specialistvlad/jobgraph/internal/app"
	"github.com/specialistvlad/jobgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompileFlow_HCLWorkflow compiles a two-unit workflow declared in HCL
// and checks the artifact text end to end.
func TestCompileFlow_HCLWorkflow(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	unitsHCL := `
		unit "A" {
			executable = env.JOBGRAPH_TEST_EXE
		}

		unit "B" {
			executable = env.JOBGRAPH_TEST_EXE
			arguments  = ["x", "y"]
			depends_on = ["A"]
		}
	`
	workflowHCL := `
		workflow "W" {
			nodes = ["A", "B"]
		}
	`
	files := map[string]string{
		"units.hcl":    unitsHCL,
		"workflow.hcl": workflowHCL,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, nil)

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertCompiled(t, result, "workflow", "W")
	assert.Len(t, result.Summary(), 1, "units inside a workflow are not built on their own")

	expected := `NODE A ` + result.Submit + `/A.sub
NODE B_arg_0 ` + result.Submit + `/B.sub
VARS B_arg_0 ARGS="x"
NODE B_arg_1 ` + result.Submit + `/B.sub
VARS B_arg_1 ARGS="y"

#Inter-job dependencies
Parent A Child B_arg_0 B_arg_1
`
	assert.Equal(t, expected, result.ReadArtifact(t, "W.submit"))
	assert.Equal(t, "executable = "+result.Exe+"\narguments = $(ARGS)\nqueue\n", result.ReadArtifact(t, "B.sub"))
	assert.FileExists(t, filepath.Join(result.Submit, "A.sub"))
}

// TestCompileFlow_StandaloneUnits builds units that belong to no workflow
// next to the root workflows.
func TestCompileFlow_StandaloneUnits(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
			unit "inside" {
				executable = env.JOBGRAPH_TEST_EXE
			}

			unit "alone" {
				executable = env.JOBGRAPH_TEST_EXE
				argument {
					value = "--only"
				}
			}

			workflow "W" {
				nodes = ["inside"]
			}
		`,
	}

	result := testutil.RunIntegrationTest(t, files, nil)

	require.NoError(t, result.Err)
	testutil.AssertCompiled(t, result, "workflow", "W")
	testutil.AssertCompiled(t, result, "unit", "alone")
	assert.Equal(t, "executable = "+result.Exe+"\narguments = --only\nqueue\n", result.ReadArtifact(t, "alone.sub"))
}

// TestCompileFlow_SelectedWorkflow compiles only the workflow named in the
// configuration.
func TestCompileFlow_SelectedWorkflow(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
			unit "a" {
				executable = env.JOBGRAPH_TEST_EXE
			}
			workflow "inner" {
				nodes = ["a"]
			}
			workflow "outer" {
				nodes = ["inner"]
			}
		`,
	}

	result := testutil.RunIntegrationTest(t, files, func(cfg *app.Config) {
		cfg.Workflow = "inner"
	})

	require.NoError(t, result.Err)
	assert.Equal(t, []string{"workflow inner: " + filepath.Join(result.Submit, "inner.submit")}, result.Summary())
	assert.NoFileExists(t, filepath.Join(result.Submit, "outer.submit"))
}

// TestCompileFlow_DotDiagram writes the graph diagram of the only root.
func TestCompileFlow_DotDiagram(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
			unit "a" {
				executable = env.JOBGRAPH_TEST_EXE
			}
			unit "b" {
				executable = env.JOBGRAPH_TEST_EXE
				depends_on = ["a"]
			}
			workflow "W" {
				nodes = ["a", "b"]
			}
		`,
	}

	var dotPath string
	result := testutil.RunIntegrationTest(t, files, func(cfg *app.Config) {
		dotPath = filepath.Join(filepath.Dir(cfg.Path), "graph.dot")
		cfg.DotPath = dotPath
	})

	require.NoError(t, result.Err)
	require.FileExists(t, dotPath)
	assert.Contains(t, result.LogOutput, "Graph diagram written.")
}
