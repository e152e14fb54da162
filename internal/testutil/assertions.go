package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertCompiled checks that the app reported an artifact for the named
// workflow or unit.
func AssertCompiled(t *testing.T, result *HarnessResult, kind, name string) {
	t.Helper()

	prefix := kind + " " + name + ": "
	for _, line := range result.Summary() {
		if strings.HasPrefix(line, prefix) {
			return
		}
	}
	require.Failf(t, "artifact not reported", "expected a summary line starting with %q in:\n%s", prefix, result.LogOutput)
}
