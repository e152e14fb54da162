// internal/nodeid/names_test.go
package nodeid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubNodeName(t *testing.T) {
	testCases := []struct {
		name     string
		base     string
		index    int
		argName  string
		expected string
	}{
		{name: "unnamed record", base: "job", index: 2, expected: "job_arg_2"},
		{name: "named record", base: "job", index: 2, argName: "custom", expected: "job_custom"},
		{name: "decorated base", base: "job_20261016_01", index: 0, expected: "job_20261016_01_arg_0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SubNodeName(tc.base, tc.index, tc.argName))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "job_custom", DisplayName("job", "custom"))
	assert.Equal(t, "job", DisplayName("job", ""))
}

func TestHasDisallowedChars(t *testing.T) {
	assert.False(t, HasDisallowedChars("job_arg_0"))
	assert.True(t, HasDisallowedChars("job.v2"))
	assert.True(t, HasDisallowedChars("job+x"))
}

func TestDecorated(t *testing.T) {
	date := DateStamp(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, "20261016", date)
	assert.Equal(t, "wf_20261016_03", Decorated("wf", date, 3))
	assert.Equal(t, "wf[1]_20261016_", SequencePrefix("wf[1]", date))
}

func TestValidate(t *testing.T) {
	require.ErrorIs(t, Validate(""), ErrEmptyName)
	require.NoError(t, Validate("a"))
}

func TestKey(t *testing.T) {
	assert.False(t, None.Valid())
	assert.True(t, Key(3).Valid())
	assert.Equal(t, "#3", Key(3).String())
}
