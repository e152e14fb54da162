package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.hcl"))
	touch(t, filepath.Join(root, "nested", "a.yaml"))
	touch(t, filepath.Join(root, "notes.txt"))

	files, err := FindFilesByExtension(root, ".hcl", ".yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "nested", "a.yaml"),
	}, files)

	single, err := FindFilesByExtension(filepath.Join(root, "b.hcl"), ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "b.hcl")}, single)

	_, err = FindFilesByExtension(filepath.Join(root, "missing"), ".hcl")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnsureDir(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "a", "b")

	err := EnsureDir(target, false)
	require.ErrorIs(t, err, ErrMissingDir)
	assert.False(t, DirExists(target))

	require.NoError(t, EnsureDir(target, true))
	assert.True(t, DirExists(target))
	require.NoError(t, EnsureDir(target, false))
}

func TestCheckExecutable(t *testing.T) {
	root := t.TempDir()
	exe := filepath.Join(root, "run.sh")
	touch(t, exe)

	require.NoError(t, CheckExecutable(exe))
	require.ErrorIs(t, CheckExecutable(filepath.Join(root, "nope")), os.ErrNotExist)
	require.ErrorIs(t, CheckExecutable(root), ErrNotExecutable)
}

func TestNextSequence(t *testing.T) {
	root := t.TempDir()

	seq, err := NextSequence(root, "wf", "20261016", ".submit")
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	touch(t, filepath.Join(root, "wf_20261016_01.submit"))
	touch(t, filepath.Join(root, "wf_20261016_02.submit"))
	touch(t, filepath.Join(root, "wf_20261015_01.submit"))
	touch(t, filepath.Join(root, "wf_20261016_01.sub"))

	seq, err = NextSequence(root, "wf", "20261016", ".submit")
	require.NoError(t, err)
	assert.Equal(t, 3, seq)
}

func TestNextSequence_LiteralNames(t *testing.T) {
	testCases := []struct {
		name     string
		node     string
		dir      string
		existing []string
		expected int
	}{
		{"brackets in name", "job[12]", "plain", []string{"job[12]_20261016_01.sub", "job[12]_20261016_02.sub"}, 3},
		{"unbalanced bracket", "a[b", "plain", []string{"a[b_20261016_01.sub"}, 2},
		{"glob chars in dir", "job[12]", "run[1", []string{"job[12]_20261016_01.sub"}, 2},
		{"wildcards do not match", "job[12]", "plain", []string{"job1_20261016_01.sub", "job[12]_20261016_1.sub", "job[12]_20261016_100.sub"}, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), tc.dir)
			require.NoError(t, os.MkdirAll(dir, 0o755))
			for _, f := range tc.existing {
				touch(t, filepath.Join(dir, f))
			}

			seq, err := NextSequence(dir, tc.node, "20261016", ".sub")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, seq)
		})
	}
}

func TestNextSequence_MissingDir(t *testing.T) {
	seq, err := NextSequence(filepath.Join(t.TempDir(), "absent"), "wf", "20261016", ".submit")
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
}

func TestNextSequence_Exhausted(t *testing.T) {
	root := t.TempDir()
	for i := 1; i <= MaxSequence; i++ {
		touch(t, filepath.Join(root, fmt.Sprintf("wf_20261016_%02d.submit", i)))
	}

	_, err := NextSequence(root, "wf", "20261016", ".submit")
	require.ErrorIs(t, err, ErrSequenceExhausted)
}

func TestWriteFileAtomic(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "out.submit")

	require.NoError(t, WriteFileAtomic(path, []byte("one")))
	require.NoError(t, WriteFileAtomic(path, []byte("two")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")

	err = WriteFileAtomic(filepath.Join(root, "missing", "x"), []byte("x"))
	require.Error(t, err)
}
