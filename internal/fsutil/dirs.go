package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrMissingDir is returned by EnsureDir when a directory does not exist and
// creation is disabled.
var ErrMissingDir = errors.New("directory does not exist")

// ErrNotExecutable is returned by CheckExecutable for paths that are not
// regular files.
var ErrNotExecutable = errors.New("not a regular file")

// DirExists reports whether dir exists and is a directory.
func DirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// EnsureDir makes sure dir exists. When makedirs is false a missing
// directory is an error wrapping ErrMissingDir.
func EnsureDir(dir string, makedirs bool) error {
	if dir == "" {
		dir = "."
	}
	if DirExists(dir) {
		return nil
	}
	if !makedirs {
		return fmt.Errorf("%w: %s", ErrMissingDir, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// CheckExecutable verifies that path names an existing regular file.
func CheckExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotExecutable, path)
	}
	return nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers never see a half-written file.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
