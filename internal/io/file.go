// Package ioutils provides file system utilities for addprompt.
//
// This package contains functions for:
//   - Listing item folders under a base path
//   - Reading caption text files
//   - Existence checks and directory creation
//
// Errors from the operating system are returned unchanged so callers can
// match them with errors.Is (for example fs.ErrNotExist).
package ioutils

import (
	"os"
	"path/filepath"
)

// ListFolders returns the immediate subdirectories of path, ignoring files.
//
// Each entry is returned joined with path. An entry counts as a directory
// if stat reports one, so symbolic links to directories are included.
// The order is the one of the directory listing; callers must not depend
// on it.
//
// Returns an error if path does not exist or cannot be read.
//
// Example:
//
//	folders, err := ListFolders("/data/batch")
//	// [/data/batch/item1 /data/batch/item2]
func ListFolders(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var result []string
	for _, entry := range entries {
		full := filepath.Join(path, entry.Name())
		info, err := os.Stat(full)
		if err != nil {
			// dangling symlink or entry removed since the listing
			continue
		}
		if info.IsDir() {
			result = append(result, full)
		}
	}
	return result, nil
}

// ReadTextFile reads the whole file at path and returns it as a string,
// trailing whitespace and newlines included.
func ReadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FileExists reports whether anything exists at path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
