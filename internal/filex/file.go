// Package filex provides filesystem helpers shared by the staging area and
// the local storage backend.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir expands a leading "~/", cleans the path and creates the
// directory (and parents) if missing. Returns the resolved absolute path.
func EnsureDir(dir string) (string, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return "", fmt.Errorf("directory path is required")
	}

	if strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~/"))
	}

	trimmed = filepath.Clean(trimmed)

	if err := os.MkdirAll(trimmed, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", trimmed, err)
	}

	return trimmed, nil
}

// EnsureSubDir creates (if missing) a subdirectory of the current working
// directory and returns its path. Used for the default staging area.
func EnsureSubDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	return EnsureDir(filepath.Join(cwd, dirName))
}
