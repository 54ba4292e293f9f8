// Package filex contains small filesystem helpers shared by store backends.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates the directory (and any missing parents) if it does not
// exist and returns the cleaned path. Permissions restrict access to the
// owning user and group, since the directory may hold secret material.
func EnsureDir(path string) (string, error) {
	dir := filepath.Clean(path)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
