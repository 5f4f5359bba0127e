// Package filex holds small filesystem helpers shared by the blob store and
// the log file setup.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir with perm if it does not exist and returns its
// absolute path. Relative paths are resolved against the working directory.
func EnsureDir(dir string, perm os.FileMode) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, perm); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}
