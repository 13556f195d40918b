// Package fsutil holds the small filesystem probes shared by the manifest
// locator and the path manifest writer.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// IsDir reports whether path exists and is a directory. Symlinks are
// followed.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path exists and is not a directory.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ListSubdirs returns the absolute paths of the immediate subdirectories of
// root, in lexical order. Symlinks that resolve to directories are
// included; plain files are not. A root that does not exist yields an empty
// list.
func ListSubdirs(root string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	// os.ReadDir sorts entries by file name, which keeps the output stable
	// between runs.
	entries, err := os.ReadDir(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", abs, err)
	}

	var dirs []string
	for _, entry := range entries {
		path := filepath.Join(abs, entry.Name())
		if entry.IsDir() || (entry.Type()&fs.ModeSymlink != 0 && IsDir(path)) {
			dirs = append(dirs, path)
		}
	}
	return dirs, nil
}
