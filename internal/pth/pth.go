// Package pth writes the path manifest that makes the platform and model
// source trees importable from the virtual environment without installing
// them.
//
// Python's site module reads every *.pth file in site-packages at startup
// and appends each line that names an existing directory to sys.path.
package pth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sostrades/sostrades-dev-tools/internal/fsutil"
	"github.com/sostrades/sostrades-dev-tools/internal/model"
)

// DefaultFileName is the name of the path manifest in site-packages.
const DefaultFileName = "sostrades.pth"

// Render returns the file contents for paths: one path per line, each
// terminated by "\n".
func Render(paths []string) []byte {
	var b strings.Builder
	for _, p := range paths {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Write replaces sitePackages/name with the rendered paths and returns the
// file path. sitePackages must already exist: its absence means the
// environment was not installed correctly.
//
// The file is rewritten in place, not atomically. Running the tool again
// repairs a partial write.
func Write(sitePackages, name string, paths []string) (string, error) {
	if !fsutil.IsDir(sitePackages) {
		return "", model.NewCLIError(
			model.ExitVenvIncomplete,
			fmt.Sprintf("virtual environment is not well installed: %s does not exist", sitePackages),
		)
	}

	target := filepath.Join(sitePackages, name)
	if err := os.WriteFile(target, Render(paths), 0o644); err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("failed to write %s", target), err)
	}
	return target, nil
}

// Entries lists the directories to put in the path manifest: every
// subdirectory of each root, roots in the given order.
func Entries(roots ...string) ([]string, error) {
	var all []string
	for _, root := range roots {
		dirs, err := fsutil.ListSubdirs(root)
		if err != nil {
			return nil, err
		}
		all = append(all, dirs...)
	}
	return all, nil
}
