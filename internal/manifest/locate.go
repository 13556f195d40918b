// Package manifest finds the dependency manifest of each repository and
// collects the resulting pip arguments in install order.
//
// Each repository contributes at most one manifest, picked by strict
// precedence: requirements.in, then requirements.txt, then pyproject.toml.
// Requirement files are passed to pip with "-r"; a pyproject.toml makes the
// repository an editable install with "-e".
package manifest

import (
	"path/filepath"

	"github.com/sostrades/sostrades-dev-tools/internal/fsutil"
	"github.com/sostrades/sostrades-dev-tools/internal/model"
)

// Locate returns the install argument for repo, or false when repo.Path is
// not a directory or holds none of the known manifests.
func Locate(repo model.Repository) (model.InstallArg, bool) {
	if !fsutil.IsDir(repo.Path) {
		return model.InstallArg{}, false
	}

	for _, kind := range model.ManifestPrecedence {
		if fsutil.IsFile(filepath.Join(repo.Path, kind.String())) {
			return model.NewInstallArg(repo, kind), true
		}
	}
	return model.InstallArg{}, false
}
