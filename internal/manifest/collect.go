package manifest

import (
	"path/filepath"

	"github.com/sostrades/sostrades-dev-tools/internal/fsutil"
	"github.com/sostrades/sostrades-dev-tools/internal/model"
)

// Discovery is the outcome of scanning the platform and model roots.
type Discovery struct {
	// Args are the install arguments: platform repositories in configured
	// order, then model repositories in directory listing order.
	Args []model.InstallArg

	// Missing lists platform repositories without a manifest. Model
	// repositories without one are not reported.
	Missing []model.Repository
}

// Collect scans the named platform repositories under platformRoot, then
// every subdirectory of modelRoot.
//
// A modelRoot that does not exist contributes nothing.
func Collect(platformRoot string, platformRepos []string, modelRoot string) (Discovery, error) {
	var d Discovery

	for _, name := range platformRepos {
		repo := model.Repository{Name: name, Path: filepath.Join(platformRoot, name), Kind: model.KindPlatform}
		if arg, ok := Locate(repo); ok {
			d.Args = append(d.Args, arg)
		} else {
			d.Missing = append(d.Missing, repo)
		}
	}

	modelDirs, err := fsutil.ListSubdirs(modelRoot)
	if err != nil {
		return Discovery{}, err
	}
	for _, dir := range modelDirs {
		repo := model.Repository{Name: filepath.Base(dir), Path: dir, Kind: model.KindModel}
		if arg, ok := Locate(repo); ok {
			d.Args = append(d.Args, arg)
		}
	}

	return d, nil
}
