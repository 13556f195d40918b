// Package prepare runs the environment preparation pipeline:
//
//  1. Probe the interpreter and enforce the minimum version
//  2. Create or recreate the virtual environment
//  3. Discover manifests in the platform and model repositories
//  4. Install everything with one pip invocation
//  5. Write the path manifest into site-packages
//
// Steps run strictly in order and the first failure aborts the run. There
// is no rollback: a half-built environment is repaired by the next run,
// which recreates it with --clear.
package prepare

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/sostrades/sostrades-dev-tools/internal/config"
	"github.com/sostrades/sostrades-dev-tools/internal/install"
	"github.com/sostrades/sostrades-dev-tools/internal/manifest"
	"github.com/sostrades/sostrades-dev-tools/internal/model"
	"github.com/sostrades/sostrades-dev-tools/internal/pth"
	"github.com/sostrades/sostrades-dev-tools/internal/python"
	"github.com/sostrades/sostrades-dev-tools/internal/shell"
	"github.com/sostrades/sostrades-dev-tools/internal/venv"
)

// Logf receives progress and warning lines.
type Logf func(format string, args ...any)

// Pipeline holds the collaborators of a run.
type Pipeline struct {
	Config *config.Config
	Runner shell.Runner

	// GOOS selects the venv layout. Empty means the host platform.
	GOOS string

	// Infof receives progress messages. Nil discards them.
	Infof Logf

	// Warnf receives non-fatal problems such as a platform repository
	// without a manifest. Nil discards them.
	Warnf Logf
}

// Run executes the full pipeline.
func (p *Pipeline) Run(ctx context.Context) (*model.Result, error) {
	interp, err := p.checkInterpreter(ctx)
	if err != nil {
		return nil, err
	}

	layout := venv.NewLayoutFor(p.goos(), p.Config.VenvPath, interp.Version)
	if venv.Exists(layout) {
		p.infof("Virtual environment already exists at %s. Recreating it with --clear flag.", layout.Root)
	} else {
		p.infof("Creating new virtual environment at %s", layout.Root)
	}
	mode, err := venv.Provision(ctx, p.Runner, interp, layout)
	if err != nil {
		return nil, err
	}
	p.infof("Venv created successfully in: %s", layout.Root)

	discovery, err := p.discover()
	if err != nil {
		return nil, err
	}

	command, err := install.BuildCommand(layout, discovery.Args)
	if err != nil {
		return nil, err
	}
	p.infof("Installing %d requirement set(s)", len(discovery.Args))
	if err := install.Run(ctx, p.Runner, command); err != nil {
		return nil, err
	}

	entries, err := pth.Entries(p.Config.PlatformPath, p.Config.ModelPath)
	if err != nil {
		return nil, err
	}
	pthPath, err := pth.Write(layout.SitePackages, p.Config.PthFileName, entries)
	if err != nil {
		return nil, err
	}
	p.infof("Path manifest written to %s successfully.", pthPath)

	return &model.Result{
		Interpreter:    interp,
		VenvPath:       layout.Root,
		Provision:      mode,
		InstallArgs:    discovery.Args,
		Missing:        discovery.Missing,
		InstallCommand: command,
		PthPath:        pthPath,
		PthEntries:     entries,
	}, nil
}

// Plan computes what Run would do without creating the environment,
// installing, or writing any file. The interpreter is still probed since
// the site-packages path depends on its version.
func (p *Pipeline) Plan(ctx context.Context) (*model.Result, error) {
	interp, err := p.checkInterpreter(ctx)
	if err != nil {
		return nil, err
	}
	layout := venv.NewLayoutFor(p.goos(), p.Config.VenvPath, interp.Version)

	discovery, err := p.discover()
	if err != nil {
		return nil, err
	}
	command, err := install.BuildCommand(layout, discovery.Args)
	if err != nil {
		return nil, err
	}

	entries, err := pth.Entries(p.Config.PlatformPath, p.Config.ModelPath)
	if err != nil {
		return nil, err
	}

	return &model.Result{
		Interpreter:    interp,
		VenvPath:       layout.Root,
		InstallArgs:    discovery.Args,
		Missing:        discovery.Missing,
		InstallCommand: command,
		PthPath:        filepath.Join(layout.SitePackages, p.Config.PthFileName),
		PthEntries:     entries,
	}, nil
}

// WritePth rewrites only the path manifest of an existing environment.
func (p *Pipeline) WritePth(ctx context.Context) (*model.Result, error) {
	interp, err := p.checkInterpreter(ctx)
	if err != nil {
		return nil, err
	}
	layout := venv.NewLayoutFor(p.goos(), p.Config.VenvPath, interp.Version)

	entries, err := pth.Entries(p.Config.PlatformPath, p.Config.ModelPath)
	if err != nil {
		return nil, err
	}
	pthPath, err := pth.Write(layout.SitePackages, p.Config.PthFileName, entries)
	if err != nil {
		return nil, err
	}
	p.infof("Path manifest written to %s successfully.", pthPath)

	return &model.Result{
		Interpreter: interp,
		VenvPath:    layout.Root,
		PthPath:     pthPath,
		PthEntries:  entries,
	}, nil
}

// checkInterpreter is the version gate. It runs before anything touches
// the filesystem.
func (p *Pipeline) checkInterpreter(ctx context.Context) (model.Interpreter, error) {
	required, err := p.Config.RequiredPython()
	if err != nil {
		return model.Interpreter{}, err
	}

	interp, err := python.Probe(ctx, p.Runner, p.Config.Python)
	if err != nil {
		return model.Interpreter{}, err
	}
	p.infof("Python version : %s", interp.Version)

	if err := python.CheckVersion(interp.Version, required); err != nil {
		return model.Interpreter{}, err
	}
	return interp, nil
}

func (p *Pipeline) discover() (manifest.Discovery, error) {
	d, err := manifest.Collect(p.Config.PlatformPath, p.Config.PlatformRepos, p.Config.ModelPath)
	if err != nil {
		return manifest.Discovery{}, model.WrapCLIError(model.ExitGeneralError, "failed to scan repositories", err)
	}
	for _, repo := range d.Missing {
		p.warnf("No requirements file found for %s", repo.Name)
	}
	return d, nil
}

func (p *Pipeline) goos() string {
	if p.GOOS != "" {
		return p.GOOS
	}
	return runtime.GOOS
}

func (p *Pipeline) infof(format string, args ...any) {
	if p.Infof != nil {
		p.Infof(format, args...)
	}
}

func (p *Pipeline) warnf(format string, args ...any) {
	if p.Warnf != nil {
		p.Warnf(format, args...)
	}
}
