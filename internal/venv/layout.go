// Package venv creates the Python virtual environment and knows where its
// activation script and site-packages directory live on each platform.
package venv

import (
	"path/filepath"

	"github.com/sostrades/sostrades-dev-tools/internal/model"
	"github.com/sostrades/sostrades-dev-tools/internal/shell"
)

// Layout is the set of paths inside a virtual environment that the tool
// reads or writes.
//
// POSIX:
//
//	<root>/bin/activate
//	<root>/lib/python3.12/site-packages
//
// Windows:
//
//	<root>\Scripts\activate
//	<root>\Lib\site-packages
type Layout struct {
	// GOOS is the target platform the paths were computed for.
	GOOS string

	// Root is the virtual environment directory.
	Root string

	// ActivateScript is the activation marker: it exists only after a
	// successful "python -m venv".
	ActivateScript string

	// SitePackages is the package search directory of the environment.
	SitePackages string
}

// NewLayoutFor computes the layout for an explicit GOOS value. The version
// only matters on POSIX, where site-packages is versioned.
func NewLayoutFor(goos, root string, version model.PythonVersion) Layout {
	l := Layout{GOOS: goos, Root: root}
	if goos == "windows" {
		l.ActivateScript = filepath.Join(root, "Scripts", "activate")
		l.SitePackages = filepath.Join(root, "Lib", "site-packages")
		return l
	}
	l.ActivateScript = filepath.Join(root, "bin", "activate")
	l.SitePackages = filepath.Join(root, "lib", "python"+version.MajorMinor(), "site-packages")
	return l
}

// ActivateCommand returns the shell fragment that activates the
// environment for the rest of a command chain.
func (l Layout) ActivateCommand() string {
	script := shell.QuoteFor(l.GOOS, l.ActivateScript)
	if l.GOOS == "windows" {
		return "call " + script
	}
	return ". " + script
}
