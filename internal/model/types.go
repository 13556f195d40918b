package model

import (
	"fmt"
	"path/filepath"
)

// RepositoryKind tells whether a repository belongs to the fixed platform
// set or was found under the model root.
type RepositoryKind string

const (
	// KindPlatform marks one of the configured platform repositories.
	// A platform repository without a manifest produces a warning.
	KindPlatform RepositoryKind = "platform"

	// KindModel marks a subdirectory of the model root. A model
	// repository without a manifest is skipped silently.
	KindModel RepositoryKind = "model"
)

// String returns the string representation of RepositoryKind.
func (k RepositoryKind) String() string {
	return string(k)
}

// Repository is a filesystem path plus a logical name. It has no identity
// beyond its path.
//
// Platform repositories are built from the configured names joined to the
// platform root, so the directory may not exist; model repositories are
// built from a directory listing and always exist when created.
type Repository struct {
	// Name is the directory name (e.g., "sostrades-core"). It is used in
	// warnings and in the plan output, never to build paths.
	Name string `json:"name"`

	// Path is the absolute path to the repository directory. It is also
	// the line written to the path manifest for this repository.
	Path string `json:"path"`

	// Kind is platform or model.
	Kind RepositoryKind `json:"kind"`
}

// ManifestKind identifies which dependency manifest was selected for a
// repository.
//
// Selection precedence is strict: requirements.in, then requirements.txt,
// then pyproject.toml. The first file found wins.
type ManifestKind string

const (
	// ManifestRequirementsIn is a pip-tools input file (unpinned).
	ManifestRequirementsIn ManifestKind = "requirements.in"

	// ManifestRequirementsTxt is a pinned requirements file.
	ManifestRequirementsTxt ManifestKind = "requirements.txt"

	// ManifestPyproject is a project config; the repository is installed
	// in editable mode.
	ManifestPyproject ManifestKind = "pyproject.toml"
)

// ManifestPrecedence lists manifest file names in selection order.
var ManifestPrecedence = []ManifestKind{
	ManifestRequirementsIn,
	ManifestRequirementsTxt,
	ManifestPyproject,
}

// String returns the file name of the manifest.
func (m ManifestKind) String() string {
	return string(m)
}

// Editable reports whether the manifest is installed with "-e".
func (m ManifestKind) Editable() bool {
	return m == ManifestPyproject
}

// InstallArg is the pip argument derived from a repository manifest.
//
// A repository contributes at most one InstallArg. The install command
// concatenates them all into a single "pip install" so that pip resolves
// the whole set at once:
//
//	-r /work/platform/sostrades-core/requirements.in
//	-e /work/models/witness-core
type InstallArg struct {
	// Repository is the repository the manifest was found in.
	Repository Repository `json:"repository"`

	// Manifest is which manifest file was selected.
	Manifest ManifestKind `json:"manifest"`

	// Path is the pip operand: the manifest file for "-r", the repository
	// directory for "-e".
	Path string `json:"path"`
}

// NewInstallArg builds the argument for a manifest found in repo.
func NewInstallArg(repo Repository, manifest ManifestKind) InstallArg {
	path := filepath.Join(repo.Path, manifest.String())
	if manifest.Editable() {
		path = repo.Path
	}
	return InstallArg{Repository: repo, Manifest: manifest, Path: path}
}

// Flag returns "-e" for editable installs and "-r" for requirement files.
func (a InstallArg) Flag() string {
	if a.Manifest.Editable() {
		return "-e"
	}
	return "-r"
}

// String returns the argument as it appears on the pip command line,
// e.g. "-r /work/platform/sostrades-core/requirements.in".
func (a InstallArg) String() string {
	return a.Flag() + " " + a.Path
}

// PythonVersion is an interpreter version triple.
//
// Only Major and Minor take part in the version gate and in the POSIX
// site-packages path (lib/python3.12/site-packages). Patch is kept for
// display.
type PythonVersion struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// String formats the version as "major.minor.patch".
func (v PythonVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// MajorMinor formats the version as "major.minor", the form used in
// site-packages paths and in requirement messages.
func (v PythonVersion) MajorMinor() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v satisfies the required major.minor.
// The patch component of required is ignored.
func (v PythonVersion) AtLeast(required PythonVersion) bool {
	if v.Major != required.Major {
		return v.Major > required.Major
	}
	return v.Minor >= required.Minor
}

// Interpreter is a probed Python executable.
type Interpreter struct {
	// Executable is the absolute path reported by sys.executable.
	Executable string `json:"executable"`

	// Version is the interpreter version.
	Version PythonVersion `json:"version"`
}

// ProvisionMode records how the virtual environment was built.
type ProvisionMode string

const (
	// ProvisionCreated means no environment existed and a fresh one was made.
	ProvisionCreated ProvisionMode = "created"

	// ProvisionRecreated means the activation script already existed and the
	// environment was rebuilt in place with --clear.
	ProvisionRecreated ProvisionMode = "recreated"
)

// String returns the string representation of ProvisionMode.
func (m ProvisionMode) String() string {
	return string(m)
}

// Result summarizes a completed prepare, plan or pth run.
//
// It is printed as text by default or encoded as JSON with --json. Fields
// a command does not compute are left empty: plan has no Provision, and
// pth has no InstallArgs or InstallCommand.
type Result struct {
	// Interpreter is the Python interpreter that passed the version gate.
	Interpreter Interpreter `json:"interpreter"`

	// VenvPath is the virtual environment root.
	VenvPath string `json:"venvPath"`

	// Provision is empty for plan runs.
	Provision ProvisionMode `json:"provision,omitempty"`

	// InstallArgs holds the selected manifests in install order.
	InstallArgs []InstallArg `json:"installArgs"`

	// Missing lists platform repositories that had no manifest.
	Missing []Repository `json:"missing,omitempty"`

	// InstallCommand is the shell command given to the installer.
	InstallCommand string `json:"installCommand"`

	// PthPath is the path manifest file location.
	PthPath string `json:"pthPath"`

	// PthEntries are the directories written to the path manifest.
	PthEntries []string `json:"pthEntries"`
}
