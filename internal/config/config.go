// Package config resolves the paths and settings the CLI works with.
//
// Values are layered, later layers winning:
//
//  1. Built-in defaults derived from the workspace root
//  2. An optional config file (YAML, or JSON with comments)
//  3. SOSTRADES_* environment variables
//  4. Command-line flags
//
// The default workspace layout is:
//
//	<root>/platform/<sostrades-core|sostrades-ontology|sostrades-webapi>
//	<root>/models/<any model repository>
//	<root>/sostrades-dev-tools/.venv
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/sostrades/sostrades-dev-tools/internal/model"
	"github.com/sostrades/sostrades-dev-tools/internal/pth"
	"github.com/sostrades/sostrades-dev-tools/internal/python"
)

// DevToolsDirName is the directory of this tool inside the workspace root.
const DevToolsDirName = "sostrades-dev-tools"

// DefaultMinPython is the oldest supported interpreter.
const DefaultMinPython = "3.12"

// DefaultPlatformRepos are the platform repositories, in install order.
var DefaultPlatformRepos = []string{"sostrades-core", "sostrades-ontology", "sostrades-webapi"}

// Config holds the resolved settings. After Load, every path is absolute.
type Config struct {
	// Root is the workspace directory holding platform/, models/ and
	// sostrades-dev-tools/.
	Root string `yaml:"root" json:"root" env:"SOSTRADES_ROOT"`

	// PlatformPath is the directory holding the platform repositories.
	PlatformPath string `yaml:"platformPath" json:"platformPath" env:"SOSTRADES_PLATFORM_PATH"`

	// ModelPath is the directory whose every subdirectory is a model
	// repository.
	ModelPath string `yaml:"modelPath" json:"modelPath" env:"SOSTRADES_MODEL_PATH"`

	// DevToolsPath is the sostrades-dev-tools checkout.
	DevToolsPath string `yaml:"devToolsPath" json:"devToolsPath" env:"SOSTRADES_DEV_TOOLS_PATH"`

	// VenvPath is the virtual environment directory.
	VenvPath string `yaml:"venvPath" json:"venvPath" env:"SOSTRADES_VENV_PATH"`

	// Python is the interpreter used to create the environment.
	Python string `yaml:"python" json:"python" env:"SOSTRADES_PYTHON"`

	// MinPython is the minimum interpreter version, "major.minor".
	MinPython string `yaml:"minPython" json:"minPython" env:"SOSTRADES_MIN_PYTHON"`

	// PlatformRepos names the platform repositories in install order.
	PlatformRepos []string `yaml:"platformRepos" json:"platformRepos" env:"SOSTRADES_PLATFORM_REPOS" envSeparator:","`

	// PthFileName is the path manifest file name inside site-packages.
	PthFileName string `yaml:"pthFileName" json:"pthFileName" env:"SOSTRADES_PTH_FILE"`
}

// LoadOptions controls Load.
type LoadOptions struct {
	// File is an explicit config file. Empty means search the default
	// locations, where a missing file is not an error.
	File string

	// Overrides holds flag values. Non-empty fields win over every other
	// layer.
	Overrides Config

	// WorkDir is the directory used to infer the default root. Empty
	// means the process working directory.
	WorkDir string
}

// Load builds the configuration from all layers, fills defaults and
// validates the result.
func Load(opts LoadOptions) (*Config, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, model.WrapCLIError(model.ExitConfigError, "failed to get current directory", err)
		}
		workDir = wd
	}

	cfg := &Config{}

	path := opts.File
	if path == "" {
		path = FindFile(searchRoot(opts.Overrides.Root, workDir))
	}
	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.merge(fileCfg)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "invalid environment configuration", err)
	}

	cfg.merge(&opts.Overrides)

	cfg.resolve(workDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultRoot infers the workspace root from dir: the parent when dir is
// the sostrades-dev-tools checkout itself, dir otherwise.
func DefaultRoot(dir string) string {
	if filepath.Base(dir) == DevToolsDirName {
		return filepath.Dir(dir)
	}
	return dir
}

// DefaultPython is the interpreter name looked up on PATH.
func DefaultPython() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

// searchRoot is the root used to look for a config file before the file
// itself is read.
func searchRoot(flagRoot, workDir string) string {
	if flagRoot != "" {
		return flagRoot
	}
	if r := os.Getenv("SOSTRADES_ROOT"); r != "" {
		return r
	}
	return DefaultRoot(workDir)
}

// merge copies the non-empty fields of other into c.
func (c *Config) merge(other *Config) {
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&c.Root, other.Root)
	set(&c.PlatformPath, other.PlatformPath)
	set(&c.ModelPath, other.ModelPath)
	set(&c.DevToolsPath, other.DevToolsPath)
	set(&c.VenvPath, other.VenvPath)
	set(&c.Python, other.Python)
	set(&c.MinPython, other.MinPython)
	set(&c.PthFileName, other.PthFileName)
	if len(other.PlatformRepos) > 0 {
		c.PlatformRepos = append([]string(nil), other.PlatformRepos...)
	}
}

// resolve fills unset fields from Root and makes every path absolute.
// Relative paths are taken relative to workDir.
func (c *Config) resolve(workDir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(workDir, p)
	}

	if c.Root == "" {
		c.Root = DefaultRoot(workDir)
	}
	c.Root = abs(c.Root)

	if c.PlatformPath == "" {
		c.PlatformPath = filepath.Join(c.Root, "platform")
	}
	if c.ModelPath == "" {
		c.ModelPath = filepath.Join(c.Root, "models")
	}
	if c.DevToolsPath == "" {
		c.DevToolsPath = filepath.Join(c.Root, DevToolsDirName)
	}
	c.PlatformPath = abs(c.PlatformPath)
	c.ModelPath = abs(c.ModelPath)
	c.DevToolsPath = abs(c.DevToolsPath)

	if c.VenvPath == "" {
		c.VenvPath = filepath.Join(c.DevToolsPath, ".venv")
	}
	c.VenvPath = abs(c.VenvPath)

	if c.Python == "" {
		c.Python = DefaultPython()
	}
	if c.MinPython == "" {
		c.MinPython = DefaultMinPython
	}
	// Lists are often written "a, b": names are stored trimmed.
	for i, name := range c.PlatformRepos {
		c.PlatformRepos[i] = strings.TrimSpace(name)
	}
	if len(c.PlatformRepos) == 0 {
		c.PlatformRepos = append([]string(nil), DefaultPlatformRepos...)
	}
	if c.PthFileName == "" {
		c.PthFileName = pth.DefaultFileName
	}
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	if _, err := c.RequiredPython(); err != nil {
		return err
	}

	for _, name := range c.PlatformRepos {
		if name == "" {
			return model.NewCLIError(model.ExitConfigError, "platform repository names must not be empty")
		}
		if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			return model.NewCLIError(model.ExitConfigError,
				fmt.Sprintf("invalid platform repository name %q: must be a single directory name", name))
		}
	}

	if !strings.HasSuffix(c.PthFileName, ".pth") || strings.ContainsAny(c.PthFileName, `/\`) {
		return model.NewCLIError(model.ExitConfigError,
			fmt.Sprintf("invalid path manifest name %q: must be a file name ending in .pth", c.PthFileName))
	}
	return nil
}

// RequiredPython parses MinPython.
func (c *Config) RequiredPython() (model.PythonVersion, error) {
	v, err := python.ParseVersion(c.MinPython)
	if err != nil {
		return model.PythonVersion{}, model.WrapCLIError(model.ExitConfigError, "invalid minimum Python version", err)
	}
	return v, nil
}
