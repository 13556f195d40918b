package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/sostrades/sostrades-dev-tools/internal/model"
)

// FileNames are the config file names searched, in order, in the
// sostrades-dev-tools directory and then the workspace root.
var FileNames = []string{
	"sostrades-dev.yaml",
	"sostrades-dev.yml",
	"sostrades-dev.jsonc",
	"sostrades-dev.json",
}

// FindFile returns the first config file found for root, or "".
func FindFile(root string) string {
	for _, dir := range []string{filepath.Join(root, DevToolsDirName), root} {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// LoadFile parses a config file. The format follows the extension:
// .yaml/.yml is YAML, .json/.jsonc is JSON where comments and trailing
// commas are allowed. Unknown keys are rejected so typos do not go
// unnoticed.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, fmt.Sprintf("failed to read config file %s", path), err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	case ".json", ".jsonc":
		err = decodeJSONC(data, &cfg)
	default:
		err = fmt.Errorf("unsupported extension %q (valid: .yaml, .yml, .json, .jsonc)", ext)
	}
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, fmt.Sprintf("failed to parse config file %s", path), err)
	}

	// Relative paths in a file are relative to the file, not the caller.
	cfg.anchor(filepath.Dir(path))
	return &cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeJSONC(data []byte, cfg *Config) error {
	clean := jsonc.ToJSON(data)
	if len(bytes.TrimSpace(clean)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(clean))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// anchor makes relative paths absolute against dir.
func (c *Config) anchor(dir string) {
	for _, p := range []*string{&c.Root, &c.PlatformPath, &c.ModelPath, &c.DevToolsPath, &c.VenvPath} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}
