// Package python probes the Python interpreter used to build the virtual
// environment and enforces the minimum supported version.
//
// The probe runs the interpreter once with a short inline script instead of
// parsing "python --version", because the same call also yields
// sys.executable, the path that must be used for "-m venv".
package python

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sostrades/sostrades-dev-tools/internal/model"
	"github.com/sostrades/sostrades-dev-tools/internal/shell"
)

// probeScript prints the version triple and sys.executable on two lines.
const probeScript = "import sys; print('%d.%d.%d' % sys.version_info[:3]); print(sys.executable)"

// versionRegex matches "3.12", "3.12.1", "Python 3.12.1" and tolerates
// pre-release suffixes such as "3.13.0rc1".
var versionRegex = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// Probe runs executable and returns its version and resolved path.
func Probe(ctx context.Context, runner shell.Runner, executable string) (model.Interpreter, error) {
	out, err := runner.Output(ctx, executable, "-c", probeScript)
	if err != nil {
		return model.Interpreter{}, model.WrapCLIError(
			model.ExitPythonVersion,
			fmt.Sprintf("could not run Python interpreter %q", executable),
			err,
		)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	version, err := ParseVersion(lines[0])
	if err != nil {
		return model.Interpreter{}, model.WrapCLIError(model.ExitPythonVersion, "could not determine Python version", err)
	}

	resolved := executable
	if len(lines) > 1 {
		if s := strings.TrimSpace(lines[1]); s != "" {
			resolved = s
		}
	}

	return model.Interpreter{Executable: resolved, Version: version}, nil
}

// ParseVersion extracts a version triple from s. A missing patch component
// is zero.
func ParseVersion(s string) (model.PythonVersion, error) {
	m := versionRegex.FindStringSubmatch(s)
	if m == nil {
		return model.PythonVersion{}, fmt.Errorf("invalid Python version %q", strings.TrimSpace(s))
	}

	var (
		nums [3]int
		err  error
	)
	for i, part := range m[1:] {
		if part == "" {
			continue
		}
		if nums[i], err = strconv.Atoi(part); err != nil {
			return model.PythonVersion{}, fmt.Errorf("invalid Python version %q: %w", strings.TrimSpace(s), err)
		}
	}
	return model.PythonVersion{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// CheckVersion fails when found is older than required (major.minor only).
func CheckVersion(found, required model.PythonVersion) error {
	if found.AtLeast(required) {
		return nil
	}
	return model.NewCLIError(
		model.ExitPythonVersion,
		fmt.Sprintf("Python version %s detected, but Python v%s+ is required", found, required.MajorMinor()),
	)
}
