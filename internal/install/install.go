// Package install assembles and runs the single pip invocation that installs
// every discovered manifest into the virtual environment.
//
// The command chain is:
//
//	<activate> && pip list && python -m pip install --no-cache-dir wheel
//	  && python -m pip install --no-cache-dir <args> && pip list
//
// The two "pip list" calls are diagnostics: the log shows what was present
// before and after the install.
package install

import (
	"context"
	"strings"

	"github.com/sostrades/sostrades-dev-tools/internal/model"
	"github.com/sostrades/sostrades-dev-tools/internal/shell"
	"github.com/sostrades/sostrades-dev-tools/internal/venv"
)

// WheelPackage is installed before the manifests so that source
// distributions can be built.
const WheelPackage = "wheel"

// Join renders args as one command fragment for goos, separated by single
// spaces. Paths are shell-quoted only when they need it.
func Join(goos string, args []model.InstallArg) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, a.Flag()+" "+shell.QuoteFor(goos, a.Path))
	}
	return strings.Join(parts, " ")
}

// BuildCommand returns the install chain for layout. An empty argument list
// is a configuration error: there is nothing to install.
func BuildCommand(layout venv.Layout, args []model.InstallArg) (string, error) {
	joined := strings.TrimSpace(Join(layout.GOOS, args))
	if joined == "" {
		return "", model.NewCLIError(
			model.ExitNoRequirements,
			"no requirements files found in platform or model repositories; "+
				"please ensure repositories contain requirements.in, requirements.txt, or pyproject.toml files",
		)
	}

	steps := []string{
		layout.ActivateCommand(),
		"pip list",
		"python -m pip install --no-cache-dir " + WheelPackage,
		"python -m pip install --no-cache-dir " + joined,
		"pip list",
	}
	return strings.Join(steps, " && "), nil
}

// Run executes command with runner. A failure keeps its exit code if it
// already carries one.
func Run(ctx context.Context, runner shell.Runner, command string) error {
	if err := runner.Run(ctx, command); err != nil {
		if _, ok := err.(*model.CLIError); ok {
			return err
		}
		return model.WrapCLIError(model.ExitCommandFailed, "requirements installation failed", err)
	}
	return nil
}
