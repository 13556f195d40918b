package venv

import (
	"context"
	"fmt"
	"os"

	"github.com/sostrades/sostrades-dev-tools/internal/model"
	"github.com/sostrades/sostrades-dev-tools/internal/shell"
)

// Exists reports whether the activation script of l is present.
func Exists(l Layout) bool {
	_, err := os.Stat(l.ActivateScript)
	return err == nil
}

// CreateCommand returns the "python -m venv" invocation for l. When clear
// is true the existing environment is emptied and rebuilt in place.
func CreateCommand(interp model.Interpreter, l Layout, clear bool) string {
	exe := shell.QuoteFor(l.GOOS, interp.Executable)
	root := shell.QuoteFor(l.GOOS, l.Root)
	if clear {
		return fmt.Sprintf("%s -m venv --clear %s", exe, root)
	}
	return fmt.Sprintf("%s -m venv %s", exe, root)
}

// Provision creates the virtual environment described by l with interp.
//
// If the activation script already exists the environment is recreated
// with --clear, otherwise it is created fresh. Either way the activation
// script must exist afterwards; a missing script means creation failed
// even if the command itself exited zero.
func Provision(ctx context.Context, runner shell.Runner, interp model.Interpreter, l Layout) (model.ProvisionMode, error) {
	mode := model.ProvisionCreated
	if Exists(l) {
		mode = model.ProvisionRecreated
	}

	if err := runner.Run(ctx, CreateCommand(interp, l, mode == model.ProvisionRecreated)); err != nil {
		return "", err
	}

	if !Exists(l) {
		return "", model.NewCLIError(
			model.ExitVenvCreation,
			fmt.Sprintf("virtual environment creation failed: activation script not found at %s", l.ActivateScript),
		)
	}
	return mode, nil
}
