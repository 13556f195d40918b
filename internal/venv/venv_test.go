package venv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sostrades/sostrades-dev-tools/internal/model"
	"github.com/sostrades/sostrades-dev-tools/internal/shell/shelltest"
)

var py312 = model.PythonVersion{Major: 3, Minor: 12, Patch: 1}

func TestNewLayoutFor(t *testing.T) {
	root := filepath.Join("work", ".venv")

	t.Run("posix", func(t *testing.T) {
		l := NewLayoutFor("linux", root, py312)
		assert.Equal(t, filepath.Join(root, "bin", "activate"), l.ActivateScript)
		assert.Equal(t, filepath.Join(root, "lib", "python3.12", "site-packages"), l.SitePackages)
		assert.Equal(t, ". "+l.ActivateScript, l.ActivateCommand())
	})

	t.Run("windows", func(t *testing.T) {
		l := NewLayoutFor("windows", root, py312)
		assert.Equal(t, filepath.Join(root, "Scripts", "activate"), l.ActivateScript)
		assert.Equal(t, filepath.Join(root, "Lib", "site-packages"), l.SitePackages)
		assert.True(t, strings.HasPrefix(l.ActivateCommand(), "call "))
	})

	t.Run("posix path with spaces is quoted", func(t *testing.T) {
		l := NewLayoutFor("linux", "/my work/.venv", py312)
		assert.Equal(t, ". '/my work/.venv/bin/activate'", l.ActivateCommand())
	})
}

// venvCreator simulates "python -m venv" by writing the activation script
// and site-packages directory.
func venvCreator(t *testing.T, l Layout) func(string) error {
	return func(string) error {
		require.NoError(t, os.MkdirAll(filepath.Dir(l.ActivateScript), 0o755))
		require.NoError(t, os.MkdirAll(l.SitePackages, 0o755))
		return os.WriteFile(l.ActivateScript, []byte("# activate\n"), 0o644)
	}
}

func TestProvision_Fresh(t *testing.T) {
	l := NewLayoutFor("linux", filepath.Join(t.TempDir(), ".venv"), py312)
	fake := &shelltest.Fake{}
	fake.OnRun = venvCreator(t, l)
	interp := model.Interpreter{Executable: "/usr/bin/python3.12", Version: py312}

	mode, err := Provision(context.Background(), fake, interp, l)
	require.NoError(t, err)

	assert.Equal(t, model.ProvisionCreated, mode)
	require.Len(t, fake.Commands, 1)
	assert.Equal(t, "/usr/bin/python3.12 -m venv "+l.Root, fake.Commands[0])
}

// TestProvision_ExistingUsesClear verifies that a pre-existing activation
// script always selects the --clear variant on the same directory.
func TestProvision_ExistingUsesClear(t *testing.T) {
	l := NewLayoutFor("linux", filepath.Join(t.TempDir(), ".venv"), py312)
	require.NoError(t, venvCreator(t, l)(""))

	fake := &shelltest.Fake{}
	interp := model.Interpreter{Executable: "/usr/bin/python3.12", Version: py312}

	mode, err := Provision(context.Background(), fake, interp, l)
	require.NoError(t, err)

	assert.Equal(t, model.ProvisionRecreated, mode)
	require.Len(t, fake.Commands, 1)
	assert.Equal(t, "/usr/bin/python3.12 -m venv --clear "+l.Root, fake.Commands[0])
}

// TestProvision_MarkerMissingAfterCommand verifies that a zero-exit creation
// command that leaves no activation script is still fatal.
func TestProvision_MarkerMissingAfterCommand(t *testing.T) {
	l := NewLayoutFor("linux", filepath.Join(t.TempDir(), ".venv"), py312)
	fake := &shelltest.Fake{}

	_, err := Provision(context.Background(), fake, model.Interpreter{Executable: "python3", Version: py312}, l)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitVenvCreation, cliErr.Code)
	assert.Contains(t, cliErr.Message, l.ActivateScript)
}

func TestProvision_CommandFails(t *testing.T) {
	l := NewLayoutFor("linux", filepath.Join(t.TempDir(), ".venv"), py312)
	boom := model.NewCLIError(model.ExitCommandFailed, "command failed")
	fake := &shelltest.Fake{OnRun: func(string) error { return boom }}

	_, err := Provision(context.Background(), fake, model.Interpreter{Executable: "python3", Version: py312}, l)
	assert.ErrorIs(t, err, boom)
}

func TestCreateCommand_Quoting(t *testing.T) {
	l := NewLayoutFor("linux", "/my work/.venv", py312)
	interp := model.Interpreter{Executable: "/opt/py 3/bin/python", Version: py312}

	assert.Equal(t, "'/opt/py 3/bin/python' -m venv '/my work/.venv'", CreateCommand(interp, l, false))
}
