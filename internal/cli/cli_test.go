// cli_test.go runs the commands end to end against a
// temporary workspace, with a scripted runner in place of the real
// interpreter and pip.

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sostrades/sostrades-dev-tools/internal/model"
	"github.com/sostrades/sostrades-dev-tools/internal/shell"
	"github.com/sostrades/sostrades-dev-tools/internal/shell/shelltest"
)

// setupWorkspace creates a workspace root with two platform repositories
// and one model repository.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"platform/sostrades-core/requirements.in":      "numpy\n",
		"platform/sostrades-ontology/requirements.txt": "pandas\n",
		"models/witness-core/pyproject.toml":           "[project]\nname = \"witness-core\"\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// useFakeRunner swaps newRunner for a fake that reports Python version
// and simulates "python -m venv" for the POSIX layout of the venv at
// root/sostrades-dev-tools/.venv.
func useFakeRunner(t *testing.T, root, version string) *shelltest.Fake {
	t.Helper()
	venvRoot := filepath.Join(root, "sostrades-dev-tools", ".venv")
	minor := strings.Join(strings.Split(version, ".")[:2], ".")

	fake := &shelltest.Fake{
		OnOutput: shelltest.Interpreter(version, "/usr/bin/python"+minor),
		OnRun: func(command string) error {
			if !strings.Contains(command, " -m venv ") {
				return nil
			}
			for _, dir := range []string{
				filepath.Join(venvRoot, "bin"),
				filepath.Join(venvRoot, "lib", "python"+minor, "site-packages"),
			} {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			return os.WriteFile(filepath.Join(venvRoot, "bin", "activate"), nil, 0o644)
		},
	}

	orig := newRunner
	newRunner = func(_, _ io.Writer) shell.Runner { return fake }
	t.Cleanup(func() { newRunner = orig })
	return fake
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestPrepareCommand(t *testing.T) {
	if os.PathSeparator != '/' {
		t.Skip("fake venv layout is POSIX")
	}
	root := setupWorkspace(t)
	fake := useFakeRunner(t, root, "3.12.4")

	stdout, stderr, err := run(t, "prepare", "--root", root, "--python", "python3.12")
	require.NoError(t, err)

	assert.Equal(t, []string{"python3.12 -c " + "import sys; print('%d.%d.%d' % sys.version_info[:3]); print(sys.executable)"}, fake.Invocations)
	require.Len(t, fake.Commands, 2)
	assert.Contains(t, stdout, "Python version : 3.12.4")
	assert.Contains(t, stdout, "Creating new virtual environment at")
	assert.Contains(t, stdout, "Environment ready (created)")
	assert.Contains(t, stderr, "Warning: No requirements file found for sostrades-webapi")

	pthFile := filepath.Join(root, "sostrades-dev-tools", ".venv", "lib", "python3.12", "site-packages", "sostrades.pth")
	data, err := os.ReadFile(pthFile)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		filepath.Join(root, "platform", "sostrades-core"),
		filepath.Join(root, "platform", "sostrades-ontology"),
		filepath.Join(root, "models", "witness-core"),
	}, "\n")+"\n", string(data))
}

func TestPrepareCommand_JSON(t *testing.T) {
	if os.PathSeparator != '/' {
		t.Skip("fake venv layout is POSIX")
	}
	root := setupWorkspace(t)
	useFakeRunner(t, root, "3.13.0")

	stdout, stderr, err := run(t, "prepare", "--json", "--root", root)
	require.NoError(t, err)

	var result model.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &result), "stdout must be a single JSON document")
	assert.Equal(t, model.ProvisionCreated, result.Provision)
	assert.Len(t, result.InstallArgs, 3)
	assert.Len(t, result.PthEntries, 3)
	require.Len(t, result.Missing, 1)
	assert.Equal(t, "sostrades-webapi", result.Missing[0].Name)
	assert.Contains(t, stderr, "Python version : 3.13.0")
}

func TestPrepareCommand_VersionTooOld(t *testing.T) {
	root := setupWorkspace(t)
	fake := useFakeRunner(t, root, "3.10.12")

	_, _, err := run(t, "prepare", "--root", root)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitPythonVersion, cliErr.Code)
	assert.Empty(t, fake.Commands)
	assert.NoDirExists(t, filepath.Join(root, "sostrades-dev-tools", ".venv"))
}

func TestPlanCommand(t *testing.T) {
	root := setupWorkspace(t)
	fake := useFakeRunner(t, root, "3.12.4")

	stdout, _, err := run(t, "plan", "--root", root)
	require.NoError(t, err)

	assert.Empty(t, fake.Commands)
	assert.NoDirExists(t, filepath.Join(root, "sostrades-dev-tools", ".venv"))
	assert.Contains(t, stdout, "Requirements:")
	assert.Contains(t, stdout, "(no requirements file)")
	assert.Contains(t, stdout, "python -m pip install --no-cache-dir wheel")
	assert.Contains(t, stdout, filepath.Join(root, "models", "witness-core"))
}

func TestPlanCommand_NoRequirements(t *testing.T) {
	root := t.TempDir()
	useFakeRunner(t, root, "3.12.4")

	_, _, err := run(t, "plan", "--root", root)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitNoRequirements, cliErr.Code)
}

func TestPthCommand_RequiresVenv(t *testing.T) {
	root := setupWorkspace(t)
	useFakeRunner(t, root, "3.12.4")

	_, _, err := run(t, "pth", "--root", root)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitVenvIncomplete, cliErr.Code)
}

func TestPrintPlanResult_PathManifest(t *testing.T) {
	result := &model.Result{
		InstallCommand: ". /v/bin/activate && pip list",
		PthPath:        "/v/lib/python3.12/site-packages/sostrades.pth",
		PthEntries:     []string{"/w/platform/sostrades-core", "/w/models/witness-core"},
	}

	var buf bytes.Buffer
	printPlanResult(&buf, result)
	assert.True(t, strings.HasSuffix(buf.String(),
		"Path manifest /v/lib/python3.12/site-packages/sostrades.pth:\n"+
			"  /w/platform/sostrades-core\n"+
			"  /w/models/witness-core\n"), buf.String())

	buf.Reset()
	result.PthEntries = nil
	printPlanResult(&buf, result)
	assert.True(t, strings.HasSuffix(buf.String(), "sostrades.pth:\n  (empty)\n"), buf.String())
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name     string
		json     bool
		err      error
		wantCode model.ExitCode
		wantOut  string
	}{
		{
			name:     "cli error text",
			err:      model.NewCLIError(model.ExitNoRequirements, "nothing to install"),
			wantCode: model.ExitNoRequirements,
			wantOut:  "Error: nothing to install\n",
		},
		{
			name:     "wrapped cli error text",
			err:      model.WrapCLIError(model.ExitCommandFailed, "pip failed", errors.New("exit status 1")),
			wantCode: model.ExitCommandFailed,
			wantOut:  "Error: pip failed: exit status 1\n",
		},
		{
			name:     "plain error",
			err:      errors.New("unknown flag: --nope"),
			wantCode: model.ExitGeneralError,
			wantOut:  "Error: unknown flag: --nope\n",
		},
		{
			name:     "json",
			json:     true,
			err:      model.WrapCLIError(model.ExitVenvCreation, "venv failed", errors.New("boom")),
			wantCode: model.ExitVenvCreation,
			wantOut:  "{\n  \"error\": {\n    \"detail\": \"boom\",\n    \"message\": \"venv failed\"\n  }\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonOutput = tt.json
			t.Cleanup(func() { jsonOutput = false })

			var buf bytes.Buffer
			code := reportError(&buf, tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, buf.String())
		})
	}
}
