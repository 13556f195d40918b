// prepare.go implements the "sostrades-dev prepare" command.
//
// The prepare command is the full environment build:
//  1. Check the Python interpreter version
//  2. Create the virtual environment, or recreate it with --clear
//  3. Collect requirements from the platform and model repositories
//  4. Install everything in one pip invocation
//  5. Write sostrades.pth into site-packages

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sostrades/sostrades-dev-tools/internal/config"
	"github.com/sostrades/sostrades-dev-tools/internal/model"
)

// pathFlags are the location overrides shared by the subcommands.
type pathFlags struct {
	venv      string // --venv: virtual environment directory
	platform  string // --platform: directory of the platform repositories
	models    string // --models: directory of the model repositories
	minPython string // --min-python: minimum interpreter version
}

func (f *pathFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.venv, "venv", "", "Virtual environment directory (default: <root>/sostrades-dev-tools/.venv)")
	cmd.Flags().StringVar(&f.platform, "platform", "", "Platform repositories directory (default: <root>/platform)")
	cmd.Flags().StringVar(&f.models, "models", "", "Model repositories directory (default: <root>/models)")
	cmd.Flags().StringVar(&f.minPython, "min-python", "", "Minimum Python version (default: "+config.DefaultMinPython+")")
}

func (f *pathFlags) overrides() config.Config {
	return config.Config{
		VenvPath:     f.venv,
		PlatformPath: f.platform,
		ModelPath:    f.models,
		MinPython:    f.minPython,
	}
}

// NewPrepareCommand creates the "prepare" cobra command.
func NewPrepareCommand() *cobra.Command {
	flags := &pathFlags{}

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Create the virtual environment and install all repositories",
		Long: `Create (or recreate) the development virtual environment.

Requirements are taken from each platform repository and each model
repository, preferring requirements.in over requirements.txt over
pyproject.toml (installed in editable mode). All of them are installed in a
single pip invocation, then sostrades.pth is written so that every
repository is importable.

Examples:
  sostrades-dev prepare
  sostrades-dev prepare --root ~/sostrades
  sostrades-dev prepare --python python3.12 --venv ./venv`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrepare(cmd, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runPrepare(cmd *cobra.Command, flags *pathFlags) error {
	cfg, err := loadConfig(flags.overrides())
	if err != nil {
		return err
	}

	result, err := newPipeline(cmd, cfg).Run(cmd.Context())
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), result)
	}
	printPrepareResult(cmd.OutOrStdout(), result)
	return nil
}

// printPrepareResult prints the summary of a successful run.
func printPrepareResult(w io.Writer, result *model.Result) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Environment ready (%s)\n", result.Provision)
	fmt.Fprintf(w, "  Python:    %s (%s)\n", result.Interpreter.Version, result.Interpreter.Executable)
	fmt.Fprintf(w, "  Venv:      %s\n", result.VenvPath)
	fmt.Fprintf(w, "  Installed: %d requirement set(s)\n", len(result.InstallArgs))
	fmt.Fprintf(w, "  Pth file:  %s (%d path(s))\n", result.PthPath, len(result.PthEntries))
}
