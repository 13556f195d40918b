// Package cli implements the cobra-based CLI commands for sostrades-dev.
//
// Each subcommand (prepare, plan, pth) is defined in its own file within
// this package. This file defines the root command, the global flags shared
// by every subcommand, and the error-to-exit-code handling.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sostrades/sostrades-dev-tools/internal/config"
	"github.com/sostrades/sostrades-dev-tools/internal/model"
	"github.com/sostrades/sostrades-dev-tools/internal/prepare"
	"github.com/sostrades/sostrades-dev-tools/internal/shell"
)

// Global flag variables shared across all subcommands. They are bound to
// persistent flags on the root command.
var (
	// jsonOutput switches command output to JSON on stdout. Progress and
	// child process output then go to stderr.
	jsonOutput bool

	// verbose enables [verbose] trace lines on stderr.
	verbose bool

	// configFile is an explicit config file path.
	configFile string

	// rootDir is the workspace root holding platform/ and models/.
	rootDir string

	// pythonExe is the interpreter used to build the environment.
	pythonExe string
)

// Version, Commit and Date are set from main at build time.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// newRunner creates the external command runner.
//
// stdout receives the output of the child processes (python -m venv and
// pip). In JSON mode it is the command's stderr so that stdout carries only
// the JSON document. Tests replace newRunner with a fake that records
// commands and simulates venv creation.
var newRunner = func(stdout, stderr io.Writer) shell.Runner {
	return shell.NewExec(stdout, stderr)
}

// NewRootCommand creates and configures the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sostrades-dev",
		Short: "Prepare the local SoSTrades development environment",
		Long: `sostrades-dev builds the Python virtual environment used to develop the
SoSTrades platform and model repositories.

It checks the interpreter version, creates or recreates the virtual
environment, installs the requirements of every repository in one pip
invocation, and writes a .pth file so that the repositories are importable
from their checkouts.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// A failed pip install is not a usage mistake.
		SilenceUsage: true,

		// SilenceErrors leaves error printing to Execute, which formats it
		// as text or JSON depending on --json.
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: <root>/sostrades-dev-tools/sostrades-dev.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Workspace root (default: current directory, or its parent inside sostrades-dev-tools)")
	rootCmd.PersistentFlags().StringVar(&pythonExe, "python", "", "Python interpreter (default: "+config.DefaultPython()+")")

	// Register subcommands. Each one is defined in its own file and shares
	// the location flags declared by pathFlags in prepare.go.
	rootCmd.AddCommand(NewPrepareCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewPthCommand())

	return rootCmd
}

// Execute runs the root command and exits with the code carried by the
// returned error. Errors that are not CLIError exit with 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(int(reportError(os.Stderr, err)))
	}
}

// reportError prints err to w and returns the exit code for it.
//
// errors.As finds a CLIError even when it was wrapped with %w on the way
// up. The outermost CLIError decides the exit code. Anything else, such as
// cobra's flag parsing errors, exits with ExitGeneralError.
func reportError(w io.Writer, err error) model.ExitCode {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(w, cliErr.Message, cliErr.Err)
		return cliErr.Code
	}
	printError(w, err.Error(), nil)
	return model.ExitGeneralError
}

// printError writes an error message in text or JSON, depending on the
// --json flag.
//
// Text format:
//
//	Error: <message>: <underlying error>
//
// JSON format:
//
//	{"error": {"message": "...", "detail": "..."}}
//
// Both go to stderr; stdout is reserved for successful command output.
func printError(w io.Writer, message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"message": message,
		}
		if underlying != nil {
			errObj["detail"] = underlying.Error()
		}
		data, _ := json.MarshalIndent(map[string]interface{}{"error": errObj}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig resolves the configuration with the global flags and the
// given command-specific overrides applied on top.
//
// Empty flag values leave lower layers alone: --python "" keeps the value
// from SOSTRADES_PYTHON or the config file.
func loadConfig(overrides config.Config) (*config.Config, error) {
	overrides.Root = rootDir
	overrides.Python = pythonExe

	cfg, err := config.Load(config.LoadOptions{File: configFile, Overrides: overrides})
	if err != nil {
		return nil, err
	}
	VerboseLog("Workspace root: %s", cfg.Root)
	VerboseLog("Platform path: %s", cfg.PlatformPath)
	VerboseLog("Model path: %s", cfg.ModelPath)
	VerboseLog("Virtual environment: %s", cfg.VenvPath)
	VerboseLog("Python: %s (minimum %s)", cfg.Python, cfg.MinPython)
	return cfg, nil
}

// newPipeline wires cfg to a runner writing to the command's streams.
// Progress goes to stdout in text mode and to stderr in JSON mode so that
// stdout carries only the JSON document.
func newPipeline(cmd *cobra.Command, cfg *config.Config) *prepare.Pipeline {
	progress := cmd.OutOrStdout()
	if IsJSONOutput() {
		progress = cmd.ErrOrStderr()
	}
	stderr := cmd.ErrOrStderr()

	return &prepare.Pipeline{
		Config: cfg,
		Runner: newRunner(progress, stderr),
		Infof: func(format string, args ...any) {
			fmt.Fprintf(progress, format+"\n", args...)
		},
		Warnf: func(format string, args ...any) {
			fmt.Fprintf(stderr, "Warning: "+format+"\n", args...)
		},
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to encode JSON output", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
