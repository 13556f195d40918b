// plan.go implements the "sostrades-dev plan" command.
//
// plan is a dry run of prepare: it probes the interpreter and scans the
// repositories, then prints the install command and the .pth contents
// without creating or modifying anything.

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sostrades/sostrades-dev-tools/internal/model"
	"github.com/sostrades/sostrades-dev-tools/internal/pth"
)

// NewPlanCommand creates the "plan" cobra command.
func NewPlanCommand() *cobra.Command {
	flags := &pathFlags{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what prepare would install, without changing anything",
		Long: `Show the requirements prepare would install, the pip command it would
run, and the paths it would write to sostrades.pth.

Nothing is created or installed. The interpreter is still run once to
check its version.

Examples:
  sostrades-dev plan
  sostrades-dev plan --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runPlan(cmd *cobra.Command, flags *pathFlags) error {
	cfg, err := loadConfig(flags.overrides())
	if err != nil {
		return err
	}

	result, err := newPipeline(cmd, cfg).Plan(cmd.Context())
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), result)
	}
	printPlanResult(cmd.OutOrStdout(), result)
	return nil
}

// printPlanResult prints the plan as text.
//
//	Python:  3.12.2 (/usr/bin/python3.12)
//	Venv:    /work/sostrades-dev-tools/.venv
//
//	Requirements:
//	  sostrades-core       requirements.in   /work/platform/sostrades-core/requirements.in
//	  witness-core         pyproject.toml    /work/models/witness-core
//	...
func printPlanResult(w io.Writer, result *model.Result) {
	fmt.Fprintf(w, "Python:  %s (%s)\n", result.Interpreter.Version, result.Interpreter.Executable)
	fmt.Fprintf(w, "Venv:    %s\n", result.VenvPath)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Requirements:")
	for _, arg := range result.InstallArgs {
		fmt.Fprintf(w, "  %-24s %-17s %s\n", arg.Repository.Name, arg.Manifest, arg.Path)
	}
	for _, repo := range result.Missing {
		fmt.Fprintf(w, "  %-24s %-17s %s\n", repo.Name, "-", "(no requirements file)")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Install command:")
	fmt.Fprintf(w, "  %s\n", result.InstallCommand)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Path manifest %s:\n", result.PthPath)
	// Print the file exactly as prepare would write it, indented.
	contents := string(pth.Render(result.PthEntries))
	if contents == "" {
		fmt.Fprintln(w, "  (empty)")
	}
	for _, line := range strings.SplitAfter(contents, "\n") {
		if line != "" {
			fmt.Fprint(w, "  "+line)
		}
	}
}
