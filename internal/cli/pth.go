// pth.go implements the "sostrades-dev pth" command.
//
// pth rewrites sostrades.pth of an existing virtual environment, which is
// enough after cloning a new repository that has no extra requirements.

package cli

import (
	"github.com/spf13/cobra"
)

// NewPthCommand creates the "pth" cobra command.
func NewPthCommand() *cobra.Command {
	flags := &pathFlags{}

	cmd := &cobra.Command{
		Use:   "pth",
		Short: "Rewrite sostrades.pth in an existing virtual environment",
		Long: `Rewrite the sostrades.pth file of an existing virtual environment so that
it lists every platform and model repository currently checked out.

No package is installed. The virtual environment must already exist.

Examples:
  sostrades-dev pth
  sostrades-dev pth --venv ./venv`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPth(cmd, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runPth(cmd *cobra.Command, flags *pathFlags) error {
	cfg, err := loadConfig(flags.overrides())
	if err != nil {
		return err
	}

	result, err := newPipeline(cmd, cfg).WritePth(cmd.Context())
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), result)
	}
	return nil
}
