// internal/cli/validate.go
package promptprobe

import (
	"fmt"

	"github.com/probelab/promptprobe/internal/batch"
	"github.com/spf13/cobra"
)

// validateCmd represents the 'validate' command, which checks a results file
// against the expected result-record shape.
var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a results file against the expected record shape",
	Long: `The 'validate' command verifies that a results file is a JSON array of
{row_number, input_text, response} records with contiguous 1-based row
numbers. Defaults to the configured output path when no file is given.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := GetConfig().OutputPath
		if len(args) == 1 {
			path = args[0]
		}
		if err := batch.ValidateResultsFile(path); err != nil {
			return err
		}
		fmt.Printf("%s is a valid results file\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
