// internal/cli/run.go
package promptprobe

import (
	"fmt"

	"github.com/probelab/promptprobe/internal/batch"
	"github.com/probelab/promptprobe/internal/providerfactory"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd represents the 'run' command, which processes the input CSV row by
// row against the configured model server.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Send every CSV prompt to the model server and write the results JSON",
	Long: `The 'run' command reads the single prompt column from the input CSV,
sends one completion request per row to the configured server, and writes the
accumulated results to the output file. A failed row is recorded with an
ERROR marker and the batch carries on.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		prompts, err := batch.LoadPrompts(cfg.InputPath)
		if err != nil {
			return err
		}
		fmt.Printf("Found %d rows to process\n", len(prompts))

		provider, err := providerfactory.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		runner := batch.NewRunner(cfg, provider)
		_, err = runner.Run(cmd.Context(), prompts)
		return err
	},
}

func init() {
	runCmd.Flags().StringP("input", "i", "", "input CSV file (default sample_data.csv)")
	runCmd.Flags().StringP("output", "o", "", "output results file (default results.json)")
	runCmd.Flags().String("checkpoint", "", "checkpoint file for resumable runs (empty = disabled)")
	runCmd.Flags().Int("save-every", 0, "re-save results and checkpoint every N rows (0 = single final write)")
	runCmd.Flags().Bool("fresh", false, "ignore any existing checkpoint and start from the beginning")
	runCmd.Flags().String("output-mode", "", "output mode: json or jsonl (default inferred from extension)")

	_ = viper.BindPFlag("input", runCmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("output", runCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("checkpoint", runCmd.Flags().Lookup("checkpoint"))
	_ = viper.BindPFlag("saveEvery", runCmd.Flags().Lookup("save-every"))
	_ = viper.BindPFlag("fresh", runCmd.Flags().Lookup("fresh"))
	_ = viper.BindPFlag("outputMode", runCmd.Flags().Lookup("output-mode"))

	rootCmd.AddCommand(runCmd)
}
