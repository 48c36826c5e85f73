// internal/cli/diagnose.go
package promptprobe

import (
	"os"

	"github.com/probelab/promptprobe/internal/diagnose"
	"github.com/probelab/promptprobe/internal/providerfactory"
	"github.com/spf13/cobra"
)

// diagnoseCmd represents the 'diagnose' command, the pre-flight connectivity
// check operators run before starting a batch.
var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check server reachability, list hosted models, and trial the configured model",
	Long: `The 'diagnose' command runs three checks in strict order: that the
server answers at all, that it can list its hosted models, and that the
configured model produces a non-empty response to a short trial prompt. It
stops at the first failure and exits non-zero unless every check passes.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		provider, err := providerfactory.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		prober := diagnose.New(cfg, provider, os.Stdout)
		_, err = prober.Run(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
}
