// internal/cli/show_config.go
package promptprobe

import (
	"os"

	"github.com/k0kubun/pp"
	"github.com/probelab/promptprobe/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showConfigCmd implements 'show config', which prints the effective
// configuration after the config file and flags have been merged.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		appconfig.ShowConfig(os.Stdout, viper.ConfigFileUsed(), GetConfig())
		if DebugEnabled() {
			pp.Println(GetConfig())
		}
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
