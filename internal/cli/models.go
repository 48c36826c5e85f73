// internal/cli/models.go
package promptprobe

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/probelab/promptprobe/internal/providerfactory"
	"github.com/probelab/promptprobe/internal/providers"
	"github.com/spf13/cobra"
)

var modelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

// modelsCmd represents the 'models' command, which lists the models the
// configured server currently hosts.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models hosted by the configured server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		provider, err := providerfactory.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		endpoint := providers.Endpoint{URL: cfg.ServerURL()}
		models, err := provider.ListModels(cmd.Context(), endpoint)
		if err != nil {
			return err
		}
		if len(models) == 0 {
			fmt.Printf("No models hosted at %s\n", endpoint.URL)
			return nil
		}

		fmt.Printf("Models hosted at %s (%s dialect):\n", endpoint.URL, provider.Name())
		for _, model := range models {
			fmt.Println(modelStyle.Render(fmt.Sprintf("- %s", model)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
