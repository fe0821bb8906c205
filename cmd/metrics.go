package cmd

import (
	"github.com/spf13/cobra"

	"github.com/finscore/finscore/core"
	"github.com/finscore/finscore/internal/contract"
)

// metricsCmd displays the metric library.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the metric library with units, formats and formulas",
	Long: `Show every metric definition of the configured library.

No statements are read - this is purely informational. Use --metrics to
inspect a custom library document before scoring with it.

Examples:
  # Show the built-in library
  finscore metrics

  # Validate and list a custom library
  finscore metrics --metrics my_metrics.yaml --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
