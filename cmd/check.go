package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/finscore/finscore/core"
	"github.com/finscore/finscore/internal/contract"
)

// checkCmd focused on CI/CD gating.
var checkCmd = &cobra.Command{
	Use:   "check [bundle-file]",
	Short: "Fail when a company's score percentage is below a minimum",
	Long: `Score a bundle and compare the percentage against --min-score.

Exits with a non-zero code when the score is below the minimum, so the
command can gate screening pipelines and scheduled jobs.

Examples:
  # Require at least 70% with the default profile
  finscore check acme.json --min-score 70

  # Machine-readable result
  finscore check --ticker ACME --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := core.ExecuteCheck(rootCtx, cfg, storeManager)
		if errors.Is(err, core.ErrCheckFailed) {
			os.Exit(1)
		}
		if err != nil {
			contract.LogFatal("Score check failed", err)
		}
	},
}
