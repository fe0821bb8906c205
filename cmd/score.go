package cmd

import (
	"github.com/spf13/cobra"

	"github.com/finscore/finscore/core"
	"github.com/finscore/finscore/internal/contract"
)

// scoreCmd scores one statement bundle against a policy profile.
var scoreCmd = &cobra.Command{
	Use:   "score [bundle-file]",
	Short: "Score a company's financial statements against a policy profile",
	Long: `Evaluate every metric named by the scoring profile and score it against its threshold.

The bundle is a JSON or YAML document with balance, income, cashflow and
financials tables keyed by fiscal period end. Use --ticker instead of a file
to read a bundle previously imported into the statement store.

By default only failing records are listed, followed by the total score and
any metrics that could not be computed. Use --all to list every record.

Examples:
  # Score a bundle with the default profile
  finscore score acme.json

  # Score a stored ticker with a custom profile from ./profiles
  finscore score --ticker ACME --profile growth --profiles-dir profiles

  # Export every record for analysis in pandas/DuckDB
  finscore score acme.json --output parquet --output-file acme.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScore(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot score bundle", err)
		}
	},
}
