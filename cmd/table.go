package cmd

import (
	"github.com/huangsam/scorecard/core"
	"github.com/huangsam/scorecard/internal/contract"
	"github.com/spf13/cobra"
)

// tableCmd prints scoring tables for selected partners.
var tableCmd = &cobra.Command{
	Use:   "table [partner-id...]",
	Short: "Compare partners with the population and their region.",
	Long: `Build the scoring table of each scorecard component for the given partners.

Every row shows the partner's score, the median and percentile against all
partners and, when the partner has a region, the same against its region.

Partner IDs may be given as separate or comma-separated arguments. Without
arguments the default partner set is used.

Examples:
  # All component tables for two partners
  scorecard table 202 386

  # Only the Targeting table, as JSON
  scorecard table 202 --component Targeting --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTable(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build scoring table", err)
		}
	},
}
