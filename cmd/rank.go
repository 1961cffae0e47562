package cmd

import (
	"github.com/huangsam/scorecard/core"
	"github.com/huangsam/scorecard/internal/contract"
	"github.com/spf13/cobra"
)

// rankCmd ranks every partner against the population and its region.
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank partners with overall and regional percentiles.",
	Long: `Join the component score table with the region mapping and rank every partner.

For each ranked field two columns are added:
- "<field> pct" is the percentile against every partner
- "<field> region pct" is the percentile against partners in the same region

Percentiles are fractional ranks in (0, 1]. Ties share the average rank and
missing scores are left out of the ranking.

Examples:
  # Rank all partners by Impact
  scorecard rank --sort-by Impact --limit 20

  # Rank a subset of fields and relabel a column
  scorecard rank --fields Impact,Process --rename "Impact=Impact Score"

  # Export the full ranking for a spreadsheet
  scorecard rank --output xlsx --output-file ranking.xlsx`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRank(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build ranking", err)
		}
	},
}
