package cmd

import (
	"github.com/huangsam/scorecard/core"
	"github.com/huangsam/scorecard/internal/contract"
	"github.com/spf13/cobra"
)

// themesCmd lists the loan themes of a partner.
var themesCmd = &cobra.Command{
	Use:   "themes <partner-id>",
	Short: "List a partner's loan themes by research rating.",
	Long: `Show the loan themes of one partner and how many carry each research rating.

Examples:
  scorecard themes 202
  scorecard themes 202 --loanthemes-file data/themes.xlsx --output csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteThemes(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list loan themes", err)
		}
	},
}
