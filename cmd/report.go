package cmd

import (
	"github.com/huangsam/scorecard/core"
	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/internal/report"
	"github.com/spf13/cobra"
)

// reportCmd writes one HTML report card per partner.
var reportCmd = &cobra.Command{
	Use:   "report [partner-id...]",
	Short: "Write HTML report cards for partners.",
	Long: `Render one HTML report card per partner with scoring tables and histograms.

A failure for one partner is logged and the batch continues. When a ledger
backend is configured, the run and every partner outcome are recorded.

Examples:
  # Report cards for the default partner set
  scorecard report

  # Custom template, tracked in a local ledger
  scorecard report 202 386 --template my.htm --ledger-backend sqlite`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		renderer, err := report.NewWriter(report.Options{
			TemplateFile:   cfg.TemplateFile,
			StylesheetFile: cfg.StylesheetFile,
			ReportDir:      cfg.ReportDir,
			FiguresDir:     cfg.FiguresDir,
			Precision:      cfg.Precision,
		})
		if err != nil {
			contract.LogFatal("Cannot load report template", err)
		}
		if err := core.ExecuteReports(rootCtx, cfg, storeManager, renderer); err != nil {
			contract.LogFatal("Cannot write report cards", err)
		}
	},
}
