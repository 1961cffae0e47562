// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRanking prints the enriched partner table using the configured output format.
func (ow *OutWriter) WriteRanking(table *schema.Table, fields []string, cfg *contract.Config, duration time.Duration) error {
	return WriteRankingResults(table, fields, cfg, duration)
}

// WriteScoringTables prints partner scoring tables using the configured output format.
func (ow *OutWriter) WriteScoringTables(tables []*schema.ScoringTable, cfg *contract.Config, duration time.Duration) error {
	return WriteScoringResults(tables, cfg, duration)
}

// WriteLoanThemes prints a partner's loan themes using the configured output format.
func (ow *OutWriter) WriteLoanThemes(partnerID int, themes []schema.LoanTheme, counts []schema.RatingCount, cfg *contract.Config) error {
	return WriteLoanThemeResults(partnerID, themes, counts, cfg)
}

// WriteOutcomes prints the per-partner summary of a batch report run.
func (ow *OutWriter) WriteOutcomes(outcomes []schema.PartnerOutcome, cfg *contract.Config, duration time.Duration) error {
	return WriteOutcomeResults(outcomes, cfg, duration)
}

// GetMaxTableNameWidth calculates the maximum width for partner names in table output
// based on terminal width and the number of score columns shown next to them.
func GetMaxTableNameWidth(cfg *contract.Config, scoreColumns int) int {
	termWidth := cfg.Width
	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + ID + Region + Label with borders/padding, then each score cell
	baseWidth := 40 + 16*scoreColumns

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}
