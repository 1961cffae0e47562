// Package core has core logic for ranking partners and building scorecards.
package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/huangsam/scorecard/core/algo"
	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/internal/dataset"
	"github.com/huangsam/scorecard/internal/outwriter"
	"github.com/huangsam/scorecard/schema"
	"go.uber.org/zap"
)

// ExecutorFunc defines the function signature for executing the scorecard commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ErrNoReportsWritten is returned when a batch run produced no report card at all.
var ErrNoReportsWritten = errors.New("no report cards written")

// LoadRanking reads the population and region files named in cfg and returns
// the enriched table with one row per partner.
func LoadRanking(cfg *contract.Config, opts RankingOptions) (*schema.Table, error) {
	population, err := dataset.LoadPopulation(cfg.DataFile)
	if err != nil {
		return nil, err
	}
	ranked, err := BuildRanking(population, cfg.RankFields, dataset.FileRegionSource{Path: cfg.RegionFile}, opts)
	if err != nil {
		return nil, err
	}
	return CollapseByPartner(ranked), nil
}

// ExecuteRank builds the ranking and prints it.
// It serves as the main entry point for the 'rank' command.
func ExecuteRank(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	table, err := LoadRanking(cfg, RankingOptions{Rename: cfg.Rename})
	if err != nil {
		return err
	}

	fields := renamedFields(cfg.RankFields, cfg.Rename)
	if cfg.SortBy != "" {
		sortBy := cfg.SortBy
		if renamed, ok := cfg.Rename[sortBy]; ok {
			sortBy = renamed
		}
		if !table.HasColumn(sortBy) {
			return schema.FieldNotFound(sortBy)
		}
		table.Records = algo.RankRecords(table.Records, sortBy, cfg.ResultLimit)
	} else if cfg.ResultLimit > 0 && table.Len() > cfg.ResultLimit {
		table.Records = table.Records[:cfg.ResultLimit]
	}

	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteRanking(table, fields, cfg, duration)
}

// ExecuteTable builds scoring tables for the configured partners and prints them.
// It serves as the main entry point for the 'table' command.
func ExecuteTable(ctx context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	table, err := LoadRanking(cfg, RankingOptions{})
	if err != nil {
		return err
	}

	components := schema.AllComponents
	if cfg.Component != "" {
		components = []schema.Component{cfg.Component}
	}

	// A failing partner is logged and skipped; the others are still written.
	var (
		tables   []*schema.ScoringTable
		failures []error
	)
	for _, id := range partnerIDs(cfg) {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, c := range components {
			st, err := BuildScoringTable(table, id, string(c))
			if err != nil {
				zap.L().Error("Scoring table failed", zap.Int("partner_id", id), zap.String("component", string(c)), zap.Error(err))
				failures = append(failures, fmt.Errorf("partner %d: %w", id, err))
				break
			}
			tables = append(tables, st)
		}
	}
	if len(tables) == 0 && len(failures) > 0 {
		return fmt.Errorf("no scoring tables built: %w", errors.Join(failures...))
	}

	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteScoringTables(tables, cfg, duration)
}

// ExecuteThemes prints the loan themes of the first configured partner.
// It serves as the main entry point for the 'themes' command.
func ExecuteThemes(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	themes, err := dataset.LoadLoanThemes(cfg.LoanThemesFile)
	if err != nil {
		return err
	}
	id := partnerIDs(cfg)[0]
	partnerThemes := PartnerLoanThemes(themes, id)
	counts := CountByResearchRating(themes, id)
	return outwriter.NewOutWriter().WriteLoanThemes(id, partnerThemes, counts, cfg)
}

// ExecuteReports writes one report card per configured partner and prints a summary.
// It serves as the main entry point for the 'report' command.
func ExecuteReports(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, renderer contract.ReportRenderer) error {
	start := time.Now()
	table, err := LoadRanking(cfg, RankingOptions{})
	if err != nil {
		return err
	}

	var ledger contract.LedgerStore
	if mgr != nil {
		ledger = mgr.GetLedgerStore()
	}
	params := map[string]any{
		"data_file":   cfg.DataFile,
		"region_file": cfg.RegionFile,
		"report_dir":  cfg.ReportDir,
		"figures_dir": cfg.FiguresDir,
		"rank_fields": cfg.RankFields,
	}
	outcomes, err := RunReports(ctx, table, partnerIDs(cfg), renderer, ledger, params)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	if err := outwriter.NewOutWriter().WriteOutcomes(outcomes, cfg, duration); err != nil {
		return err
	}
	if countSucceeded(outcomes) == 0 {
		return ErrNoReportsWritten
	}
	return nil
}

// RunReports renders a report card for each partner in turn.
// A failing partner is logged and recorded, then the batch moves on.
// Only context cancellation stops the run early.
func RunReports(
	ctx context.Context,
	table *schema.Table,
	ids []int,
	renderer contract.ReportRenderer,
	ledger contract.LedgerStore,
	params map[string]any,
) ([]schema.PartnerOutcome, error) {
	var runID int64
	if ledger != nil {
		var err error
		runID, err = ledger.BeginRun(time.Now(), params)
		if err != nil {
			contract.LogWarn("Report run tracking initialization failed", err)
		}
	}

	outcomes := make([]schema.PartnerOutcome, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			endRun(ledger, runID, len(ids), outcomes)
			return outcomes, err
		}
		outcome := runReport(table, id, renderer)
		if outcome.Status == schema.FailedStatus {
			zap.L().Error("Report card failed", zap.Int("partner_id", id), zap.String("error", outcome.Error))
		} else {
			zap.L().Info("Report card written", zap.Int("partner_id", id), zap.String("path", outcome.ReportPath))
		}
		if ledger != nil && runID > 0 {
			if err := ledger.RecordOutcome(runID, outcome); err != nil {
				contract.LogWarn(fmt.Sprintf("Failed to record outcome for partner %d", id), err)
			}
		}
		outcomes = append(outcomes, outcome)
	}

	endRun(ledger, runID, len(ids), outcomes)
	return outcomes, nil
}

// runReport builds and renders one report card, capturing any failure in the outcome.
func runReport(table *schema.Table, id int, renderer contract.ReportRenderer) schema.PartnerOutcome {
	start := time.Now()
	outcome := schema.PartnerOutcome{
		PartnerID:   id,
		ImpactScore: math.NaN(),
		ImpactPct:   math.NaN(),
	}
	fail := func(err error) schema.PartnerOutcome {
		outcome.Status = schema.FailedStatus
		outcome.Error = err.Error()
		outcome.Duration = time.Since(start)
		return outcome
	}

	rec, ok := table.Lookup(id)
	if !ok {
		return fail(schema.PartnerNotFound(id))
	}
	outcome.PartnerName = recordName(rec)
	outcome.Region, _ = rec.Region()
	outcome.ImpactScore = scoreOrNaN(rec, string(schema.ImpactComponent))
	outcome.ImpactPct = scoreOrNaN(rec, schema.PctColumn(string(schema.ImpactComponent)))

	card, err := BuildReportCard(table, id)
	if err != nil {
		return fail(err)
	}
	path, err := renderer.Render(card)
	if err != nil {
		return fail(err)
	}
	outcome.Status = schema.SucceededStatus
	outcome.ReportPath = path
	outcome.Duration = time.Since(start)
	return outcome
}

func endRun(ledger contract.LedgerStore, runID int64, requested int, outcomes []schema.PartnerOutcome) {
	if ledger == nil || runID <= 0 {
		return
	}
	if err := ledger.EndRun(runID, time.Now(), requested, countSucceeded(outcomes)); err != nil {
		contract.LogWarn("Failed to finalize report run tracking", err)
	}
}

func countSucceeded(outcomes []schema.PartnerOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Status == schema.SucceededStatus {
			n++
		}
	}
	return n
}

// partnerIDs returns the configured partner IDs or the default set.
func partnerIDs(cfg *contract.Config) []int {
	if len(cfg.PartnerIDs) > 0 {
		return cfg.PartnerIDs
	}
	return schema.DefaultPartnerIDs
}

func renamedFields(fields []string, rename map[string]string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		if to, ok := rename[f]; ok {
			out[i] = to
		} else {
			out[i] = f
		}
	}
	return out
}
