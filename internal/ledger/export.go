package ledger

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/internal/parquet"
)

// ExportLedger writes every report run and partner outcome of the store to
// two Parquet files named after outputFile.
func ExportLedger(w io.Writer, store contract.LedgerStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("ledger tracking is disabled; set --ledger-backend to export")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get ledger status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no ledger data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total report runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total partner outcomes: %d\n", status.TableSizes[partnerOutcomesTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve report runs: %w", err)
	}
	outcomes, err := store.GetAllOutcomes()
	if err != nil {
		return fmt.Errorf("failed to retrieve partner outcomes: %w", err)
	}

	runsFile := outputFile + ".report_runs.parquet"
	parquetRuns := parquet.ConvertReportRunRecords(runs)
	if err := parquet.WriteReportRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write report runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d report runs to: %s\n", len(parquetRuns), runsFile)

	outcomesFile := outputFile + ".partner_outcomes.parquet"
	parquetOutcomes := parquet.ConvertPartnerOutcomeRecords(outcomes)
	if err := parquet.WritePartnerOutcomesParquet(parquetOutcomes, outcomesFile); err != nil {
		return fmt.Errorf("failed to write partner outcomes: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d partner outcomes to: %s\n", len(parquetOutcomes), outcomesFile)

	return nil
}
