// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/scorecard/schema"
)

// RegionSource supplies the partner to region mapping joined onto the metric table.
// This allows the ranking logic to be tested without touching the file system.
type RegionSource interface {
	// RegionTable returns the mapping table keyed by partner identifier.
	// It must carry the region column and may carry other passthrough columns.
	RegionTable() (*schema.Table, error)
}

// StoreManager defines the interface for managing persistence stores.
// This allows the ledger layer to be mocked for testing.
type StoreManager interface {
	GetLedgerStore() LedgerStore
}

// LedgerStore defines the interface for tracking report runs and per-partner outcomes.
type LedgerStore interface {
	// BeginRun creates a new report run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// RecordOutcome stores the result of one partner's report card
	RecordOutcome(runID int64, outcome schema.PartnerOutcome) error

	// EndRun updates the report run with completion data
	EndRun(runID int64, endTime time.Time, requested, succeeded int) error

	// GetStatus returns status information about the ledger
	GetStatus() (schema.LedgerStatus, error)

	// GetAllRuns returns every recorded report run
	GetAllRuns() ([]schema.ReportRunRecord, error)

	// GetAllOutcomes returns every recorded partner outcome
	GetAllOutcomes() ([]schema.PartnerOutcomeRecord, error)

	// Close closes the underlying connection
	Close() error
}

// ReportRenderer writes a finished report card and returns where it was written.
type ReportRenderer interface {
	Render(card *schema.ReportCard) (string, error)
}
