package schema

import "time"

// ReportRunRecord represents a row from the scorecard_report_runs table.
type ReportRunRecord struct {
	RunID             int64
	StartTime         time.Time
	EndTime           *time.Time
	RunDurationMs     *int32
	PartnersRequested int32
	PartnersSucceeded int32
	ConfigParams      *string
}

// PartnerOutcomeRecord represents a row from the scorecard_partner_outcomes table.
type PartnerOutcomeRecord struct {
	RunID        int64
	PartnerID    int32
	PartnerName  string
	Region       *string
	ImpactScore  *float64
	ImpactPct    *float64
	Status       string
	ErrorMessage *string
	ReportPath   *string
	RecordedAt   time.Time
}

// LedgerStatus holds status information about the run ledger.
type LedgerStatus struct {
	Backend                string
	Connected              bool
	TotalRuns              int64
	LastRunID              int64
	LastRunTime            time.Time
	OldestRunTime          time.Time
	TotalPartnersSucceeded int64
	TableSizes             map[string]int64
}
