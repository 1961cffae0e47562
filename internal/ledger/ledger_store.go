package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for the run ledger.
const (
	reportRunsTable      = "scorecard_report_runs"
	partnerOutcomesTable = "scorecard_partner_outcomes"
)

// LedgerStoreImpl implements the LedgerStore interface on database/sql.
type LedgerStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.LedgerStore = &LedgerStoreImpl{} // Compile-time check

// NewLedgerStore opens the ledger for the specified backend and creates its tables.
// NoneBackend yields a store that accepts every call and records nothing.
func NewLedgerStore(backend schema.DatabaseBackend, connStr string) (contract.LedgerStore, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err = sql.Open(driverFor(backend), dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open(driverFor(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open(driverFor(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	case schema.NoneBackend:
		return &LedgerStoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}

	if err := createLedgerTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create ledger tables: %w", err)
	}

	return &LedgerStoreImpl{db: db, backend: backend}, nil
}

// createLedgerTables creates the ledger tables if they do not exist yet.
func createLedgerTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{reportRunsTable, createReportRunsQuery(backend)},
		{partnerOutcomesTable, createPartnerOutcomesQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

func createReportRunsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(reportRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				partners_requested INT NOT NULL DEFAULT 0,
				partners_succeeded INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				partners_requested INT NOT NULL DEFAULT 0,
				partners_succeeded INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				partners_requested INTEGER NOT NULL DEFAULT 0,
				partners_succeeded INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quoted)
	}
}

func createPartnerOutcomesQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(partnerOutcomesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				outcome_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_id BIGINT NOT NULL,
				partner_id INT NOT NULL,
				partner_name VARCHAR(255) NOT NULL,
				region VARCHAR(100),
				impact_score DOUBLE,
				impact_pct DOUBLE,
				status VARCHAR(20) NOT NULL,
				error_message TEXT,
				report_path VARCHAR(512),
				recorded_at DATETIME(6) NOT NULL
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				outcome_id BIGSERIAL PRIMARY KEY,
				run_id BIGINT NOT NULL,
				partner_id INT NOT NULL,
				partner_name TEXT NOT NULL,
				region TEXT,
				impact_score DOUBLE PRECISION,
				impact_pct DOUBLE PRECISION,
				status TEXT NOT NULL,
				error_message TEXT,
				report_path TEXT,
				recorded_at TIMESTAMPTZ NOT NULL
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				outcome_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_id INTEGER NOT NULL,
				partner_id INTEGER NOT NULL,
				partner_name TEXT NOT NULL,
				region TEXT,
				impact_score REAL,
				impact_pct REAL,
				status TEXT NOT NULL,
				error_message TEXT,
				report_path TEXT,
				recorded_at TEXT NOT NULL
			);
		`, quoted)
	}
}

// disabled reports whether the store records nothing.
func (ls *LedgerStoreImpl) disabled() bool {
	return ls.backend == schema.NoneBackend || ls.db == nil
}

// BeginRun creates a new report run and returns its unique ID.
func (ls *LedgerStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if ls.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quoted := quoteTableName(reportRunsTable, ls.backend)

	var runID int64
	switch ls.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quoted)
		err = ls.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quoted)
		var result sql.Result
		result, err = ls.db.Exec(query, formatTime(startTime, ls.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert report run: %w", err)
	}
	return runID, nil
}

// RecordOutcome stores the result of one partner's report card.
// Missing impact values and empty text fields are stored as NULL.
func (ls *LedgerStoreImpl) RecordOutcome(runID int64, outcome schema.PartnerOutcome) error {
	if ls.disabled() {
		return nil
	}

	columns := []string{
		"run_id", "partner_id", "partner_name", "region", "impact_score",
		"impact_pct", "status", "error_message", "report_path", "recorded_at",
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteTableName(partnerOutcomesTable, ls.backend),
		strings.Join(columns, ", "),
		placeholders(ls.backend, len(columns)))

	args := []any{
		runID,
		outcome.PartnerID,
		outcome.PartnerName,
		nullString(outcome.Region),
		nullFloat(outcome.ImpactScore),
		nullFloat(outcome.ImpactPct),
		string(outcome.Status),
		nullString(outcome.Error),
		nullString(outcome.ReportPath),
		formatTime(time.Now(), ls.backend),
	}
	if _, err := ls.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert outcome for partner %d: %w", outcome.PartnerID, err)
	}
	return nil
}

// EndRun updates the report run with completion data.
func (ls *LedgerStoreImpl) EndRun(runID int64, endTime time.Time, requested, succeeded int) error {
	if ls.disabled() {
		return nil
	}

	quoted := quoteTableName(reportRunsTable, ls.backend)
	row := ls.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quoted, placeholders(ls.backend, 1)), runID)
	startTime, err := ls.scanTime(row)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	var query string
	switch ls.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, partners_requested = $3, partners_succeeded = $4 WHERE run_id = $5`, quoted)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, partners_requested = ?, partners_succeeded = ? WHERE run_id = ?`, quoted)
	}
	if _, err := ls.db.Exec(query, formatTime(endTime, ls.backend), durationMs, requested, succeeded, runID); err != nil {
		return fmt.Errorf("failed to update report run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (ls *LedgerStoreImpl) Close() error {
	if ls.db != nil {
		return ls.db.Close()
	}
	return nil
}

// GetStatus returns status information about the ledger.
func (ls *LedgerStoreImpl) GetStatus() (schema.LedgerStatus, error) {
	status := schema.LedgerStatus{
		Backend:    string(ls.backend),
		Connected:  ls.db != nil,
		TableSizes: make(map[string]int64),
	}
	if ls.disabled() {
		return status, nil
	}

	runs := quoteTableName(reportRunsTable, ls.backend)
	if err := ls.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := ls.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", runs))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		var err error
		row = ls.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs))
		if status.LastRunTime, err = ls.scanTime(row); err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		row = ls.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs))
		if status.OldestRunTime, err = ls.scanTime(row); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		row = ls.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(partners_succeeded), 0) FROM %s", runs))
		if err := row.Scan(&status.TotalPartnersSucceeded); err != nil {
			return status, fmt.Errorf("failed to get total partners succeeded: %w", err)
		}
	}

	for _, table := range []string{reportRunsTable, partnerOutcomesTable} {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, ls.backend))
		if err := ls.db.QueryRow(query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllRuns retrieves every report run, oldest first.
func (ls *LedgerStoreImpl) GetAllRuns() ([]schema.ReportRunRecord, error) {
	if ls.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, partners_requested, partners_succeeded, config_params
		FROM %s ORDER BY run_id`, quoteTableName(reportRunsTable, ls.backend))
	rows, err := ls.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReportRunRecord
	for rows.Next() {
		var record schema.ReportRunRecord

		switch ls.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs,
				&record.PartnersRequested, &record.PartnersSucceeded, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
			if record.StartTime, err = time.Parse(time.RFC3339Nano, startTimeStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL store native datetimes
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.RunDurationMs,
				&record.PartnersRequested, &record.PartnersSucceeded, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report runs: %w", err)
	}
	return results, nil
}

// GetAllOutcomes retrieves every partner outcome in recording order.
func (ls *LedgerStoreImpl) GetAllOutcomes() ([]schema.PartnerOutcomeRecord, error) {
	if ls.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, partner_id, partner_name, region, impact_score, impact_pct,
		status, error_message, report_path, recorded_at
		FROM %s ORDER BY outcome_id`, quoteTableName(partnerOutcomesTable, ls.backend))
	rows, err := ls.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query partner outcomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PartnerOutcomeRecord
	for rows.Next() {
		var record schema.PartnerOutcomeRecord
		dest := []any{
			&record.RunID, &record.PartnerID, &record.PartnerName, &record.Region,
			&record.ImpactScore, &record.ImpactPct, &record.Status, &record.ErrorMessage,
			&record.ReportPath,
		}

		if ls.backend == schema.SQLiteBackend {
			var recordedAt string
			if err := rows.Scan(append(dest, &recordedAt)...); err != nil {
				return nil, fmt.Errorf("failed to scan partner outcome: %w", err)
			}
			if record.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
				return nil, fmt.Errorf("failed to parse recorded_at: %w", err)
			}
		} else if err := rows.Scan(append(dest, &record.RecordedAt)...); err != nil {
			return nil, fmt.Errorf("failed to scan partner outcome: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partner outcomes: %w", err)
	}
	return results, nil
}

// scanTime reads a single timestamp column, parsing SQLite's text encoding.
func (ls *LedgerStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if ls.backend != schema.SQLiteBackend {
		var t time.Time
		err := row.Scan(&t)
		return t, err
	}
	var s string
	if err := row.Scan(&s); err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, s)
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t
}

// placeholders returns n bind parameters in the backend's syntax.
func placeholders(backend schema.DatabaseBackend, n int) string {
	marks := make([]string, n)
	for i := range marks {
		if backend == schema.PostgreSQLBackend {
			marks[i] = fmt.Sprintf("$%d", i+1)
		} else {
			marks[i] = "?"
		}
	}
	return strings.Join(marks, ", ")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}
