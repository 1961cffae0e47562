package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/internal/ledger"
	"github.com/huangsam/scorecard/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ledgerSetup loads the minimal configuration needed by ledger commands.
// It skips input file validation so the ledger can be managed from anywhere.
func ledgerSetup(openStore bool) error {
	if err := readConfigFile(); err != nil {
		return err
	}
	if err := contract.InitLogger(viper.GetString("log-level"), viper.GetString("log-format")); err != nil {
		return err
	}

	backend, err := contract.ParseBackend(viper.GetString("ledger-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("ledger-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.LedgerBackend = backend
	cfg.LedgerDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	if !openStore {
		return nil
	}
	if err := ledger.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize ledger: %w", err)
	}
	storeManager = ledger.Manager
	return nil
}

// ledgerSetupWrapper wraps ledgerSetup for commands that read the ledger.
func ledgerSetupWrapper(_ *cobra.Command, _ []string) error {
	return ledgerSetup(true)
}

// ledgerAdminSetupWrapper wraps ledgerSetup for commands that manage the schema directly.
func ledgerAdminSetupWrapper(_ *cobra.Command, _ []string) error {
	return ledgerSetup(false)
}

// ledgerCmd groups run ledger management.
//
// Note: Ledger subcommands use minimal initialization instead of the full
// sharedSetup used by the scorecard commands.
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Manage the report run ledger",
	Long: `Manage the ledger of report card runs.

When a ledger backend is configured, every 'report' run is tracked with:
- Run metadata (timestamp, configuration, duration)
- The outcome of each partner (status, report path, Impact score)

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show ledger statistics
  export  - Export runs and outcomes to Parquet
  clear   - Remove all ledger data
  migrate - Run database schema migrations

Examples:
  # Check ledger status
  scorecard ledger status --ledger-backend sqlite

  # Export for analysis in pandas/DuckDB
  scorecard ledger export --ledger-backend sqlite --output-file ledger`,
}

// ledgerStatusCmd shows ledger statistics.
var ledgerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display ledger statistics and connection details",
	Long: `Show the backend, connection state, run counts and table sizes of the ledger.

Examples:
  SCORECARD_LEDGER_BACKEND=sqlite scorecard ledger status`,
	PreRunE: ledgerSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := storeManager.GetLedgerStore()
		if store == nil {
			ledger.PrintLedgerStatus(os.Stdout, schema.LedgerStatus{Backend: string(cfg.LedgerBackend)})
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get ledger status", err)
		}
		ledger.PrintLedgerStatus(os.Stdout, status)
	},
}

// ledgerClearCmd removes all ledger data.
var ledgerClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all report run ledger data",
	Long: `Delete all recorded report runs and partner outcomes.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the ledger tables

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  scorecard ledger export --ledger-backend sqlite --output-file backup
  scorecard ledger clear --ledger-backend sqlite`,
	PreRunE: ledgerAdminSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := ledger.GetDBFilePath()
		if cfg.LedgerBackend == schema.SQLiteBackend && cfg.LedgerDBConnect != "" {
			dbFilePath = cfg.LedgerDBConnect
		}
		if err := ledger.ClearLedger(cfg.LedgerBackend, dbFilePath, cfg.LedgerDBConnect); err != nil {
			contract.LogFatal("Failed to clear ledger", err)
		}
		fmt.Println("Ledger cleared successfully.")
	},
}

// ledgerExportCmd writes the ledger to Parquet files.
var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export report runs and partner outcomes to Parquet",
	Long: `Export all ledger data to Parquet files next to --output-file.

Writes two files:
- <output-file>.report_runs.parquet
- <output-file>.partner_outcomes.parquet

Examples:
  scorecard ledger export --ledger-backend sqlite --output-file ledger
  duckdb -c "SELECT * FROM read_parquet('ledger.partner_outcomes.parquet') LIMIT 10"`,
	PreRunE: ledgerSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := ledger.ExportLedger(os.Stdout, storeManager.GetLedgerStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export ledger", err)
		}
	},
}

// ledgerMigrateCmd runs database migrations for the ledger store.
var ledgerMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the report run ledger.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  scorecard ledger migrate --ledger-backend sqlite

  # Rollback to initial state
  scorecard ledger migrate --ledger-backend sqlite --target-version 0`,
	PreRunE: ledgerAdminSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := ledger.MigrateLedger(cfg.LedgerBackend, cfg.LedgerDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
