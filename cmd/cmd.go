// Package cmd defines the command-line interface for scorecard.
package cmd

import (
	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the ledger subcommands to the parent ledger command
	ledgerCmd.AddCommand(ledgerStatusCmd)
	ledgerCmd.AddCommand(ledgerClearCmd)
	ledgerCmd.AddCommand(ledgerExportCmd)
	ledgerCmd.AddCommand(ledgerMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("data-file", contract.DefaultDataFile, "Path to the component score table (csv or xlsx)")
	rootCmd.PersistentFlags().String("region-file", contract.DefaultRegionFile, "Path to the partner to region mapping (csv or xlsx)")
	rootCmd.PersistentFlags().String("loanthemes-file", contract.DefaultLoanThemesFile, "Path to the partner loan themes (csv or xlsx)")
	rootCmd.PersistentFlags().String("fields", "", "Comma-separated score columns to rank (defaults to all scorecard components)")
	rootCmd.PersistentFlags().StringArray("rename", nil, "Relabel a column after ranking, as 'old=new' (repeatable)")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns (1-4)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("ledger-backend", string(schema.NoneBackend), "Run ledger backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("ledger-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.DefaultLogFormat, "Log format: console or json")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of rankCmd to Viper
	rankCmd.Flags().String("sort-by", "", "Sort partners by this score column, highest first")
	rankCmd.Flags().IntP("limit", "l", 0, "Number of partners to display (0 = all)")
	if err := viper.BindPFlags(rankCmd.Flags()); err != nil {
		contract.LogFatal("Error binding rank flags", err)
	}

	// Bind all flags of tableCmd to Viper
	tableCmd.Flags().String("component", "", "Only build the table for this component: Impact or Targeting or Product or Process")
	if err := viper.BindPFlags(tableCmd.Flags()); err != nil {
		contract.LogFatal("Error binding table flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().String("template", "", "Path to an HTML report template (defaults to the built-in template)")
	reportCmd.Flags().String("stylesheet", "", "Path to a CSS stylesheet inlined into each report")
	reportCmd.Flags().String("report-dir", contract.DefaultReportDir, "Directory report cards are written to")
	reportCmd.Flags().String("figures-dir", contract.DefaultFiguresDir, "Directory histogram images are written to")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of ledgerMigrateCmd to Viper
	ledgerMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(ledgerMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding ledger migrate flags", err)
	}
}
