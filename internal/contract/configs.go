package contract

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/scorecard/schema"
)

// Default values for configuration.
const (
	DefaultDataFile       = "scores/ISC_components.csv"
	DefaultRegionFile     = "data/partner_irsregion.csv"
	DefaultLoanThemesFile = "data/partner_loanthemes_reportingtags.csv"
	DefaultReportDir      = "PartnerReports"
	DefaultFiguresDir     = "figures"
	DefaultPrecision      = 2
	DefaultResultLimit    = 25
	MaxResultLimit        = 10000
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for scorecard generation.
// This struct is the "final, validated" config.
type Config struct {
	DataFile       string
	RegionFile     string
	LoanThemesFile string
	TemplateFile   string // Empty means the embedded template
	StylesheetFile string // Empty means the embedded stylesheet
	ReportDir      string
	FiguresDir     string

	PartnerIDs  []int
	Component   schema.Component
	RankFields  []string
	Rename      map[string]string
	SortBy      string
	ResultLimit int

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	LedgerBackend   schema.DatabaseBackend
	LedgerDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	LogFormat string

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	PartnerIDArgs []string

	// --- Fields from rootCmd.PersistentFlags() ---
	DataFile        string   `mapstructure:"data-file"`
	RegionFile      string   `mapstructure:"region-file"`
	LoanThemesFile  string   `mapstructure:"loanthemes-file"`
	Fields          string   `mapstructure:"fields"`
	Rename          []string `mapstructure:"rename"`
	Precision       int      `mapstructure:"precision"`
	Output          string   `mapstructure:"output"`
	OutputFile      string   `mapstructure:"output-file"`
	Width           int      `mapstructure:"width"`
	LedgerBackend   string   `mapstructure:"ledger-backend"`
	LedgerDBConnect string   `mapstructure:"ledger-db-connect"`
	LogLevel        string   `mapstructure:"log-level"`
	LogFormat       string   `mapstructure:"log-format"`
	Emoji           string   `mapstructure:"emoji"`
	Color           string   `mapstructure:"color"`

	// --- Fields from reportCmd.Flags() ---
	TemplateFile   string `mapstructure:"template"`
	StylesheetFile string `mapstructure:"stylesheet"`
	ReportDir      string `mapstructure:"report-dir"`
	FiguresDir     string `mapstructure:"figures-dir"`

	// --- Fields from tableCmd.Flags() ---
	Component string `mapstructure:"component"`

	// --- Fields from rankCmd.Flags() ---
	SortBy string `mapstructure:"sort-by"`
	Limit  int    `mapstructure:"limit"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.PartnerIDs = slices.Clone(c.PartnerIDs)
	clone.RankFields = slices.Clone(c.RankFields)
	if c.Rename != nil {
		clone.Rename = maps.Clone(c.Rename)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processInputFiles(cfg, input); err != nil {
		return err
	}
	if err := processRankFields(cfg, input); err != nil {
		return err
	}
	if err := processPartnerIDs(cfg, input); err != nil {
		return err
	}
	if err := validateLedgerConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("ledger-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("ledger-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend resolves a backend name, treating empty input as NoneBackend.
func ParseBackend(s string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(s) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid ledger backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// validateLedgerConfig validates the ledger backend configuration.
func validateLedgerConfig(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseBackend(input.LedgerBackend)
	if err != nil {
		return err
	}
	cfg.LedgerBackend = backend
	cfg.LedgerDBConnect = input.LedgerDBConnect
	return ValidateDatabaseConnectionString(cfg.LedgerBackend, cfg.LedgerDBConnect)
}

// validateSimpleInputs processes and validates all non-file related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.SortBy = strings.TrimSpace(input.SortBy)

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", input.Output)
	}
	if (cfg.Output == schema.ParquetOut || cfg.Output == schema.XLSXOut) && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for %s output", cfg.Output)
	}

	// --- 2. Limit Validation ---
	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 3. Component Validation (empty means all components) ---
	if input.Component != "" {
		component, err := schema.ParseComponent(input.Component)
		if err != nil {
			return err
		}
		cfg.Component = component
	}

	// --- 4. Logging ---
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(input.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(input.LogFormat))
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = DefaultLogFormat
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format '%s'. must be console or json", input.LogFormat)
	}

	// --- 5. Column relabeling ---
	rename, err := parseRenamePairs(input.Rename)
	if err != nil {
		return err
	}
	cfg.Rename = rename

	return nil
}

// processInputFiles resolves input and output paths.
func processInputFiles(cfg *Config, input *ConfigRawInput) error {
	cfg.DataFile = strings.TrimSpace(input.DataFile)
	if cfg.DataFile == "" {
		return fmt.Errorf("--data-file must not be empty")
	}
	cfg.RegionFile = strings.TrimSpace(input.RegionFile)
	if cfg.RegionFile == "" {
		return fmt.Errorf("--region-file must not be empty")
	}
	cfg.LoanThemesFile = strings.TrimSpace(input.LoanThemesFile)
	cfg.TemplateFile = strings.TrimSpace(input.TemplateFile)
	cfg.StylesheetFile = strings.TrimSpace(input.StylesheetFile)

	cfg.ReportDir = filepath.Clean(defaultString(input.ReportDir, DefaultReportDir))
	cfg.FiguresDir = filepath.Clean(defaultString(input.FiguresDir, DefaultFiguresDir))

	for _, p := range []string{cfg.TemplateFile, cfg.StylesheetFile} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("cannot access %s: %w", p, err)
		}
	}
	return nil
}

// processRankFields parses the comma-separated list of ranked score columns.
func processRankFields(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.Fields) == "" {
		cfg.RankFields = slices.Clone(schema.DefaultRankFields)
		return nil
	}
	fields, err := ParseRankFields(input.Fields)
	if err != nil {
		return err
	}
	cfg.RankFields = fields
	return nil
}

// ParseRankFields splits a comma-separated list of score columns.
// Duplicate and empty lists are rejected.
func ParseRankFields(s string) ([]string, error) {
	var fields []string
	for part := range strings.SplitSeq(s, ",") {
		f := strings.TrimSpace(part)
		if f == "" {
			continue
		}
		if slices.Contains(fields, f) {
			return nil, fmt.Errorf("field %q listed more than once", f)
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("--fields must name at least one score column")
	}
	return fields, nil
}

// processPartnerIDs parses the positional partner identifiers.
func processPartnerIDs(cfg *Config, input *ConfigRawInput) error {
	ids, err := ParsePartnerIDs(input.PartnerIDArgs)
	if err != nil {
		return err
	}
	cfg.PartnerIDs = ids
	return nil
}

// ParsePartnerIDs converts command line arguments into partner identifiers.
// Arguments may be separate or comma-separated.
func ParsePartnerIDs(args []string) ([]int, error) {
	var ids []int
	for _, arg := range args {
		for part := range strings.SplitSeq(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid partner id '%s': must be an integer", part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// parseRenamePairs parses entries like "Impact=Impact Score" into a relabel map.
func parseRenamePairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	rename := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		from, to, ok := strings.Cut(pair, "=")
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("invalid rename '%s', expected 'old=new'", pair)
		}
		rename[from] = to
	}
	return rename, nil
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return strings.TrimSpace(s)
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
