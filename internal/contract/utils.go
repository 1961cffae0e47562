package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Percentile standing labels.
const (
	LeadingValue     = "Leading"      // Top quartile
	AboveMedianValue = "Above median" // Second quartile
	BelowMedianValue = "Below median" // Third quartile
	LaggingValue     = "Lagging"      // Bottom quartile
	UnrankedValue    = "Unranked"     // No percentile available
)

// Color variables for console output.
var (
	LeadingColor     = color.New(color.FgGreen, color.Bold)
	AboveMedianColor = color.New(color.FgCyan)
	BelowMedianColor = color.New(color.FgYellow)
	LaggingColor     = color.New(color.FgRed, color.Bold)
	UnrankedColor    = color.New(color.Faint)
)

// GetPlainLabel returns a plain text label describing where a fractional
// rank in (0,1] places a partner. This is the core logic used for
// CSV, JSON, and table printing.
func GetPlainLabel(pct float64) string {
	switch {
	case math.IsNaN(pct):
		return UnrankedValue
	case pct >= 0.75:
		return LeadingValue
	case pct >= 0.5:
		return AboveMedianValue
	case pct >= 0.25:
		return BelowMedianValue
	default:
		return LaggingValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(pct float64) string {
	text := GetPlainLabel(pct)

	switch text {
	case LeadingValue:
		return LeadingColor.Sprint(text)
	case AboveMedianValue:
		return AboveMedianColor.Sprint(text)
	case BelowMedianValue:
		return BelowMedianColor.Sprint(text)
	case LaggingValue:
		return LaggingColor.Sprint(text)
	default:
		return UnrankedColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ParseBoolString converts common truthy and falsy strings into a boolean.
// An empty string is treated as true.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "true", "yes", "1", "on":
		return true, nil
	case "false", "no", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("cannot parse %q as boolean", s)
	}
}

// TruncateName shortens a name to maxWidth runes, adding "..." when cut.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if maxWidth <= 3 || len(runes) <= maxWidth {
		return name
	}
	return string(runes[:maxWidth-3]) + "..."
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	zap.L().Error(msg, zap.Error(err))
	SyncLogger()
	os.Exit(1)
}

// LogWarn logs a warning message.
func LogWarn(msg string, err error) {
	zap.L().Warn(msg, zap.Error(err))
}

// GetLedgerDBFilePath returns the path to the SQLite DB file for the run ledger.
func GetLedgerDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scorecard_ledger.db"
	}
	return filepath.Join(homeDir, ".scorecard_ledger.db")
}
