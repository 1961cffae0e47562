package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/huangsam/scorecard/internal/contract"
	"github.com/tealeg/xlsx/v2"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader creates a CSV writer, writes the header and then the data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return writeRows(csvWriter)
}

// createFormatter returns the number formatter for the configured precision.
// Missing values format as an empty string.
func createFormatter(precision int) func(float64) string {
	return func(v float64) string {
		if math.IsNaN(v) {
			return ""
		}
		return fmt.Sprintf("%.*f", precision, v)
	}
}

// xlsxSheet is one worksheet of an exported workbook.
// Cells holding a float64 are written as numbers, anything else as text.
type xlsxSheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// writeXLSX saves the sheets as a workbook at outputPath.
func writeXLSX(outputPath string, sheets []xlsxSheet) error {
	f := xlsx.NewFile()
	for _, s := range sheets {
		sheet, err := f.AddSheet(sheetName(s.Name))
		if err != nil {
			return fmt.Errorf("xlsx: add sheet %q: %w", s.Name, err)
		}
		header := sheet.AddRow()
		for _, h := range s.Header {
			header.AddCell().SetString(h)
		}
		for _, values := range s.Rows {
			row := sheet.AddRow()
			for _, v := range values {
				cell := row.AddCell()
				switch val := v.(type) {
				case float64:
					if !math.IsNaN(val) {
						cell.SetFloat(val)
					}
				case int:
					cell.SetInt(val)
				case string:
					cell.SetString(val)
				default:
					cell.SetString(fmt.Sprint(val))
				}
			}
		}
	}
	if err := f.Save(outputPath); err != nil {
		return fmt.Errorf("xlsx: save %s: %w", outputPath, err)
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote XLSX to %s\n", outputPath)
	return nil
}

// sheetName trims a name to the 31 characters a worksheet name may hold.
func sheetName(name string) string {
	runes := []rune(name)
	if len(runes) > 31 {
		return string(runes[:31])
	}
	return name
}

// headerPrefix returns the emoji prefix for table headers when enabled.
func headerPrefix(cfg *contract.Config, emoji string) string {
	if cfg.UseEmojis {
		return emoji + " "
	}
	return ""
}

// label returns the standing label of a percentile, colored when enabled.
func label(cfg *contract.Config, pct float64) string {
	if cfg.UseColors {
		return contract.GetColorLabel(pct)
	}
	return contract.GetPlainLabel(pct)
}
