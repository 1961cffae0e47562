// Package dataset loads the partner metric, region mapping and loan theme files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/charmap"
)

// ErrNoHeader is returned when an input file has no header row.
var ErrNoHeader = errors.New("missing header row")

// ReadRows reads every row of a CSV or XLSX file as string slices.
// CSV files are decoded from ISO-8859-1. XLSX files are read from their first sheet.
func ReadRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return readLatin1CSV(f)
	}
}

// readLatin1CSV reads a CSV stream encoded as ISO-8859-1.
func readLatin1CSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	reader.FieldsPerRecord = -1 // allow ragged rows
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}
}

// readXLSX reads the first sheet of a workbook.
func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open file: %w", err)
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("xlsx: %s has no sheets", path)
	}

	rows := make([][]string, 0, len(f.Sheets[0].Rows))
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// cell returns the trimmed value at index i, or "" for short rows.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// headerIndex maps each header name to its column position.
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return index
}

// parsePartnerID coerces an identifier cell to an integer.
// Integral floats such as "202.0" are accepted.
func parsePartnerID(s string) (int, error) {
	if id, err := strconv.Atoi(s); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("partner id %q is not an integer", s)
	}
	return int(f), nil
}

// missingTokens are cell values read as a missing value, as spreadsheet and
// pandas exports write them.
var missingTokens = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true,
	"N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// valueCell returns the trimmed cell, or "" when it holds a missing-value token.
func valueCell(row []string, i int) string {
	v := cell(row, i)
	if missingTokens[v] {
		return ""
	}
	return v
}

// parseScore parses a numeric cell. Thousands separators are tolerated.
// Infinite values parse so that the caller can reject them.
func parseScore(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
