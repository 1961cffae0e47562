package dataset

import (
	"fmt"
	"math"
	"strings"

	"github.com/huangsam/scorecard/schema"
)

// LoadPopulation reads the partner metric file into a table.
//
// The first column holds the partner identifier whatever its header says.
// A column whose non-blank cells all parse as numbers becomes a score column;
// any other column is kept as text. Blank cells and missing-value tokens such
// as "NA" or "#N/A" are left out of the record. Infinite scores are rejected.
func LoadPopulation(path string) (*schema.Table, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, fmt.Errorf("load population %s: %w", path, err)
	}
	table, err := populationFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("load population %s: %w", path, err)
	}
	return table, nil
}

func populationFromRows(rows [][]string) (*schema.Table, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	header := rows[0]
	body := rows[1:]

	columns := make([]string, 0, len(header))
	numeric := make([]bool, len(header))
	for j := 1; j < len(header); j++ {
		name := strings.TrimSpace(header[j])
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", j)
		}
		columns = append(columns, name)
		numeric[j] = isNumericColumn(body, j)
	}

	table := schema.NewTable(columns...)
	for i, row := range body {
		if isBlankRow(row) {
			continue
		}
		id, err := parsePartnerID(cell(row, 0))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		r := schema.NewPartnerRecord(id)
		for j := 1; j < len(header); j++ {
			v := valueCell(row, j)
			if v == "" {
				continue
			}
			name := columns[j-1]
			if numeric[j] {
				f, _ := parseScore(v)
				if math.IsInf(f, 0) {
					return nil, fmt.Errorf("row %d: column %q: score %q is not finite", i+2, name, v)
				}
				r.Scores[name] = f
			} else {
				r.Attributes[name] = v
			}
		}
		table.Append(r)
	}
	return table, nil
}

// isNumericColumn reports whether every non-blank cell of column j is a number.
func isNumericColumn(body [][]string, j int) bool {
	for _, row := range body {
		v := valueCell(row, j)
		if v == "" {
			continue
		}
		if _, ok := parseScore(v); !ok {
			return false
		}
	}
	return true
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
