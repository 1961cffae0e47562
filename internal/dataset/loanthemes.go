package dataset

import (
	"fmt"

	"github.com/huangsam/scorecard/schema"
)

// Source column names of the loan theme file.
const (
	loanThemeTypeSource = "Loan Theme Type: Loan Theme Type Name"
	reportingTagSource  = "Reporting Tag: Reporting Tag Name"
)

// LoadLoanThemes reads the partner loan theme file.
// Rows with any blank field are dropped.
func LoadLoanThemes(path string) ([]schema.LoanTheme, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, fmt.Errorf("load loan themes %s: %w", path, err)
	}
	themes, err := loanThemesFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("load loan themes %s: %w", path, err)
	}
	return themes, nil
}

func loanThemesFromRows(rows [][]string) ([]schema.LoanTheme, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	index := headerIndex(rows[0])
	wanted := []string{
		schema.PartnerIDColumn,
		loanThemeTypeSource,
		schema.LoanThemeNameColumn,
		reportingTagSource,
		schema.ResearchRatingColumn,
	}
	cols := make([]int, len(wanted))
	for k, name := range wanted {
		j, ok := index[name]
		if !ok {
			return nil, schema.FieldNotFound(name)
		}
		cols[k] = j
	}

	var themes []schema.LoanTheme
	for _, row := range rows[1:] {
		values := make([]string, len(cols))
		complete := true
		for k, j := range cols {
			values[k] = cell(row, j)
			if values[k] == "" {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		id, err := parsePartnerID(values[0])
		if err != nil {
			continue
		}
		themes = append(themes, schema.LoanTheme{
			PartnerID:      id,
			ThemeType:      values[1],
			ThemeName:      values[2],
			ReportingTag:   values[3],
			ResearchRating: values[4],
		})
	}
	return themes, nil
}
