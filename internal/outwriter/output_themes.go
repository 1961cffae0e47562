package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/schema"

	"github.com/olekukonko/tablewriter"
)

// WriteLoanThemeResults outputs a partner's loan themes and research rating counts.
// Parquet output is not offered for loan themes and falls back to the table.
func WriteLoanThemeResults(partnerID int, themes []schema.LoanTheme, counts []schema.RatingCount, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				PartnerID int                  `json:"partner_id"`
				Themes    []schema.LoanTheme   `json:"loan_themes"`
				Counts    []schema.RatingCount `json:"research_rating_counts"`
			}{partnerID, themes, counts})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLoanThemesCSV(w, themes)
		}, "Wrote CSV")
	case schema.XLSXOut:
		themeSheet := xlsxSheet{
			Name:   "Loan Themes",
			Header: []string{schema.PartnerIDColumn, schema.LoanThemeNameColumn, schema.ReportingTagColumn, schema.ResearchRatingColumn},
		}
		for _, lt := range themes {
			themeSheet.Rows = append(themeSheet.Rows, []any{lt.PartnerID, lt.ThemeName, lt.ReportingTag, lt.ResearchRating})
		}
		countSheet := xlsxSheet{Name: "Research Ratings", Header: []string{schema.ResearchRatingColumn, "count"}}
		for _, c := range counts {
			countSheet.Rows = append(countSheet.Rows, []any{c.ResearchRating, c.Count})
		}
		return writeXLSX(cfg.OutputFile, []xlsxSheet{themeSheet, countSheet})
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLoanThemesTable(w, partnerID, themes, counts, cfg)
		}, "Wrote table")
	}
}

func writeLoanThemesTable(w io.Writer, partnerID int, themes []schema.LoanTheme, counts []schema.RatingCount, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "%sLoan themes for partner %d\n", headerPrefix(cfg, "🧵"), partnerID); err != nil {
		return err
	}
	tbl := tablewriter.NewWriter(w)
	tbl.Header([]string{schema.LoanThemeNameColumn, schema.ReportingTagColumn, schema.ResearchRatingColumn})
	data := make([][]string, 0, len(themes))
	for _, lt := range themes {
		data = append(data, []string{lt.ThemeName, lt.ReportingTag, lt.ResearchRating})
	}
	if err := tbl.Bulk(data); err != nil {
		return err
	}
	if err := tbl.Render(); err != nil {
		return err
	}

	countTbl := tablewriter.NewWriter(w)
	countTbl.Header([]string{schema.ResearchRatingColumn, "count"})
	countData := make([][]string, 0, len(counts))
	for _, c := range counts {
		countData = append(countData, []string{c.ResearchRating, strconv.Itoa(c.Count)})
	}
	if err := countTbl.Bulk(countData); err != nil {
		return err
	}
	return countTbl.Render()
}

func writeLoanThemesCSV(w io.Writer, themes []schema.LoanTheme) error {
	header := []string{schema.PartnerIDColumn, schema.LoanThemeNameColumn, schema.ReportingTagColumn, schema.ResearchRatingColumn}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, lt := range themes {
			if err := cw.Write([]string{strconv.Itoa(lt.PartnerID), lt.ThemeName, lt.ReportingTag, lt.ResearchRating}); err != nil {
				return err
			}
		}
		return nil
	})
}
