package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/internal/parquet"
	"github.com/huangsam/scorecard/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteRankingResults outputs the enriched partner table, dispatching on the configured format.
// Records are written in the order given.
func WriteRankingResults(table *schema.Table, fields []string, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingJSON(w, table, fields)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingCSV(w, table, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WritePartnerScoresParquet(parquet.ConvertRanking(table, fields), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		return nil
	case schema.XLSXOut:
		return writeXLSX(cfg.OutputFile, []xlsxSheet{rankingSheet(table)})
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingTable(w, table, fields, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// writeRankingTable generates and writes the human-readable ranking table.
// Each field cell shows the raw value followed by the global percentile.
func writeRankingTable(w io.Writer, table *schema.Table, fields []string, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	tbl := tablewriter.NewWriter(w)

	headers := []string{"Rank", "ID", "Name", "Region"}
	headers = append(headers, fields...)
	headers = append(headers, "Label")
	tbl.Header(headers)
	tbl.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg, len(fields))
	var data [][]string
	for i, rec := range table.Records {
		region, _ := rec.Region()
		code := schema.RegionCodes[region]
		if code == "" && region != "" {
			code = region
		}
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(rec.PartnerID),
			contract.TruncateName(rec.Attributes[schema.NameColumn], nameWidth),
			code,
		}
		for _, f := range fields {
			row = append(row, formatScoreCell(rec, f, fmtFloat))
		}
		lead := math.NaN()
		if len(fields) > 0 {
			lead = scoreOrNaN(rec, schema.PctColumn(fields[0]))
		}
		row = append(row, label(cfg, lead))
		data = append(data, row)
	}

	if err := tbl.Bulk(data); err != nil {
		return err
	}
	if err := tbl.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%sShowing %d partners ranked on %d fields\n", headerPrefix(cfg, "📊"), table.Len(), len(fields)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Ranking completed in %v. Ledger backend: %s\n", duration, cfg.LedgerBackend); err != nil {
		return err
	}
	return nil
}

// formatScoreCell renders "value (pct)" for one field of a record.
func formatScoreCell(rec schema.PartnerRecord, field string, fmtFloat func(float64) string) string {
	v, ok := rec.Score(field)
	if !ok {
		return "-"
	}
	pct, ok := rec.Score(schema.PctColumn(field))
	if !ok {
		return fmtFloat(v)
	}
	return fmt.Sprintf("%s (%s)", fmtFloat(v), schema.FormatPercent(pct))
}

// writeRankingCSV writes every column of the table, partner identifier first.
func writeRankingCSV(w io.Writer, table *schema.Table, fmtFloat func(float64) string) error {
	header := append([]string{schema.PartnerIDColumn}, table.Columns...)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, rec := range table.Records {
			row := make([]string, 0, len(header))
			row = append(row, strconv.Itoa(rec.PartnerID))
			for _, c := range table.Columns {
				if v, ok := rec.Scores[c]; ok {
					row = append(row, fmtFloat(v))
				} else {
					row = append(row, rec.Attributes[c])
				}
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeRankingJSON writes one object per partner with a label for each ranked field.
func writeRankingJSON(w io.Writer, table *schema.Table, fields []string) error {
	type JSONPartnerResult struct {
		Rank   int               `json:"rank"`
		Labels map[string]string `json:"labels"`
		schema.PartnerRecord
	}

	output := make([]JSONPartnerResult, len(table.Records))
	for i, rec := range table.Records {
		labels := make(map[string]string, len(fields))
		for _, f := range fields {
			labels[f] = contract.GetPlainLabel(scoreOrNaN(rec, schema.PctColumn(f)))
		}
		output[i] = JSONPartnerResult{Rank: i + 1, Labels: labels, PartnerRecord: rec}
	}
	return writeJSON(w, output)
}

// rankingSheet lays the table out as a worksheet.
func rankingSheet(table *schema.Table) xlsxSheet {
	sheet := xlsxSheet{
		Name:   "Ranking",
		Header: append([]string{schema.PartnerIDColumn}, table.Columns...),
	}
	for _, rec := range table.Records {
		row := []any{rec.PartnerID}
		for _, c := range table.Columns {
			if v, ok := rec.Scores[c]; ok {
				row = append(row, v)
			} else {
				row = append(row, rec.Attributes[c])
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

func scoreOrNaN(rec schema.PartnerRecord, column string) float64 {
	if v, ok := rec.Score(column); ok {
		return v
	}
	return math.NaN()
}
