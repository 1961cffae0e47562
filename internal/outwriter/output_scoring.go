package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/internal/parquet"
	"github.com/huangsam/scorecard/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// scoringCSVHeader lists the long-format columns of scoring table exports.
var scoringCSVHeader = []string{
	"partner_id",
	"component",
	"sub_component",
	"score",
	"median_all",
	"percentile_all",
	"region_code",
	"median_region",
	"percentile_region",
}

// WriteScoringResults outputs scoring tables, dispatching on the configured format.
func WriteScoringResults(tables []*schema.ScoringTable, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, tables)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoringCSV(w, tables, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteScoringRowsParquet(parquet.ConvertScoringTables(tables), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		return nil
	case schema.XLSXOut:
		sheets := make([]xlsxSheet, 0, len(tables))
		for _, st := range tables {
			sheets = append(sheets, scoringSheet(st))
		}
		return writeXLSX(cfg.OutputFile, sheets)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			for _, st := range tables {
				if err := writeScoringTable(w, st, cfg, fmtFloat); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintf(w, "Scoring completed in %v for %d tables\n", duration, len(tables))
			return err
		}, "Wrote table")
	}
}

// writeScoringTable renders one scoring table with a title line.
func writeScoringTable(w io.Writer, st *schema.ScoringTable, cfg *contract.Config, fmtFloat func(float64) string) error {
	title := fmt.Sprintf("%sPartner %d: %s", headerPrefix(cfg, "🎯"), st.PartnerID, st.Component)
	if st.HasRegion {
		title += fmt.Sprintf(" (%s)", st.Region)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	tbl := tablewriter.NewWriter(w)
	tbl.Header(st.Headers())
	tbl.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(st.Rows))
	for _, row := range st.Rows {
		line := []string{row.Component, fmtFloat(row.Score), fmtFloat(row.MedianAll), row.PercentileAll}
		if st.HasRegion {
			line = append(line, fmtFloat(row.MedianRegion), row.PercentileRegion)
		}
		data = append(data, line)
	}
	if err := tbl.Bulk(data); err != nil {
		return err
	}
	return tbl.Render()
}

// writeScoringCSV writes all tables in long format, one row per sub-component.
func writeScoringCSV(w io.Writer, tables []*schema.ScoringTable, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, scoringCSVHeader, func(cw *csv.Writer) error {
		for _, st := range tables {
			for _, row := range st.Rows {
				rec := []string{
					strconv.Itoa(st.PartnerID),
					string(st.Component),
					row.Component,
					fmtFloat(row.Score),
					fmtFloat(row.MedianAll),
					row.PercentileAll,
					"", "", "",
				}
				if st.HasRegion {
					rec[6] = st.RegionLabel()
					rec[7] = fmtFloat(row.MedianRegion)
					rec[8] = row.PercentileRegion
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// scoringSheet lays one scoring table out as a worksheet named after the partner and component.
func scoringSheet(st *schema.ScoringTable) xlsxSheet {
	sheet := xlsxSheet{
		Name:   fmt.Sprintf("%d %s", st.PartnerID, st.Component),
		Header: st.Headers(),
	}
	for _, row := range st.Rows {
		line := []any{row.Component, row.Score, row.MedianAll, row.PercentileAll}
		if st.HasRegion {
			line = append(line, row.MedianRegion, row.PercentileRegion)
		}
		sheet.Rows = append(sheet.Rows, line)
	}
	return sheet
}
