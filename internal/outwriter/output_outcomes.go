package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteOutcomeResults outputs the summary of a batch report run.
// Only text, CSV and JSON are offered; other formats fall back to text.
func WriteOutcomeResults(outcomes []schema.PartnerOutcome, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, outcomes)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeOutcomesCSV(w, outcomes, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile("", func(w io.Writer) error {
			return writeOutcomesTable(w, outcomes, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

func writeOutcomesTable(w io.Writer, outcomes []schema.PartnerOutcome, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	tbl := tablewriter.NewWriter(w)
	tbl.Header([]string{"ID", "Name", "Impact", "Percentile", "Label", "Status", "Report"})
	tbl.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})

	succeeded := 0
	nameWidth := GetMaxTableNameWidth(cfg, 2)
	data := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		detail := o.ReportPath
		pct := schema.FormatPercent(o.ImpactPct)
		lbl := label(cfg, o.ImpactPct)
		if o.Status == schema.SucceededStatus {
			succeeded++
		} else {
			detail = o.Error
			pct, lbl = "", ""
		}
		data = append(data, []string{
			strconv.Itoa(o.PartnerID),
			contract.TruncateName(o.PartnerName, nameWidth),
			fmtFloat(o.ImpactScore),
			pct,
			lbl,
			string(o.Status),
			detail,
		})
	}
	if err := tbl.Bulk(data); err != nil {
		return err
	}
	if err := tbl.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s%d of %d report cards written in %v. Ledger backend: %s\n",
		headerPrefix(cfg, "📝"), succeeded, len(outcomes), duration, cfg.LedgerBackend)
	return err
}

func writeOutcomesCSV(w io.Writer, outcomes []schema.PartnerOutcome, fmtFloat func(float64) string) error {
	header := []string{"partner_id", "partner_name", "region", "impact_score", "impact_pct", "status", "error", "report_path", "duration_ms"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, o := range outcomes {
			rec := []string{
				strconv.Itoa(o.PartnerID),
				o.PartnerName,
				o.Region,
				fmtFloat(o.ImpactScore),
				fmtFloat(o.ImpactPct),
				string(o.Status),
				o.Error,
				o.ReportPath,
				strconv.FormatInt(o.Duration.Milliseconds(), 10),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
