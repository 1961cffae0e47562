package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

// rankedTable returns a two-partner ranking over the Impact field.
func rankedTable() *schema.Table {
	table := schema.NewTable("Name", "Impact", schema.RegionColumn, "Impact pct", "Impact region pct")
	a := schema.NewPartnerRecord(202)
	a.Attributes["Name"] = "Alpha Finance"
	a.Attributes[schema.RegionColumn] = "South Asia"
	a.Scores["Impact"] = 7.5
	a.Scores["Impact pct"] = 1
	a.Scores["Impact region pct"] = 1
	b := schema.NewPartnerRecord(386)
	b.Attributes["Name"] = "Beta, Credit"
	b.Scores["Impact"] = 3
	b.Scores["Impact pct"] = 0.5
	table.Append(a)
	table.Append(b)
	return table
}

func scoringTables() []*schema.ScoringTable {
	return []*schema.ScoringTable{
		{
			PartnerID:  202,
			Component:  schema.ProcessComponent,
			Region:     "South Asia",
			RegionCode: "S. Asia",
			HasRegion:  true,
			Rows:       []schema.ScoringRow{{Component: "Process", Score: 4.5, MedianAll: 4, PercentileAll: "75.0%", MedianRegion: 4.25, PercentileRegion: "50.0%"}},
		},
		{
			PartnerID: 386,
			Component: schema.ProcessComponent,
			Rows:      []schema.ScoringRow{{Component: "Process", Score: math.NaN(), MedianAll: 4, PercentileAll: "n/a", MedianRegion: math.NaN()}},
		},
	}
}

func testConfig(output schema.OutputMode, file string) *contract.Config {
	return &contract.Config{Output: output, OutputFile: file, Precision: 2, Width: 200}
}

func TestCreateFormatter(t *testing.T) {
	assert.Equal(t, "3.14", createFormatter(2)(3.14159))
	assert.Equal(t, "3.1416", createFormatter(4)(3.14159))
	assert.Equal(t, "-42.6", createFormatter(1)(-42.567))
	assert.Equal(t, "", createFormatter(2)(math.NaN()))
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"name", "note"}, func(w *csv.Writer) error {
		return w.Write([]string{"Alpha", "a, b"})
	})
	require.NoError(t, err)
	assert.Equal(t, "name,note\nAlpha,\"a, b\"\n", buf.String())

	err = writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error { return assert.AnError })
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(tmpFile, func(w io.Writer) error {
		_, err := w.Write([]byte("scorecard"))
		return err
	}, "Wrote text")
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "scorecard", string(content))

	err = writeWithFile("/nonexistent/dir/out.txt", func(io.Writer) error { return nil }, "Wrote text")
	assert.Error(t, err)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Ranking", sheetName("Ranking"))
	assert.Len(t, []rune(sheetName(strings.Repeat("x", 40))), 31)
}

func TestGetMaxTableNameWidth(t *testing.T) {
	assert.Equal(t, 40, GetMaxTableNameWidth(&contract.Config{Width: 300}, 1))
	assert.Equal(t, 12, GetMaxTableNameWidth(&contract.Config{Width: 60}, 9))
	assert.Equal(t, 24, GetMaxTableNameWidth(&contract.Config{Width: 80}, 1))
}

func TestWriteRankingTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(schema.TextOut, "")
	err := writeRankingTable(&buf, rankedTable(), []string{"Impact"}, cfg, createFormatter(2), time.Second)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Alpha Finance")
	assert.Contains(t, out, "S. Asia")
	assert.Contains(t, out, "7.50 (100.0%)")
	assert.Contains(t, out, contract.LeadingValue)
	assert.Contains(t, out, "Showing 2 partners ranked on 1 fields")
}

func TestWriteRankingCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRankingCSV(&buf, rankedTable(), createFormatter(2)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Partner ID", "Name", "Impact", schema.RegionColumn, "Impact pct", "Impact region pct"}, records[0])
	assert.Equal(t, []string{"202", "Alpha Finance", "7.50", "South Asia", "1.00", "1.00"}, records[1])
	assert.Equal(t, []string{"386", "Beta, Credit", "3.00", "", "0.50", ""}, records[2])
}

func TestWriteRankingJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRankingJSON(&buf, rankedTable(), []string{"Impact"}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, float64(1), decoded[0]["rank"])
	assert.Equal(t, float64(202), decoded[0]["partner_id"])
	labels := decoded[1]["labels"].(map[string]any)
	assert.Equal(t, contract.AboveMedianValue, labels["Impact"])
}

func TestWriteRankingResultsFiles(t *testing.T) {
	dir := t.TempDir()

	parquetPath := filepath.Join(dir, "ranking.parquet")
	require.NoError(t, WriteRankingResults(rankedTable(), []string{"Impact"}, testConfig(schema.ParquetOut, parquetPath), 0))
	info, err := os.Stat(parquetPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	xlsxPath := filepath.Join(dir, "ranking.xlsx")
	require.NoError(t, WriteRankingResults(rankedTable(), []string{"Impact"}, testConfig(schema.XLSXOut, xlsxPath), 0))
	f, err := xlsx.OpenFile(xlsxPath)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	assert.Equal(t, "Ranking", f.Sheets[0].Name)
	assert.Len(t, f.Sheets[0].Rows, 3)
	assert.Equal(t, "Alpha Finance", f.Sheets[0].Rows[1].Cells[1].String())

	csvPath := filepath.Join(dir, "ranking.csv")
	require.NoError(t, WriteRankingResults(rankedTable(), []string{"Impact"}, testConfig(schema.CSVOut, csvPath), 0))
	content, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "Partner ID,Name,Impact"))
}

func TestWriteScoringTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(schema.TextOut, "")
	for _, st := range scoringTables() {
		require.NoError(t, writeScoringTable(&buf, st, cfg, createFormatter(2)))
	}
	out := buf.String()
	assert.Contains(t, out, "Partner 202: Process (South Asia)")
	assert.Contains(t, out, "4.25")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "Partner 386: Process\n")
}

func TestWriteScoringCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeScoringCSV(&buf, scoringTables(), createFormatter(2)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, scoringCSVHeader, records[0])
	assert.Equal(t, []string{"202", "Process", "Process", "4.50", "4.00", "75.0%", "S. Asia", "4.25", "50.0%"}, records[1])
	assert.Equal(t, []string{"386", "Process", "Process", "", "4.00", "n/a", "", "", ""}, records[2])
}

func TestWriteScoringResultsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.json")
	require.NoError(t, WriteScoringResults(scoringTables(), testConfig(schema.JSONOut, path), 0))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(content, &decoded))
	require.Len(t, decoded, 2)
	rows := decoded[1]["rows"].([]any)
	row := rows[0].(map[string]any)
	assert.Nil(t, row["score"], "missing scores encode as null")
	_, hasRegional := row["median_region"]
	assert.False(t, hasRegional)
}

func TestWriteScoringResultsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.xlsx")
	require.NoError(t, WriteScoringResults(scoringTables(), testConfig(schema.XLSXOut, path), 0))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)
	assert.Equal(t, "202 Process", f.Sheets[0].Name)
	assert.Len(t, f.Sheets[0].Rows[0].Cells, 6)
	assert.Len(t, f.Sheets[1].Rows[0].Cells, 4)
}

func TestWriteLoanThemes(t *testing.T) {
	themes := []schema.LoanTheme{{PartnerID: 202, ThemeType: "General", ThemeName: "Agriculture", ReportingTag: "#Farming", ResearchRating: "High"}}
	counts := []schema.RatingCount{{ResearchRating: "High", Count: 1}}

	var buf bytes.Buffer
	require.NoError(t, writeLoanThemesTable(&buf, 202, themes, counts, testConfig(schema.TextOut, "")))
	assert.Contains(t, buf.String(), "Loan themes for partner 202")
	assert.Contains(t, buf.String(), "#Farming")

	buf.Reset()
	require.NoError(t, writeLoanThemesCSV(&buf, themes))
	assert.Equal(t, "Partner ID,Loan Theme Name,Reporting Tag,Research Rating\n202,Agriculture,#Farming,High\n", buf.String())
}

func TestWriteOutcomes(t *testing.T) {
	outcomes := []schema.PartnerOutcome{
		{PartnerID: 202, PartnerName: "Alpha", ImpactScore: 7.5, ImpactPct: 0.9, Status: schema.SucceededStatus, ReportPath: "PartnerReports/Alpha.html"},
		{PartnerID: 999, ImpactScore: math.NaN(), ImpactPct: math.NaN(), Status: schema.FailedStatus, Error: "partner not found: 999"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeOutcomesTable(&buf, outcomes, testConfig(schema.TextOut, ""), createFormatter(2), time.Second))
	assert.Contains(t, buf.String(), "1 of 2 report cards written")
	assert.Contains(t, buf.String(), "partner not found: 999")

	buf.Reset()
	require.NoError(t, writeOutcomesCSV(&buf, outcomes, createFormatter(2)))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "", records[2][3])

	buf.Reset()
	require.NoError(t, writeJSON(&buf, outcomes))
	assert.Contains(t, buf.String(), `"impact_score": null`)
}
