package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/scorecard/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{
			name:    "report run",
			model:   new(ReportRun),
			columns: []string{"run_id", "start_time", "end_time", "run_duration_ms", "partners_requested", "partners_succeeded", "config_params"},
		},
		{
			name:    "partner outcome",
			model:   new(PartnerOutcome),
			columns: []string{"run_id", "partner_id", "partner_name", "region", "impact_score", "impact_pct", "status", "error_message", "report_path", "recorded_at"},
		},
		{
			name:    "partner score",
			model:   new(PartnerScore),
			columns: []string{"partner_id", "name", "region", "field", "value", "pct", "region_pct"},
		},
		{
			name:    "scoring row",
			model:   new(ScoringRow),
			columns: []string{"partner_id", "component", "sub_component", "score", "median_all", "percentile_all", "region_code", "median_region", "percentile_region"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, colName := range tt.columns {
				_, ok := s.Lookup(colName)
				assert.True(t, ok, "Column %s should exist in schema", colName)
			}
		})
	}
}

// readAll reads back every row of a Parquet file.
func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestWriteReportRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	end := time.Now().UTC()
	start := end.Add(-time.Minute)
	duration := int32(60000)
	params := `{"partners":[202]}`

	data := []ReportRun{
		{RunID: 1, StartTime: start, EndTime: &end, RunDurationMs: &duration, PartnersRequested: 5, PartnersSucceeded: 4, ConfigParams: &params},
		{RunID: 2, StartTime: start, PartnersRequested: 1},
	}
	require.NoError(t, WriteReportRunsParquet(data, outputPath))

	got := readAll[ReportRun](t, outputPath)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].RunID)
	assert.Equal(t, int32(4), got[0].PartnersSucceeded)
	require.NotNil(t, got[0].EndTime)
	assert.WithinDuration(t, end, *got[0].EndTime, time.Microsecond)
	assert.Nil(t, got[1].EndTime)
	assert.Nil(t, got[1].ConfigParams)
}

func TestConvertRanking(t *testing.T) {
	table := schema.NewTable("Name", "Impact", schema.RegionColumn, "Impact pct", "Impact region pct")
	r1 := schema.NewPartnerRecord(202)
	r1.Attributes["Name"] = "Alpha"
	r1.Attributes[schema.RegionColumn] = "South Asia"
	r1.Scores["Impact"] = 7
	r1.Scores["Impact pct"] = 1
	r1.Scores["Impact region pct"] = 1
	r2 := schema.NewPartnerRecord(386)
	table.Append(r1)
	table.Append(r2)

	rows := ConvertRanking(table, []string{"Impact"})
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Name)
	assert.Equal(t, "Alpha", *rows[0].Name)
	require.NotNil(t, rows[0].Pct)
	assert.InDelta(t, 1.0, *rows[0].Pct, 1e-9)
	assert.Nil(t, rows[1].Value)
	assert.Nil(t, rows[1].Region)

	outputPath := filepath.Join(t.TempDir(), "ranking.parquet")
	require.NoError(t, WritePartnerScoresParquet(rows, outputPath))
	got := readAll[PartnerScore](t, outputPath)
	assert.Len(t, got, 2)
}

func TestConvertScoringTables(t *testing.T) {
	st := &schema.ScoringTable{
		PartnerID: 202,
		Component: schema.ProcessComponent,
		HasRegion: true,
		Rows: []schema.ScoringRow{
			{Component: "Process", Score: 4.5, MedianAll: 4, PercentileAll: "60.0%", MedianRegion: 5, PercentileRegion: "33.3%"},
		},
	}
	noRegion := &schema.ScoringTable{
		PartnerID: 386,
		Component: schema.ProcessComponent,
		Rows:      []schema.ScoringRow{{Component: "Process", Score: 3, MedianAll: 4, PercentileAll: "20.0%"}},
	}

	rows := ConvertScoringTables([]*schema.ScoringTable{st, noRegion})
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].RegionCode)
	assert.Equal(t, "n/a", *rows[0].RegionCode)
	assert.Equal(t, "33.3%", *rows[0].PercentileRegion)
	assert.Nil(t, rows[1].MedianRegion)
	assert.Nil(t, rows[1].PercentileRegion)

	outputPath := filepath.Join(t.TempDir(), "scoring.parquet")
	require.NoError(t, WriteScoringRowsParquet(rows, outputPath))
	assert.Len(t, readAll[ScoringRow](t, outputPath), 2)
}

func TestConvertLedgerRecords(t *testing.T) {
	now := time.Now()
	runs := ConvertReportRunRecords([]schema.ReportRunRecord{{RunID: 3, StartTime: now, PartnersRequested: 2}})
	require.Len(t, runs, 1)
	assert.Equal(t, int64(3), runs[0].RunID)

	msg := "partner not found"
	outcomes := ConvertPartnerOutcomeRecords([]schema.PartnerOutcomeRecord{{RunID: 3, PartnerID: 9, Status: "failed", ErrorMessage: &msg, RecordedAt: now}})
	require.Len(t, outcomes, 1)
	assert.Equal(t, "failed", outcomes[0].Status)
	assert.Equal(t, &msg, outcomes[0].ErrorMessage)

	outputPath := filepath.Join(t.TempDir(), "outcomes.parquet")
	require.NoError(t, WritePartnerOutcomesParquet(outcomes, outputPath))
	assert.Len(t, readAll[PartnerOutcome](t, outputPath), 1)
}
