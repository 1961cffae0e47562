// Package parquet provides data structures and functions for exporting scorecard
// rankings, scoring tables and ledger data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/huangsam/scorecard/schema"
	"github.com/parquet-go/parquet-go"
)

// ReportRun represents a single batch report run with metadata.
// This struct maps to the scorecard_report_runs database table.
type ReportRun struct {
	RunID             int64      `parquet:"run_id,snappy"`
	StartTime         time.Time  `parquet:"start_time,snappy"`
	EndTime           *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs     *int32     `parquet:"run_duration_ms,optional,snappy"`
	PartnersRequested int32      `parquet:"partners_requested,snappy"`
	PartnersSucceeded int32      `parquet:"partners_succeeded,snappy"`
	ConfigParams      *string    `parquet:"config_params,optional,snappy"` // JSON-encoded
}

// PartnerOutcome represents the result of one partner's report card in a run.
// This struct maps to the scorecard_partner_outcomes database table.
type PartnerOutcome struct {
	RunID        int64     `parquet:"run_id,snappy"`
	PartnerID    int32     `parquet:"partner_id,snappy"`
	PartnerName  string    `parquet:"partner_name,snappy"`
	Region       *string   `parquet:"region,optional,snappy"`
	ImpactScore  *float64  `parquet:"impact_score,optional,snappy"`
	ImpactPct    *float64  `parquet:"impact_pct,optional,snappy"`
	Status       string    `parquet:"status,snappy"`
	ErrorMessage *string   `parquet:"error_message,optional,snappy"`
	ReportPath   *string   `parquet:"report_path,optional,snappy"`
	RecordedAt   time.Time `parquet:"recorded_at,snappy"`
}

// PartnerScore is one (partner, field) cell of a ranking in long format,
// so that any set of ranked fields fits a fixed schema.
type PartnerScore struct {
	PartnerID int32    `parquet:"partner_id,snappy"`
	Name      *string  `parquet:"name,optional,snappy"`
	Region    *string  `parquet:"region,optional,snappy"`
	Field     string   `parquet:"field,snappy"`
	Value     *float64 `parquet:"value,optional,snappy"`
	Pct       *float64 `parquet:"pct,optional,snappy"`
	RegionPct *float64 `parquet:"region_pct,optional,snappy"`
}

// ScoringRow is one sub-component line of a partner's scoring table.
type ScoringRow struct {
	PartnerID        int32    `parquet:"partner_id,snappy"`
	Component        string   `parquet:"component,snappy"`
	SubComponent     string   `parquet:"sub_component,snappy"`
	Score            *float64 `parquet:"score,optional,snappy"`
	MedianAll        *float64 `parquet:"median_all,optional,snappy"`
	PercentileAll    string   `parquet:"percentile_all,snappy"`
	RegionCode       *string  `parquet:"region_code,optional,snappy"`
	MedianRegion     *float64 `parquet:"median_region,optional,snappy"`
	PercentileRegion *string  `parquet:"percentile_region,optional,snappy"`
}

// writeParquet writes a slice of rows to a Parquet file, inferring the schema from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// WriteReportRunsParquet writes report runs to a Parquet file.
func WriteReportRunsParquet(data []ReportRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WritePartnerOutcomesParquet writes partner outcomes to a Parquet file.
func WritePartnerOutcomesParquet(data []PartnerOutcome, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WritePartnerScoresParquet writes ranking cells to a Parquet file.
func WritePartnerScoresParquet(data []PartnerScore, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteScoringRowsParquet writes scoring table rows to a Parquet file.
func WriteScoringRowsParquet(data []ScoringRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertReportRunRecords converts schema.ReportRunRecord to ReportRun for Parquet export.
func ConvertReportRunRecords(records []schema.ReportRunRecord) []ReportRun {
	result := make([]ReportRun, len(records))
	for i, record := range records {
		result[i] = ReportRun{
			RunID:             record.RunID,
			StartTime:         record.StartTime,
			EndTime:           record.EndTime,
			RunDurationMs:     record.RunDurationMs,
			PartnersRequested: record.PartnersRequested,
			PartnersSucceeded: record.PartnersSucceeded,
			ConfigParams:      record.ConfigParams,
		}
	}
	return result
}

// ConvertPartnerOutcomeRecords converts schema.PartnerOutcomeRecord to PartnerOutcome for Parquet export.
func ConvertPartnerOutcomeRecords(records []schema.PartnerOutcomeRecord) []PartnerOutcome {
	result := make([]PartnerOutcome, len(records))
	for i, record := range records {
		result[i] = PartnerOutcome{
			RunID:        record.RunID,
			PartnerID:    record.PartnerID,
			PartnerName:  record.PartnerName,
			Region:       record.Region,
			ImpactScore:  record.ImpactScore,
			ImpactPct:    record.ImpactPct,
			Status:       record.Status,
			ErrorMessage: record.ErrorMessage,
			ReportPath:   record.ReportPath,
			RecordedAt:   record.RecordedAt,
		}
	}
	return result
}

// ConvertRanking flattens a ranking table into one row per partner and field.
func ConvertRanking(table *schema.Table, fields []string) []PartnerScore {
	result := make([]PartnerScore, 0, table.Len()*len(fields))
	for _, rec := range table.Records {
		name := optionalString(rec.Attributes[schema.NameColumn])
		region := optionalString(rec.Attributes[schema.RegionColumn])
		for _, f := range fields {
			result = append(result, PartnerScore{
				PartnerID: int32(rec.PartnerID),
				Name:      name,
				Region:    region,
				Field:     f,
				Value:     optionalScore(rec, f),
				Pct:       optionalScore(rec, schema.PctColumn(f)),
				RegionPct: optionalScore(rec, schema.RegionPctColumn(f)),
			})
		}
	}
	return result
}

// ConvertScoringTables flattens scoring tables into one row per sub-component.
func ConvertScoringTables(tables []*schema.ScoringTable) []ScoringRow {
	var result []ScoringRow
	for _, st := range tables {
		for _, row := range st.Rows {
			out := ScoringRow{
				PartnerID:     int32(st.PartnerID),
				Component:     string(st.Component),
				SubComponent:  row.Component,
				Score:         optionalFloat(row.Score),
				MedianAll:     optionalFloat(row.MedianAll),
				PercentileAll: row.PercentileAll,
			}
			if st.HasRegion {
				label := st.RegionLabel()
				pct := row.PercentileRegion
				out.RegionCode = &label
				out.MedianRegion = optionalFloat(row.MedianRegion)
				out.PercentileRegion = &pct
			}
			result = append(result, out)
		}
	}
	return result
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func optionalScore(rec schema.PartnerRecord, column string) *float64 {
	v, ok := rec.Score(column)
	if !ok {
		return nil
	}
	return &v
}
