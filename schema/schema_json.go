package schema

import (
	"encoding/json"
	"math"
)

// nullable returns nil for NaN so that JSON encoding succeeds.
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MarshalJSON encodes missing numbers as null.
func (r ScoringRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Component        string   `json:"component"`
		Score            *float64 `json:"score"`
		MedianAll        *float64 `json:"median_all"`
		PercentileAll    string   `json:"percentile_all"`
		MedianRegion     *float64 `json:"median_region,omitempty"`
		PercentileRegion string   `json:"percentile_region,omitempty"`
	}{
		Component:        r.Component,
		Score:            nullable(r.Score),
		MedianAll:        nullable(r.MedianAll),
		PercentileAll:    r.PercentileAll,
		MedianRegion:     nullable(r.MedianRegion),
		PercentileRegion: r.PercentileRegion,
	})
}

// MarshalJSON encodes missing numbers as null.
func (s ComponentSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Component Component `json:"component"`
		Value     *float64  `json:"value"`
		Median    *float64  `json:"median"`
		Title     string    `json:"title"`
		Text      string    `json:"text"`
	}{
		Component: s.Component,
		Value:     nullable(s.Value),
		Median:    nullable(s.Median),
		Title:     s.Title,
		Text:      s.Text,
	})
}

// MarshalJSON encodes missing numbers as null.
func (o PartnerOutcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PartnerID   int           `json:"partner_id"`
		PartnerName string        `json:"partner_name"`
		Region      string        `json:"region,omitempty"`
		ImpactScore *float64      `json:"impact_score"`
		ImpactPct   *float64      `json:"impact_pct"`
		Status      OutcomeStatus `json:"status"`
		Error       string        `json:"error,omitempty"`
		ReportPath  string        `json:"report_path,omitempty"`
		DurationMs  int64         `json:"duration_ms"`
	}{
		PartnerID:   o.PartnerID,
		PartnerName: o.PartnerName,
		Region:      o.Region,
		ImpactScore: nullable(o.ImpactScore),
		ImpactPct:   nullable(o.ImpactPct),
		Status:      o.Status,
		Error:       o.Error,
		ReportPath:  o.ReportPath,
		DurationMs:  o.Duration.Milliseconds(),
	})
}
