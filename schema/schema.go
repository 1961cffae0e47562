// Package schema has configs, models and constants for all parts of scorecard.
package schema

import (
	"maps"
	"time"
)

// PartnerRecord is one row of the partner metric table.
// A column that is blank in the source file is absent from both maps.
type PartnerRecord struct {
	PartnerID  int                `json:"partner_id"`
	Scores     map[string]float64 `json:"scores"`     // Numeric columns, including derived percentile columns
	Attributes map[string]string  `json:"attributes"` // Text columns such as name, country and region
}

// NewPartnerRecord returns an empty record for the given partner.
func NewPartnerRecord(partnerID int) PartnerRecord {
	return PartnerRecord{
		PartnerID:  partnerID,
		Scores:     make(map[string]float64),
		Attributes: make(map[string]string),
	}
}

// Score returns a numeric column value and whether it is present.
func (r PartnerRecord) Score(column string) (float64, bool) {
	v, ok := r.Scores[column]
	return v, ok
}

// Attribute returns a text column value and whether it is present.
func (r PartnerRecord) Attribute(column string) (string, bool) {
	v, ok := r.Attributes[column]
	return v, ok
}

// Region returns the partner's region label and whether it is known.
func (r PartnerRecord) Region() (string, bool) {
	v, ok := r.Attributes[RegionColumn]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Clone returns a deep copy of the record.
func (r PartnerRecord) Clone() PartnerRecord {
	return PartnerRecord{
		PartnerID:  r.PartnerID,
		Scores:     maps.Clone(r.Scores),
		Attributes: maps.Clone(r.Attributes),
	}
}

// LoanTheme is one (partner, loan theme) row of the loan theme file.
type LoanTheme struct {
	PartnerID      int    `json:"partner_id"`
	ThemeType      string `json:"loan_theme_type"`
	ThemeName      string `json:"loan_theme_name"`
	ReportingTag   string `json:"reporting_tag"`
	ResearchRating string `json:"research_rating"`
}

// RatingCount is the number of a partner's loan themes with a given research rating.
type RatingCount struct {
	ResearchRating string `json:"research_rating"`
	Count          int    `json:"count"`
}

// PartnerOutcome captures the result of generating one partner's report card.
type PartnerOutcome struct {
	PartnerID   int           `json:"partner_id"`
	PartnerName string        `json:"partner_name"`
	Region      string        `json:"region"`
	ImpactScore float64       `json:"impact_score"`
	ImpactPct   float64       `json:"impact_pct"`
	Status      OutcomeStatus `json:"status"`
	Error       string        `json:"error,omitempty"`
	ReportPath  string        `json:"report_path,omitempty"`
	Duration    time.Duration `json:"duration"`
}
