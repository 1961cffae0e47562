package core

import (
	"fmt"

	"github.com/huangsam/scorecard/schema"
)

// BuildReportCard gathers everything shown in one partner's report card:
// the name and stats line, then a summary, scoring table and pair of
// histograms for every component.
func BuildReportCard(table *schema.Table, partnerID int) (*schema.ReportCard, error) {
	name, err := PartnerName(table, partnerID)
	if err != nil {
		return nil, err
	}
	stats, err := PartnerStats(table, partnerID)
	if err != nil {
		return nil, err
	}
	rec, _ := table.Lookup(partnerID)
	region, _ := rec.Region()

	card := &schema.ReportCard{
		PartnerID:   partnerID,
		Name:        name,
		CompactName: schema.CompactName(name),
		Region:      region,
		Stats:       stats,
	}
	for _, c := range schema.AllComponents {
		section, err := buildSection(table, partnerID, string(c))
		if err != nil {
			return nil, fmt.Errorf("%s section: %w", c, err)
		}
		card.Sections = append(card.Sections, section)
	}
	return card, nil
}

func buildSection(table *schema.Table, partnerID int, component string) (schema.ReportSection, error) {
	var s schema.ReportSection
	var err error
	if s.Summary, err = ComponentSummary(table, partnerID, component); err != nil {
		return s, err
	}
	if s.Table, err = BuildScoringTable(table, partnerID, component); err != nil {
		return s, err
	}
	if s.AllHistogram, err = Histogram(table, partnerID, component, false); err != nil {
		return s, err
	}
	if s.RegionHistogram, err = Histogram(table, partnerID, component, true); err != nil {
		return s, err
	}
	return s, nil
}
