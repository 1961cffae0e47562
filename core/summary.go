package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/huangsam/scorecard/core/algo"
	"github.com/huangsam/scorecard/schema"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// componentTexts explains each component in the report card.
var componentTexts = map[schema.Component][]string{
	schema.ImpactComponent: {
		"The Impact Score is built on three subcomponent scores:",
		"The Targeting score (measuring how much we think a partner's clients need financial services),",
		"The Product score (measuring the impactfulness of the loans being offered),",
		"and the Process score (measuring the quality of a partner's operations and M&E system).",
	},
	schema.TargetingComponent: {
		"The Targeting Score measures how underserved the borrowers of the partner are, based on three components.",
		"The MPI Score measures the poverty level on a subnational level, accounting for the portion of a partner's portfolio in rural areas.",
		"The Findex Score measures the rate of account ownership and borrowing in the country.",
		"Finally, the Outreach Score measures the portion of borrowers in a variety of high-priority or frequently financially excluded groups.",
	},
	schema.ProductComponent: {
		"The Product Score measures how valuable we expect a partner's financial services to be to borrowers, given the evidence in our sector research page.",
		"This is mostly based on the Research Score, which measures the degree of research support for the reporting tags assigned to partners' loan themes.",
		"Some loan themes also get a Sector Score, which defines Kiva's broad sector-level priorities.",
	},
	schema.ProcessComponent: {
		"The Process Score evaluates how client-centric a partner's operations are, including the level of nuance in their M&E systems, the appropriateness of their MIS system, and subjective assessments of price fairness and transparency.",
		"(NOTE: The underlying data here is still being collected, so for now we report the old process scores).",
	},
}

var printer = message.NewPrinter(language.English)

// PartnerName returns the partner's name, falling back to the mapping's
// display name and then to a generic label.
func PartnerName(table *schema.Table, partnerID int) (string, error) {
	rec, ok := table.Lookup(partnerID)
	if !ok {
		return "", schema.PartnerNotFound(partnerID)
	}
	return recordName(rec), nil
}

func recordName(rec schema.PartnerRecord) string {
	if v, ok := rec.Attribute(schema.NameColumn); ok && v != "" {
		return v
	}
	if v, ok := rec.Attribute(schema.DisplayNameColumn); ok && v != "" {
		return v
	}
	return fmt.Sprintf("Partner %d", rec.PartnerID)
}

// ComponentSummary returns the headline and description for one component.
// Values are shown out of ten with one decimal.
func ComponentSummary(table *schema.Table, partnerID int, component string) (schema.ComponentSummary, error) {
	comp, err := schema.ParseComponent(component)
	if err != nil {
		return schema.ComponentSummary{}, err
	}
	rec, ok := table.Lookup(partnerID)
	if !ok {
		return schema.ComponentSummary{}, schema.PartnerNotFound(partnerID)
	}
	if !table.HasColumn(string(comp)) {
		return schema.ComponentSummary{}, schema.FieldNotFound(string(comp))
	}

	value := schema.Round(scoreOrNaN(rec, string(comp)), 1)
	median := schema.Round(algo.Median(table.Values(string(comp))), 1)
	return schema.ComponentSummary{
		Component: comp,
		Value:     value,
		Median:    median,
		Title:     fmt.Sprintf("%s Score: %s/10 (Median %s/10)", comp, formatTenths(value), formatTenths(median)),
		Text:      strings.Join(componentTexts[comp], "\n"),
	}, nil
}

func formatTenths(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", v)
}

// PartnerStats returns the one-line description of a partner shown under the report title.
func PartnerStats(table *schema.Table, partnerID int) (string, error) {
	rec, ok := table.Lookup(partnerID)
	if !ok {
		return "", schema.PartnerNotFound(partnerID)
	}
	country, ok := rec.Attribute(schema.CountryColumn)
	if !ok {
		country = "an unknown country"
	}
	volume := "n/a"
	if v, ok := rec.Score(schema.VolumeColumn); ok {
		volume = printer.Sprintf("%.0f", schema.Round(v, 0))
	}
	return fmt.Sprintf("%s is a Kiva field partner in %s with $%s in volume funded over the past 18 months.",
		recordName(rec), country, volume), nil
}

// Histogram returns the distribution of a component across all partners, or
// across the partner's region when regional is set, with the partner's own
// value marked. A partner without a region gets an empty regional distribution.
func Histogram(table *schema.Table, partnerID int, component string, regional bool) (schema.HistogramData, error) {
	comp, err := schema.ParseComponent(component)
	if err != nil {
		return schema.HistogramData{}, err
	}
	rec, ok := table.Lookup(partnerID)
	if !ok {
		return schema.HistogramData{}, schema.PartnerNotFound(partnerID)
	}
	if !table.HasColumn(string(comp)) {
		return schema.HistogramData{}, schema.FieldNotFound(string(comp))
	}

	title := fmt.Sprintf("%s Score Distribution for all partners", comp)
	population := table
	if regional {
		region, hasRegion := rec.Region()
		if !hasRegion {
			region = "an unknown region"
			population = schema.NewTable(table.Columns...)
		} else {
			population = inRegion(table, region)
		}
		title += " in " + region
	}

	data := schema.HistogramData{
		Title:     fmt.Sprintf("%s's place in the %s", recordName(rec), title),
		Component: string(comp),
		Values:    population.Values(string(comp)),
	}
	if v, ok := rec.Score(string(comp)); ok {
		data.Marker = v
		data.HasMarker = true
	}
	return data, nil
}
