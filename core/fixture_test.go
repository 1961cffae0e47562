package core

import (
	"testing"

	"github.com/huangsam/scorecard/internal/dataset"
	"github.com/huangsam/scorecard/schema"
	"github.com/stretchr/testify/require"
)

// partnerRow describes one population row of the shared test fixture.
// Every ranked field gets the same base value.
type partnerRow struct {
	id      int
	name    string
	country string
	base    float64
}

var fixturePartners = []partnerRow{
	{1, "Alpha Finance", "India", 2},
	{2, "Beta Credit", "Nepal", 4},
	{3, "Gamma Microfinance", "India", 6},
	{4, "Delta Savings", "Kenya", 8},
	{5, "Epsilon Loans", "Uganda", 5},
	{6, "Zeta Fund", "Peru", 3},
}

// fixtureRegions maps partners 1-5 and a mapping-only partner 7; partner 6 is unmapped.
var fixtureRegions = map[int]string{
	1: "South Asia",
	2: "South Asia",
	3: "South Asia",
	4: "Sub-Saharan Africa",
	5: "Sub-Saharan Africa",
	7: "South America",
}

func newPopulation() *schema.Table {
	cols := []string{schema.NameColumn, schema.CountryColumn, schema.VolumeColumn}
	cols = append(cols, schema.DefaultRankFields...)
	table := schema.NewTable(cols...)
	for _, p := range fixturePartners {
		r := schema.NewPartnerRecord(p.id)
		r.Attributes[schema.NameColumn] = p.name
		r.Attributes[schema.CountryColumn] = p.country
		r.Scores[schema.VolumeColumn] = 1000*p.base + 345.6
		for _, f := range schema.DefaultRankFields {
			r.Scores[f] = p.base
		}
		table.Append(r)
	}
	return table
}

func newMapping() *schema.Table {
	table := schema.NewTable(schema.RegionColumn, schema.DisplayNameColumn)
	for id := 1; id <= 7; id++ {
		region, ok := fixtureRegions[id]
		if !ok {
			continue
		}
		r := schema.NewPartnerRecord(id)
		r.Attributes[schema.RegionColumn] = region
		if id == 7 {
			r.Attributes[schema.DisplayNameColumn] = "Seven MFI"
		}
		table.Append(r)
	}
	return table
}

// newRanking returns the collapsed ranking of the shared fixture.
func newRanking(t *testing.T) *schema.Table {
	t.Helper()
	ranked, err := BuildRanking(newPopulation(), schema.DefaultRankFields, dataset.StaticRegionSource{Table: newMapping()}, RankingOptions{})
	require.NoError(t, err)
	return CollapseByPartner(ranked)
}
