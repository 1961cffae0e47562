package core

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/huangsam/scorecard/internal/dataset"
	"github.com/huangsam/scorecard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildScoringTable(t *testing.T) {
	table := newRanking(t)

	st, err := BuildScoringTable(table, 3, "Impact")
	require.NoError(t, err)

	assert.Equal(t, schema.ImpactComponent, st.Component)
	assert.True(t, st.HasRegion)
	assert.Equal(t, "South Asia", st.Region)
	assert.Equal(t, "S. Asia", st.RegionCode)
	assert.Equal(t, []string{
		"Component", "Component Score", "Median (All)", "Percentile (vs. All)",
		"Median (S. Asia)", "Percentile (vs. S. Asia)",
	}, st.Headers())

	require.Len(t, st.Rows, 4)
	var names []string
	for _, row := range st.Rows {
		names = append(names, row.Component)
		assert.InDelta(t, 6.0, row.Score, 1e-9)
		assert.InDelta(t, 4.5, row.MedianAll, 1e-9)
		assert.Equal(t, "83.3%", row.PercentileAll)
		assert.InDelta(t, 4.0, row.MedianRegion, 1e-9, "median of the partner's region for every row")
		assert.Equal(t, "100.0%", row.PercentileRegion)
	}
	assert.Equal(t, []string{"Impact", "Targeting", "Product", "Process"}, names)
}

func TestBuildScoringTableThreePartners(t *testing.T) {
	fields := schema.ComponentFields[schema.ImpactComponent]
	population := schema.NewTable(fields...)
	mapping := schema.NewTable(schema.RegionColumn)
	for id, impact := range map[int]float64{1: 8, 2: 6, 3: 4} {
		r := schema.NewPartnerRecord(id)
		for _, f := range fields {
			r.Scores[f] = impact
		}
		population.Append(r)
		m := schema.NewPartnerRecord(id)
		m.Attributes[schema.RegionColumn] = "South Asia"
		mapping.Append(m)
	}

	ranked, err := BuildRanking(population, fields, dataset.StaticRegionSource{Table: mapping}, RankingOptions{})
	require.NoError(t, err)
	st, err := BuildScoringTable(ranked, 1, "Impact")
	require.NoError(t, err)

	require.Len(t, st.Rows, 4)
	row := st.Rows[0]
	assert.Equal(t, "Impact", row.Component)
	assert.InDelta(t, 8.0, row.Score, 1e-9)
	assert.InDelta(t, 6.0, row.MedianAll, 1e-9)
	assert.Equal(t, "100.0%", row.PercentileAll)
	assert.InDelta(t, 6.0, row.MedianRegion, 1e-9)
	assert.Equal(t, "100.0%", row.PercentileRegion)
}

func TestBuildScoringTableWithMissingTokens(t *testing.T) {
	cfg := newTestConfig(t, schema.JSONOut)
	header := append([]string{schema.PartnerIDColumn, schema.NameColumn}, schema.DefaultRankFields...)
	lines := []string{strings.Join(header, ",")}
	for id, impact := range map[int]string{1: "8", 2: "NA", 3: "4"} {
		cells := []string{strconv.Itoa(id), fmt.Sprintf("P%d", id), impact}
		for range schema.DefaultRankFields[1:] {
			cells = append(cells, "5")
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	require.NoError(t, os.WriteFile(cfg.DataFile, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	table, err := LoadRanking(cfg, RankingOptions{})
	require.NoError(t, err)
	st, err := BuildScoringTable(table, 1, "Impact")
	require.NoError(t, err)

	row := st.Rows[0]
	assert.InDelta(t, 8.0, row.Score, 1e-9)
	assert.InDelta(t, 6.0, row.MedianAll, 1e-9, "the NA cell is left out of the median")
	assert.Equal(t, "100.0%", row.PercentileAll)
	assert.Equal(t, "100.0%", row.PercentileRegion)

	missing, err := BuildScoringTable(table, 2, "Impact")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(missing.Rows[0].Score))
	assert.Equal(t, "n/a", missing.Rows[0].PercentileAll)
}

func TestBuildScoringTableComponents(t *testing.T) {
	table := newRanking(t)
	for _, c := range schema.AllComponents {
		st, err := BuildScoringTable(table, 4, string(c))
		require.NoError(t, err)
		assert.Len(t, st.Rows, len(schema.ComponentFields[c]), "component %s", c)
		assert.Equal(t, schema.ComponentFields[c][0], st.Rows[0].Component)
	}
}

func TestBuildScoringTableWithoutRegion(t *testing.T) {
	table := newRanking(t)

	st, err := BuildScoringTable(table, 6, "Process")
	require.NoError(t, err)
	assert.False(t, st.HasRegion)
	assert.Len(t, st.Headers(), 4)
	require.Len(t, st.Rows, 1)
	assert.True(t, math.IsNaN(st.Rows[0].MedianRegion))
	assert.Empty(t, st.Rows[0].PercentileRegion)
	assert.Equal(t, "33.3%", st.Rows[0].PercentileAll)
}

func TestBuildScoringTableMissingValues(t *testing.T) {
	table := newRanking(t)

	st, err := BuildScoringTable(table, 7, "Impact")
	require.NoError(t, err)
	assert.Equal(t, "S. Amer", st.RegionCode)
	for _, row := range st.Rows {
		assert.True(t, math.IsNaN(row.Score))
		assert.Equal(t, "n/a", row.PercentileAll)
		assert.True(t, math.IsNaN(row.MedianRegion), "no partner in the region has a value")
		assert.Equal(t, "n/a", row.PercentileRegion)
	}
}

func TestBuildScoringTableUnmappedRegionCode(t *testing.T) {
	table := newRanking(t)
	for i := range table.Records {
		if table.Records[i].PartnerID == 5 {
			table.Records[i].Attributes[schema.RegionColumn] = "Atlantis"
		}
	}

	st, err := BuildScoringTable(table, 5, "Process")
	require.NoError(t, err)
	assert.Empty(t, st.RegionCode)
	assert.Equal(t, "Median (n/a)", st.Headers()[4])
}

func TestBuildScoringTableErrors(t *testing.T) {
	table := newRanking(t)

	tests := []struct {
		name      string
		table     *schema.Table
		partnerID int
		component string
		expected  error
	}{
		{"unknown component", table, 3, "Speed", schema.ErrUnknownComponent},
		{"component checked before partner", table, 99, "Speed", schema.ErrUnknownComponent},
		{"missing partner", table, 99, "Impact", schema.ErrPartnerNotFound},
		{"missing percentile columns", newPopulation(), 3, "Impact", schema.ErrFieldNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := BuildScoringTable(tt.table, tt.partnerID, tt.component)
			assert.Nil(t, st)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}
