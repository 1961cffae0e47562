package schema_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/huangsam/scorecard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoringTableHeaders(t *testing.T) {
	tests := []struct {
		name     string
		table    schema.ScoringTable
		expected []string
	}{
		{
			name:     "with region code",
			table:    schema.ScoringTable{HasRegion: true, Region: "South Asia", RegionCode: "S. Asia"},
			expected: []string{"Component", "Component Score", "Median (All)", "Percentile (vs. All)", "Median (S. Asia)", "Percentile (vs. S. Asia)"},
		},
		{
			name:     "unmapped region",
			table:    schema.ScoringTable{HasRegion: true, Region: "Atlantis"},
			expected: []string{"Component", "Component Score", "Median (All)", "Percentile (vs. All)", "Median (n/a)", "Percentile (vs. n/a)"},
		},
		{
			name:     "no region",
			table:    schema.ScoringTable{},
			expected: []string{"Component", "Component Score", "Median (All)", "Percentile (vs. All)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.table.Headers())
		})
	}
}

func TestScoringRowJSON(t *testing.T) {
	data, err := json.Marshal(schema.ScoringRow{
		Component:     "Process",
		Score:         math.NaN(),
		MedianAll:     4.5,
		PercentileAll: "n/a",
		MedianRegion:  math.NaN(),
	})
	require.NoError(t, err, "NaN must not break JSON encoding")
	assert.JSONEq(t, `{"component":"Process","score":null,"median_all":4.5,"percentile_all":"n/a"}`, string(data))
}

func TestPartnerOutcomeJSON(t *testing.T) {
	data, err := json.Marshal(schema.PartnerOutcome{
		PartnerID:   99,
		PartnerName: "Partner 99",
		ImpactScore: math.NaN(),
		ImpactPct:   math.NaN(),
		Status:      schema.FailedStatus,
		Error:       "partner not found: 99",
		Duration:    1500 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"partner_id": 99,
		"partner_name": "Partner 99",
		"impact_score": null,
		"impact_pct": null,
		"status": "failed",
		"error": "partner not found: 99",
		"duration_ms": 1500
	}`, string(data))
}

func TestComponentSummaryJSON(t *testing.T) {
	data, err := json.Marshal(schema.ComponentSummary{Component: schema.TargetingComponent, Value: math.NaN(), Median: 4.5})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["value"])
	assert.Equal(t, 4.5, decoded["median"])
}
