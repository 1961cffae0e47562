//go:build integration

// Package integration contains integration tests for scorecard.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rankedRow struct {
	PartnerID  int                `json:"partner_id"`
	Scores     map[string]float64 `json:"scores"`
	Attributes map[string]string  `json:"attributes"`
}

// bruteForcePercentile ranks v within values by counting, averaging ties.
func bruteForcePercentile(v float64, values []float64) float64 {
	below, equal := 0, 0
	for _, x := range values {
		switch {
		case x < v:
			below++
		case x == v:
			equal++
		}
	}
	return (float64(below) + float64(equal+1)/2) / float64(len(values))
}

func rankJSON(t *testing.T, fixture []string, extra ...string) []rankedRow {
	t.Helper()
	args := append([]string{"rank", "--output", "json"}, fixture...)
	out, err := runScorecard(t, nil, append(args, extra...)...)
	require.NoError(t, err)

	var rows []rankedRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	return rows
}

// TestRankingVerification recomputes every percentile of the CLI output by brute force.
func TestRankingVerification(t *testing.T) {
	fixture := writeFixture(t, 120, 42)
	rows := rankJSON(t, fixture)
	require.Len(t, rows, 120)

	for _, field := range rankFields {
		var all []float64
		byRegion := map[string][]float64{}
		for _, r := range rows {
			v, ok := r.Scores[field]
			if !ok {
				continue
			}
			all = append(all, v)
			if region := r.Attributes["Loan Geography IRS Region"]; region != "" {
				byRegion[region] = append(byRegion[region], v)
			}
		}

		for _, r := range rows {
			v, ok := r.Scores[field]
			pct, hasPct := r.Scores[field+" pct"]
			regionPct, hasRegionPct := r.Scores[field+" region pct"]
			name := fmt.Sprintf("%s/%d", field, r.PartnerID)

			if !ok {
				assert.False(t, hasPct, name)
				assert.False(t, hasRegionPct, name)
				continue
			}
			require.True(t, hasPct, name)
			assert.InDelta(t, bruteForcePercentile(v, all), pct, 1e-9, name)

			region := r.Attributes["Loan Geography IRS Region"]
			if region == "" {
				assert.False(t, hasRegionPct, name)
				continue
			}
			require.True(t, hasRegionPct, name)
			assert.InDelta(t, bruteForcePercentile(v, byRegion[region]), regionPct, 1e-9, name)
		}
	}
}

// TestRankingDeterminism checks that repeated runs produce identical output.
func TestRankingDeterminism(t *testing.T) {
	fixture := writeFixture(t, 60, 3)
	first := rankJSON(t, fixture)
	second := rankJSON(t, fixture)
	assert.Equal(t, first, second)
}

// TestRankingSortAndLimit checks the sorted, truncated ranking.
func TestRankingSortAndLimit(t *testing.T) {
	fixture := writeFixture(t, 80, 11)
	rows := rankJSON(t, fixture, "--sort-by", "Impact", "--limit", "10")
	require.Len(t, rows, 10)

	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		values = append(values, r.Scores["Impact"])
	}
	assert.True(t, sort.IsSorted(sort.Reverse(sort.Float64Slice(values))), "highest Impact first")
}

// TestScoringTableText checks the human readable scoring table.
func TestScoringTableText(t *testing.T) {
	fixture := writeFixture(t, 30, 5)
	args := append([]string{"table", "2", "--component", "Targeting"}, fixture...)
	out, err := runScorecard(t, nil, args...)
	require.NoError(t, err)
	for _, want := range []string{"Targeting", "MPI", "Findex", "Outreach", "Median (S. Amer)"} {
		assert.True(t, strings.Contains(out, want), "output should mention %q", want)
	}
}
