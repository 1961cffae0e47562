package core

import (
	"fmt"
	"math"

	"github.com/huangsam/scorecard/core/algo"
	"github.com/huangsam/scorecard/schema"
)

// BuildScoringTable compares a partner's component and sub-component scores
// with the whole population and with the partner's region.
//
// The table must be the output of BuildRanking without relabeling. Scores and
// medians are rounded to two decimals and percentiles are formatted like
// "83.2%". Regional columns are left out when the partner has no region.
func BuildScoringTable(table *schema.Table, partnerID int, component string) (*schema.ScoringTable, error) {
	comp, err := schema.ParseComponent(component)
	if err != nil {
		return nil, err
	}
	rec, ok := table.Lookup(partnerID)
	if !ok {
		return nil, schema.PartnerNotFound(partnerID)
	}
	fields := schema.ComponentFields[comp]
	for _, f := range fields {
		for _, c := range []string{f, schema.PctColumn(f), schema.RegionPctColumn(f)} {
			if !table.HasColumn(c) {
				return nil, fmt.Errorf("scoring table for %s: %w", comp, schema.FieldNotFound(c))
			}
		}
	}

	region, hasRegion := rec.Region()
	st := &schema.ScoringTable{
		PartnerID:  partnerID,
		Component:  comp,
		Region:     region,
		RegionCode: schema.RegionCodes[region],
		HasRegion:  hasRegion,
		Rows:       make([]schema.ScoringRow, 0, len(fields)),
	}

	for _, f := range fields {
		row := schema.ScoringRow{
			Component:     f,
			Score:         schema.Round(scoreOrNaN(rec, f), 2),
			MedianAll:     schema.Round(algo.Median(table.Values(f)), 2),
			PercentileAll: schema.FormatPercent(scoreOrNaN(rec, schema.PctColumn(f))),
			MedianRegion:  math.NaN(),
		}
		if hasRegion {
			// The regional subset is taken fresh from the full table for every row.
			peers := inRegion(table, region)
			row.MedianRegion = schema.Round(algo.Median(peers.Values(f)), 2)
			row.PercentileRegion = schema.FormatPercent(scoreOrNaN(rec, schema.RegionPctColumn(f)))
		}
		st.Rows = append(st.Rows, row)
	}
	return st, nil
}

// inRegion returns the records whose region equals the given label.
func inRegion(table *schema.Table, region string) *schema.Table {
	return table.Filter(func(r schema.PartnerRecord) bool {
		v, ok := r.Region()
		return ok && v == region
	})
}

func scoreOrNaN(rec schema.PartnerRecord, column string) float64 {
	if v, ok := rec.Score(column); ok {
		return v
	}
	return math.NaN()
}
