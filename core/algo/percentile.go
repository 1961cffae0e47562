// Package algo holds the ranking math behind partner scorecards.
package algo

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/huangsam/scorecard/schema"
)

// Group is one partition of a table produced by Partition.
type Group struct {
	Key  string // Value of the grouping column shared by every row
	Rows []int  // Row indexes into the partitioned table, in table order
}

// FractionalRanks returns the percentile rank of each value in (0,1].
// Tied values share the average of the ranks they occupy, and the rank is
// divided by the number of non-NaN values. NaN inputs map to NaN.
func FractionalRanks(values []float64) []float64 {
	out := make([]float64, len(values))
	order := make([]int, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		order = append(order, i)
	}
	n := len(order)
	if n == 0 {
		return out
	}

	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	for start := 0; start < n; {
		end := start
		for end+1 < n && values[order[end+1]] == values[order[start]] {
			end++
		}
		// 1-based ranks start+1..end+1 share their mean.
		avgRank := float64(start+end+2) / 2
		for k := start; k <= end; k++ {
			out[order[k]] = avgRank / float64(n)
		}
		start = end + 1
	}
	return out
}

// Median returns the median of the values, or NaN when there are none.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Partition splits the table's rows by the value of the grouping column.
// Groups appear in order of first occurrence. Rows with no value for the
// column are returned separately as ungrouped.
func Partition(table *schema.Table, groupKey string) (groups []Group, ungrouped []int) {
	index := make(map[string]int)
	for i, r := range table.Records {
		key, ok := r.GroupValue(groupKey)
		if !ok {
			ungrouped = append(ungrouped, i)
			continue
		}
		gi, seen := index[key]
		if !seen {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, Group{Key: key})
		}
		groups[gi].Rows = append(groups[gi].Rows, i)
	}
	return groups, ungrouped
}

// ComputePercentiles returns a copy of the table where every requested field
// holds its fractional rank instead of its raw value.
//
// With an empty groupKey the rank is taken across the whole table. Otherwise
// the table is partitioned by groupKey, each partition is ranked on its own,
// and the partitions are recombined in the original row order. Rows without a
// group value keep their identity but carry no percentile for the fields.
func ComputePercentiles(table *schema.Table, fields []string, groupKey string) (*schema.Table, error) {
	for _, f := range fields {
		if !table.HasColumn(f) {
			return nil, schema.FieldNotFound(f)
		}
	}
	if groupKey != "" && !table.HasColumn(groupKey) {
		return nil, fmt.Errorf("group key: %w", schema.FieldNotFound(groupKey))
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("cannot rank %d fields: %w", len(fields), schema.ErrEmptyPopulation)
	}
	for _, f := range fields {
		if !table.HasScores(f) {
			return nil, schema.FieldNotNumeric(f)
		}
	}

	out := table.Clone()
	if groupKey == "" {
		all := make([]int, out.Len())
		for i := range all {
			all[i] = i
		}
		rankRows(out.Records, all, fields)
		return out, nil
	}

	groups, ungrouped := Partition(out, groupKey)
	for _, g := range groups {
		rankRows(out.Records, g.Rows, fields)
	}
	for _, i := range ungrouped {
		for _, f := range fields {
			delete(out.Records[i].Scores, f)
		}
	}
	return out, nil
}

// rankRows replaces each field of the selected records with its fractional rank
// among those records. Records missing a field stay missing.
func rankRows(records []schema.PartnerRecord, rows []int, fields []string) {
	values := make([]float64, len(rows))
	for _, f := range fields {
		for k, i := range rows {
			if v, ok := records[i].Scores[f]; ok {
				values[k] = v
			} else {
				values[k] = math.NaN()
			}
		}
		ranks := FractionalRanks(values)
		for k, i := range rows {
			if math.IsNaN(ranks[k]) {
				continue
			}
			records[i].Scores[f] = ranks[k]
		}
	}
}
