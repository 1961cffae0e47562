package core

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/huangsam/scorecard/core/algo"
	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/schema"
)

// RankingOptions controls optional steps of BuildRanking.
type RankingOptions struct {
	Rename map[string]string // Column relabels applied last
}

// BuildRanking joins the region mapping onto the population and appends a
// global percentile column and a regional percentile column for every field.
//
// Population rows and mapping-only partners are all kept. Rows come out
// ordered by partner identifier, exact duplicate rows are removed, and the
// input table is not modified.
func BuildRanking(table *schema.Table, fields []string, mapping contract.RegionSource, opts RankingOptions) (*schema.Table, error) {
	for _, f := range fields {
		if !table.HasColumn(f) {
			return nil, schema.FieldNotFound(f)
		}
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("build ranking: %w", schema.ErrEmptyPopulation)
	}
	for _, f := range fields {
		if !table.HasScores(f) {
			return nil, schema.FieldNotNumeric(f)
		}
	}
	regions, err := loadMapping(mapping)
	if err != nil {
		return nil, err
	}

	joined := outerJoin(table, regions)

	global, err := algo.ComputePercentiles(joined, fields, "")
	if err != nil {
		return nil, fmt.Errorf("global percentiles: %w", err)
	}
	regional, err := algo.ComputePercentiles(joined, fields, schema.RegionColumn)
	if err != nil {
		return nil, fmt.Errorf("regional percentiles: %w", err)
	}

	for _, f := range fields {
		joined.AddColumn(schema.PctColumn(f))
	}
	for _, f := range fields {
		joined.AddColumn(schema.RegionPctColumn(f))
	}
	for i := range joined.Records {
		rec := joined.Records[i]
		for _, f := range fields {
			if v, ok := global.Records[i].Scores[f]; ok {
				rec.Scores[schema.PctColumn(f)] = v
			}
			if v, ok := regional.Records[i].Scores[f]; ok {
				rec.Scores[schema.RegionPctColumn(f)] = v
			}
		}
	}

	out := dropDuplicates(joined)
	if len(opts.Rename) > 0 {
		if err := renameColumns(out, opts.Rename); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// loadMapping fetches the mapping table and validates its shape.
func loadMapping(mapping contract.RegionSource) (*schema.Table, error) {
	if mapping == nil {
		return nil, schema.ErrMappingUnavailable
	}
	regions, err := mapping.RegionTable()
	if err != nil {
		if errors.Is(err, schema.ErrMappingUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", schema.ErrMappingUnavailable, err)
	}
	if regions == nil || !regions.HasColumn(schema.RegionColumn) {
		return nil, fmt.Errorf("%w: %w", schema.ErrMappingUnavailable, schema.FieldNotFound(schema.RegionColumn))
	}
	return regions, nil
}

// outerJoin merges the mapping onto the population by partner identifier.
// A partner listed several times on either side yields every pairing.
// Population values win when both sides carry the same column.
func outerJoin(left, right *schema.Table) *schema.Table {
	out := schema.NewTable(left.Columns...)
	for _, c := range right.Columns {
		out.AddColumn(c)
	}

	rightByID := make(map[int][]schema.PartnerRecord)
	for _, r := range right.Records {
		rightByID[r.PartnerID] = append(rightByID[r.PartnerID], r)
	}
	leftIDs := make(map[int]struct{}, left.Len())

	for _, l := range left.Records {
		leftIDs[l.PartnerID] = struct{}{}
		matches := rightByID[l.PartnerID]
		if len(matches) == 0 {
			out.Append(l.Clone())
			continue
		}
		for _, r := range matches {
			out.Append(mergeRecords(l, r))
		}
	}
	for _, r := range right.Records {
		if _, ok := leftIDs[r.PartnerID]; ok {
			continue
		}
		out.Append(r.Clone())
	}

	sort.SliceStable(out.Records, func(i, j int) bool {
		return out.Records[i].PartnerID < out.Records[j].PartnerID
	})
	return out
}

func mergeRecords(left, right schema.PartnerRecord) schema.PartnerRecord {
	merged := left.Clone()
	for k, v := range right.Scores {
		if _, ok := merged.Scores[k]; !ok {
			merged.Scores[k] = v
		}
	}
	for k, v := range right.Attributes {
		if _, ok := merged.Attributes[k]; !ok {
			merged.Attributes[k] = v
		}
	}
	return merged
}

// dropDuplicates keeps the first of every set of identical records.
func dropDuplicates(table *schema.Table) *schema.Table {
	out := schema.NewTable(table.Columns...)
	seen := make(map[string]struct{}, table.Len())
	for _, r := range table.Records {
		key := r.ContentKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Append(r)
	}
	return out
}

// renameColumns relabels columns in place. Unknown source names are ignored.
func renameColumns(table *schema.Table, rename map[string]string) error {
	newNames := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		newNames[i] = c
		if to, ok := rename[c]; ok {
			newNames[i] = to
		}
	}
	for i, name := range newNames {
		if slices.Index(newNames, name) != i {
			return fmt.Errorf("rename produces duplicate column %q", name)
		}
	}

	for i := range table.Records {
		rec := &table.Records[i]
		scores := make(map[string]float64, len(rec.Scores))
		attrs := make(map[string]string, len(rec.Attributes))
		for j, c := range table.Columns {
			if v, ok := rec.Scores[c]; ok {
				scores[newNames[j]] = v
			}
			if v, ok := rec.Attributes[c]; ok {
				attrs[newNames[j]] = v
			}
		}
		rec.Scores = scores
		rec.Attributes = attrs
	}
	table.Columns = newNames
	return nil
}

// CollapseByPartner merges records sharing a partner identifier into one,
// taking the first present value of each column. Partners keep the order of
// their first appearance.
func CollapseByPartner(table *schema.Table) *schema.Table {
	out := schema.NewTable(table.Columns...)
	index := make(map[int]int, table.Len())
	for _, r := range table.Records {
		pos, seen := index[r.PartnerID]
		if !seen {
			index[r.PartnerID] = out.Len()
			out.Append(r.Clone())
			continue
		}
		first := &out.Records[pos]
		for k, v := range r.Scores {
			if _, ok := first.Scores[k]; !ok {
				first.Scores[k] = v
			}
		}
		for k, v := range r.Attributes {
			if _, ok := first.Attributes[k]; !ok {
				first.Attributes[k] = v
			}
		}
	}
	return out
}
