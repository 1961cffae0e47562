package dataset

import (
	"fmt"

	"github.com/huangsam/scorecard/schema"
)

// FileRegionSource loads the region mapping from a file on every request.
type FileRegionSource struct {
	Path string
}

// RegionTable implements contract.RegionSource.
func (s FileRegionSource) RegionTable() (*schema.Table, error) {
	return LoadRegionMapping(s.Path)
}

// StaticRegionSource serves a mapping table that is already in memory.
type StaticRegionSource struct {
	Table *schema.Table
}

// RegionTable implements contract.RegionSource.
func (s StaticRegionSource) RegionTable() (*schema.Table, error) {
	if s.Table == nil {
		return nil, schema.ErrMappingUnavailable
	}
	return s.Table, nil
}

// LoadRegionMapping reads the partner to region mapping file.
// Only the region and display name columns are carried over.
// Any failure is reported as schema.ErrMappingUnavailable.
func LoadRegionMapping(path string) (*schema.Table, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", schema.ErrMappingUnavailable, path, err)
	}
	table, err := mappingFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", schema.ErrMappingUnavailable, path, err)
	}
	return table, nil
}

func mappingFromRows(rows [][]string) (*schema.Table, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	index := headerIndex(rows[0])
	idCol, ok := index[schema.MappingIDColumn]
	if !ok {
		return nil, schema.FieldNotFound(schema.MappingIDColumn)
	}
	passthrough := []string{schema.RegionColumn, schema.DisplayNameColumn}
	for _, c := range passthrough {
		if _, ok := index[c]; !ok {
			return nil, schema.FieldNotFound(c)
		}
	}

	table := schema.NewTable(passthrough...)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		id, err := parsePartnerID(cell(row, idCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		r := schema.NewPartnerRecord(id)
		for _, c := range passthrough {
			if v := cell(row, index[c]); v != "" {
				r.Attributes[c] = v
			}
		}
		table.Append(r)
	}
	return table, nil
}
