package schema

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Table is an ordered collection of partner records with a named column schema.
// Columns lists both numeric and text columns in display order.
type Table struct {
	Columns []string        `json:"columns"`
	Records []PartnerRecord `json:"records"`
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.Records)
}

// HasColumn reports whether the column is part of the table schema.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// AddColumn appends a column to the schema if it is not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Append adds a record to the table.
func (t *Table) Append(r PartnerRecord) {
	t.Records = append(t.Records, r)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	clone := &Table{
		Columns: slices.Clone(t.Columns),
		Records: make([]PartnerRecord, len(t.Records)),
	}
	for i, r := range t.Records {
		clone.Records[i] = r.Clone()
	}
	return clone
}

// Lookup returns the first record for the partner.
func (t *Table) Lookup(partnerID int) (PartnerRecord, bool) {
	for _, r := range t.Records {
		if r.PartnerID == partnerID {
			return r, true
		}
	}
	return PartnerRecord{}, false
}

// Filter returns a new table holding the records that satisfy keep.
// Records are shared with the receiver, not copied.
func (t *Table) Filter(keep func(PartnerRecord) bool) *Table {
	out := &Table{Columns: slices.Clone(t.Columns)}
	for _, r := range t.Records {
		if keep(r) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// Values returns the non-missing numeric values of a column in row order.
func (t *Table) Values(column string) []float64 {
	values := make([]float64, 0, len(t.Records))
	for _, r := range t.Records {
		if v, ok := r.Scores[column]; ok {
			values = append(values, v)
		}
	}
	return values
}

// HasScores reports whether any record holds a numeric value for column.
func (t *Table) HasScores(column string) bool {
	for _, r := range t.Records {
		if _, ok := r.Scores[column]; ok {
			return true
		}
	}
	return false
}

// PartnerIDs returns the distinct partner identifiers in row order.
func (t *Table) PartnerIDs() []int {
	seen := make(map[int]struct{}, len(t.Records))
	ids := make([]int, 0, len(t.Records))
	for _, r := range t.Records {
		if _, ok := seen[r.PartnerID]; ok {
			continue
		}
		seen[r.PartnerID] = struct{}{}
		ids = append(ids, r.PartnerID)
	}
	return ids
}

// GroupValue returns the value a record holds for a grouping column.
// Text columns are used as-is; numeric columns are formatted.
func (r PartnerRecord) GroupValue(column string) (string, bool) {
	if v, ok := r.Attributes[column]; ok && v != "" {
		return v, true
	}
	if v, ok := r.Scores[column]; ok {
		return strconv.FormatFloat(v, 'g', -1, 64), true
	}
	return "", false
}

// ContentKey returns a canonical encoding of the record's full content.
// Two records share a key exactly when they are identical rows.
func (r PartnerRecord) ContentKey() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(r.PartnerID))

	scoreKeys := make([]string, 0, len(r.Scores))
	for k := range r.Scores {
		scoreKeys = append(scoreKeys, k)
	}
	sort.Strings(scoreKeys)
	for _, k := range scoreKeys {
		b.WriteString("\x1fs:")
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(r.Scores[k], 'g', -1, 64))
	}

	attrKeys := make([]string, 0, len(r.Attributes))
	for k := range r.Attributes {
		attrKeys = append(attrKeys, k)
	}
	sort.Strings(attrKeys)
	for _, k := range attrKeys {
		b.WriteString("\x1fa:")
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(r.Attributes[k])
	}
	return b.String()
}
