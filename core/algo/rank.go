package algo

import (
	"sort"

	"github.com/huangsam/scorecard/schema"
)

// RankRecords sorts records by the given column in descending order
// and returns the top 'limit' records. Records missing the column sort last.
// If limit is not positive or exceeds the number of records, all records are returned.
func RankRecords(records []schema.PartnerRecord, column string, limit int) []schema.PartnerRecord {
	sort.SliceStable(records, func(i, j int) bool {
		vi, oki := records[i].Scores[column]
		vj, okj := records[j].Scores[column]
		if oki != okj {
			return oki
		}
		return vi > vj
	})
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}
