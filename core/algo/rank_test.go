package algo

import (
	"testing"

	"github.com/huangsam/scorecard/schema"
	"github.com/stretchr/testify/assert"
)

func TestRankRecords(t *testing.T) {
	mk := func(id int, impact float64, has bool) schema.PartnerRecord {
		r := schema.NewPartnerRecord(id)
		if has {
			r.Scores["Impact"] = impact
		}
		return r
	}

	t.Run("descending with missing last", func(t *testing.T) {
		records := []schema.PartnerRecord{mk(1, 2, true), mk(2, 0, false), mk(3, 9, true), mk(4, 5, true)}
		ranked := RankRecords(records, "Impact", 0)
		var ids []int
		for _, r := range ranked {
			ids = append(ids, r.PartnerID)
		}
		assert.Equal(t, []int{3, 4, 1, 2}, ids)
	})

	t.Run("limit", func(t *testing.T) {
		records := []schema.PartnerRecord{mk(1, 2, true), mk(2, 7, true), mk(3, 9, true)}
		ranked := RankRecords(records, "Impact", 2)
		assert.Len(t, ranked, 2)
		assert.Equal(t, 3, ranked[0].PartnerID)
	})

	t.Run("limit larger than input", func(t *testing.T) {
		records := []schema.PartnerRecord{mk(1, 2, true)}
		assert.Len(t, RankRecords(records, "Impact", 10), 1)
	})
}
