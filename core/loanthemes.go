package core

import (
	"sort"

	"github.com/huangsam/scorecard/schema"
)

// PartnerLoanThemes returns the loan themes of one partner in file order.
func PartnerLoanThemes(themes []schema.LoanTheme, partnerID int) []schema.LoanTheme {
	var out []schema.LoanTheme
	for _, lt := range themes {
		if lt.PartnerID == partnerID {
			out = append(out, lt)
		}
	}
	return out
}

// CountByResearchRating counts a partner's loan themes per research rating,
// sorted by rating.
func CountByResearchRating(themes []schema.LoanTheme, partnerID int) []schema.RatingCount {
	counts := make(map[string]int)
	for _, lt := range PartnerLoanThemes(themes, partnerID) {
		counts[lt.ResearchRating]++
	}
	out := make([]schema.RatingCount, 0, len(counts))
	for rating, n := range counts {
		out = append(out, schema.RatingCount{ResearchRating: rating, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ResearchRating < out[j].ResearchRating
	})
	return out
}
