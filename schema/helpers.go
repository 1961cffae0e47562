package schema

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// FormatPercent formats a fractional rank as a percentage with one decimal, e.g. "83.2%".
// NaN formats as "n/a".
func FormatPercent(fraction float64) string {
	if math.IsNaN(fraction) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", Round(100*fraction, 1))
}

// CompactName removes all whitespace from a partner name so it can be used as a file name.
func CompactName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
}
