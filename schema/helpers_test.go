package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		places   int
		expected float64
	}{
		{"two places", 4.456, 2, 4.46},
		{"one place", 83.25, 1, 83.3},
		{"whole", 2.5, 0, 3},
		{"negative", -1.234, 2, -1.23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Round(tt.value, tt.places), 1e-9)
		})
	}
	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))
	assert.True(t, math.IsInf(Round(math.Inf(1), 2), 1))
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		fraction float64
		expected string
	}{
		{5.0 / 6, "83.3%"},
		{1, "100.0%"},
		{0.5, "50.0%"},
		{1.0 / 3, "33.3%"},
		{math.NaN(), "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatPercent(tt.fraction))
	}
}

func TestCompactName(t *testing.T) {
	assert.Equal(t, "GammaMicrofinance", CompactName("Gamma Microfinance"))
	assert.Equal(t, "ABC", CompactName(" A\tB\nC "))
	assert.Equal(t, "", CompactName(""))
}
