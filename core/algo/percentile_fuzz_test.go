package algo

import (
	"encoding/binary"
	"math"
	"testing"
)

// FuzzFractionalRanks checks the range and rank-sum of percentile ranks for arbitrary inputs.
func FuzzFractionalRanks(f *testing.F) {
	seeds := [][]float64{
		{1, 2, 3},
		{5, 5, 5, 5},
		{math.NaN(), 1, math.Inf(1), math.Inf(-1)},
		{0, -0.0, 1e300, -1e300},
		{}, // edge case
	}
	for _, seed := range seeds {
		buf := make([]byte, 8*len(seed))
		for i, v := range seed {
			binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
		}
		f.Add(buf)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		values := make([]float64, 0, len(data)/8)
		for i := 0; i+8 <= len(data); i += 8 {
			values = append(values, math.Float64frombits(binary.LittleEndian.Uint64(data[i:])))
		}

		ranks := FractionalRanks(values)
		if len(ranks) != len(values) {
			t.Fatalf("got %d ranks for %d values", len(ranks), len(values))
		}

		n, sum := 0, 0.0
		for i, r := range ranks {
			if math.IsNaN(values[i]) {
				if !math.IsNaN(r) {
					t.Fatalf("NaN input %d ranked %v", i, r)
				}
				continue
			}
			if r <= 0 || r > 1 {
				t.Fatalf("rank %v of value %v outside (0,1]", r, values[i])
			}
			n++
			sum += r
		}
		// Ranks 1..n sum to n(n+1)/2 whatever the ties, so fractions sum to (n+1)/2.
		if n > 0 && math.Abs(sum-float64(n+1)/2) > 1e-9*float64(n) {
			t.Fatalf("rank sum %v, want %v", sum, float64(n+1)/2)
		}
	})
}
