package stats

import (
	"math"
	"sort"
)

// DropNaN returns the values of x that are not NaN, x is left untouched.
func DropNaN(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Quantile returns the p-quantile of x, interpolating linearly between the two
// closest ranks: with the values sorted, the quantile sits at position (n-1)*p.
// NaN values are ignored, an empty input yields NaN.
func Quantile(p float64, x []float64) float64 {
	sorted := DropNaN(x)
	if len(sorted) == 0 || p < 0 || p > 1 {
		return math.NaN()
	}
	sort.Float64s(sorted)

	pos := float64(len(sorted)-1) * p
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	if lo == hi {
		return sorted[int(lo)]
	}
	frac := pos - lo
	return sorted[int(lo)] + frac*(sorted[int(hi)]-sorted[int(lo)])
}
