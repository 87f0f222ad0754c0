package stats

import "math"

const (
	TukeyQ1Percentile  = 0.25
	TukeyQ3Percentile  = 0.75
	TukeyIQRMultiplier = 1.5
)

// Bounds are the fences of the Tukey IQR rule.
type Bounds struct {
	Q1    float64
	Q3    float64
	IQR   float64
	Lower float64
	Upper float64
}

// TukeyBounds computes [Q1 - 1.5*IQR, Q3 + 1.5*IQR] over the non-NaN values of x.
func TukeyBounds(x []float64) Bounds {
	q1 := Quantile(TukeyQ1Percentile, x)
	q3 := Quantile(TukeyQ3Percentile, x)
	iqr := q3 - q1
	return Bounds{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - TukeyIQRMultiplier*iqr,
		Upper: q3 + TukeyIQRMultiplier*iqr,
	}
}

// Outside reports whether v falls strictly outside the fences. NaN is never
// an outlier.
func (b Bounds) Outside(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	return v < b.Lower || v > b.Upper
}

// OutlierIndices returns the positions of x that fall outside the Tukey fences.
func OutlierIndices(x []float64) ([]int, Bounds) {
	bounds := TukeyBounds(x)
	var out []int
	for i, v := range x {
		if bounds.Outside(v) {
			out = append(out, i)
		}
	}
	return out, bounds
}
