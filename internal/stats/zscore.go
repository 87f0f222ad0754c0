package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean is the arithmetic mean of the non-NaN values of x, NaN if there are none.
func Mean(x []float64) float64 {
	values := DropNaN(x)
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// MeanStdDev returns the mean and the sample (n-1) standard deviation of the
// non-NaN values of x. The deviation is NaN with fewer than two values.
func MeanStdDev(x []float64) (mean, std float64) {
	values := DropNaN(x)
	switch len(values) {
	case 0:
		return math.NaN(), math.NaN()
	case 1:
		return values[0], math.NaN()
	}
	return stat.MeanStdDev(values, nil)
}

// ZScores rescales x to zero mean and unit sample standard deviation. A column
// whose deviation is zero or undefined maps to zeros.
func ZScores(x []float64) []float64 {
	mean, std := MeanStdDev(x)
	out := make([]float64, len(x))
	if std == 0 || math.IsNaN(std) {
		return out
	}
	for i, v := range x {
		out[i] = (v - mean) / std
	}
	return out
}
