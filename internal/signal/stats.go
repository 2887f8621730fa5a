package signal

import (
	"gonum.org/v1/gonum/stat"
)

// Pearson returns the linear correlation coefficient between x and y.
// If either input has zero variance the result is NaN, which callers must
// treat as "no usable score" rather than zero.
func Pearson(x, y []float64) float64 {
	return stat.Correlation(x, y, nil)
}

// Mean returns the arithmetic mean of x.
func Mean(x []float64) float64 {
	return stat.Mean(x, nil)
}

// Max returns the maximum of x, or 0 for an empty slice.
func Max(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	max := x[0]
	for _, v := range x[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
