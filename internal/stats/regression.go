package stats

import (
	"gonum.org/v1/gonum/stat"
)

// LinearRegression fits y = intercept + slope·x by ordinary least
// squares. Fewer than two points yields a flat fit.
func LinearRegression(x, y []float64) (slope, intercept float64) {
	if len(x) != len(y) || len(x) < 2 {
		if len(y) > 0 {
			return 0, Mean(y)
		}
		return 0, 0
	}

	intercept, slope = stat.LinearRegression(x, y, nil, false)
	return slope, intercept
}

// NormalizedSlope fits a regression over y and scales the slope by the
// series mean, giving a unit-free per-step growth rate. A zero or
// all-zero series yields 0.
func NormalizedSlope(y []float64) float64 {
	if len(y) < 2 {
		return 0
	}

	mean := Mean(y)
	if mean == 0 {
		return 0
	}

	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}

	slope, _ := LinearRegression(x, y)
	return slope / mean
}
