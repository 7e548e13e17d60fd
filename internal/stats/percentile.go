package stats

import (
	"math"
	"sort"
)

// Percentile calculates the p-th percentile (0-100)
// Uses linear interpolation between closest ranks
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	return Quantile(values, p/100.0)
}

// Quantile calculates the q-th quantile (0-1) with linear interpolation
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	index := q * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
