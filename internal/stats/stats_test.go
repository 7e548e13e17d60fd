package stats

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("Mean = %v, want 2.5", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
}

func TestStdDev(t *testing.T) {
	got := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	want := 2.13809
	if math.Abs(got-want) > 1e-4 {
		t.Errorf("StdDev = %v, want %v", got, want)
	}
	if got := StdDev([]float64{5}); got != 0 {
		t.Errorf("StdDev of single value = %v, want 0", got)
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := Percentile(values, 50); got != 5.5 {
		t.Errorf("P50 = %v, want 5.5", got)
	}
	if got := Percentile(values, 90); math.Abs(got-9.1) > 1e-9 {
		t.Errorf("P90 = %v, want 9.1", got)
	}
	if got := Percentile(nil, 90); got != 0 {
		t.Errorf("P90(nil) = %v, want 0", got)
	}
	// Out-of-range p values clamp
	if got := Percentile(values, 200); got != 10 {
		t.Errorf("P200 = %v, want 10", got)
	}
}

func TestLinearRegression(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{1, 3, 5, 7}
	slope, intercept := LinearRegression(x, y)
	if math.Abs(slope-2) > 1e-9 || math.Abs(intercept-1) > 1e-9 {
		t.Errorf("LinearRegression = (%v, %v), want (2, 1)", slope, intercept)
	}
}

func TestNormalizedSlope(t *testing.T) {
	// Rising series: positive normalized slope
	if got := NormalizedSlope([]float64{1, 2, 3, 4}); got <= 0 {
		t.Errorf("NormalizedSlope rising = %v, want > 0", got)
	}
	// Flat series: zero slope
	if got := NormalizedSlope([]float64{3, 3, 3}); got != 0 {
		t.Errorf("NormalizedSlope flat = %v, want 0", got)
	}
	// All-zero series guards the division
	if got := NormalizedSlope([]float64{0, 0, 0}); got != 0 {
		t.Errorf("NormalizedSlope zeros = %v, want 0", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(1.5, 0, 1); got != 1 {
		t.Errorf("Clamp(1.5) = %v, want 1", got)
	}
	if got := Clamp(-0.5, 0, 1); got != 0 {
		t.Errorf("Clamp(-0.5) = %v, want 0", got)
	}
	if got := Clamp(0.7, 0, 1); got != 0.7 {
		t.Errorf("Clamp(0.7) = %v, want 0.7", got)
	}
}
