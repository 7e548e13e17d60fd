package models

import (
	"math"
	"testing"
	"time"
)

func TestTimeDecay(t *testing.T) {
	if got := TimeDecay(0, 72); got != 1.0 {
		t.Errorf("decay at age 0 = %v, want 1.0", got)
	}
	if got := TimeDecay(72, 72); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("decay at one half-life = %v, want 0.5", got)
	}
	if got := TimeDecay(144, 72); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("decay at two half-lives = %v, want 0.25", got)
	}
	if got := TimeDecay(-5, 72); got != 1.0 {
		t.Errorf("future events decay as age zero, got %v", got)
	}
	if got := TimeDecay(72, 0); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("non-positive half-life falls back to default, got %v", got)
	}
}

func TestEventWeight(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	e := Event{OccurredAt: now.Add(-72 * time.Hour), Severity: SeverityHigh}

	if got := e.Weight(now, 72); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("weight = %v, want 0.5 decay × 1.5 severity = 0.75", got)
	}
}

func TestSeverityWeight(t *testing.T) {
	cases := map[Severity]float64{
		SeverityLow:    0.5,
		SeverityMedium: 1.0,
		SeverityHigh:   1.5,
		"unknown":      1.0,
	}
	for sev, want := range cases {
		if got := SeverityWeight(sev); got != want {
			t.Errorf("SeverityWeight(%q) = %v, want %v", sev, got, want)
		}
	}
}

func TestGeoBoundsValidate(t *testing.T) {
	good := GeoBounds{MinLat: 40, MaxLat: 41, MinLon: -75, MaxLon: -74}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid bounds rejected: %v", err)
	}

	bad := []GeoBounds{
		{MinLat: 41, MaxLat: 40, MinLon: -75, MaxLon: -74},
		{MinLat: 40, MaxLat: 41, MinLon: -74, MaxLon: -75},
		{MinLat: 40, MaxLat: 40, MinLon: -75, MaxLon: -74},
	}
	for i, b := range bad {
		if err := b.Validate(); err == nil {
			t.Errorf("case %d: invalid bounds accepted", i)
		}
	}
}

func TestMarkovStateString(t *testing.T) {
	cases := map[MarkovState]string{
		StateLow:      "low",
		StateMedium:   "medium",
		StateHigh:     "high",
		StateCritical: "critical",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("state %d = %q, want %q", state, got, want)
		}
	}
}
