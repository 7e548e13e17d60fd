package models

import (
	"math"
	"time"
)

// Severity classifies how serious an event is
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SeverityWeight returns the scoring weight for a severity class.
// Unknown severities fall back to the medium weight.
func SeverityWeight(s Severity) float64 {
	switch s {
	case SeverityLow:
		return 0.5
	case SeverityHigh:
		return 1.5
	default:
		return 1.0
	}
}

// Event represents a single geolocated incident record
type Event struct {
	ID         int64     `json:"id" db:"id"`
	Lat        float64   `json:"lat" db:"lat"`
	Lon        float64   `json:"lon" db:"lon"`
	OccurredAt time.Time `json:"occurred_at" db:"occurred_at"`
	Type       string    `json:"type" db:"type"`
	Severity   Severity  `json:"severity" db:"severity"`
}

// DefaultDecayHalfLifeHours is the recency half-life used when deriving
// point weights from event age.
const DefaultDecayHalfLifeHours = 72.0

// TimeDecay returns the exponential recency factor for an event that
// occurred hoursAgo hours before the reference time. A negative age
// (event in the future of the reference) is treated as zero age.
func TimeDecay(hoursAgo, halfLifeHours float64) float64 {
	if hoursAgo < 0 {
		hoursAgo = 0
	}
	if halfLifeHours <= 0 {
		halfLifeHours = DefaultDecayHalfLifeHours
	}
	return math.Exp(-hoursAgo * math.Ln2 / halfLifeHours)
}

// Weight computes the analytic weight of the event relative to now:
// recency decay multiplied by the severity weight.
func (e Event) Weight(now time.Time, halfLifeHours float64) float64 {
	hoursAgo := now.Sub(e.OccurredAt).Hours()
	return TimeDecay(hoursAgo, halfLifeHours) * SeverityWeight(e.Severity)
}
