package risk

import (
	"sort"

	"github.com/citywatch/rtcc-backend-go/internal/models"
)

// Subject types served by the scorer
const (
	SubjectZone    = "zone"
	SubjectPerson  = "person"
	SubjectVehicle = "vehicle"
	SubjectAddress = "address"
)

// DefaultWeights returns the stock factor weight table for a subject
// type. Every table sums to 1; deployments override these through
// configuration. Unknown subject types get the zone table.
func DefaultWeights(subjectType string) map[string]float64 {
	switch subjectType {
	case SubjectPerson:
		return map[string]float64{
			"incident_history":   0.35,
			"recent_activity":    0.30,
			"association_degree": 0.20,
			"alert_flags":        0.15,
		}
	case SubjectVehicle:
		return map[string]float64{
			"sighting_frequency": 0.30,
			"incident_links":     0.35,
			"flagged_owner":      0.20,
			"recency":            0.15,
		}
	case SubjectAddress:
		return map[string]float64{
			"call_volume":      0.35,
			"incident_density": 0.30,
			"repeat_offenses":  0.20,
			"proximity_risk":   0.15,
		}
	default:
		return map[string]float64{
			"incident_density":  0.30,
			"recent_trend":      0.25,
			"severity_mix":      0.25,
			"temporal_pattern":  0.20,
		}
	}
}

// BuildFactors joins named values with a weight table into the factor
// set the scorer consumes, in sorted name order so output is stable.
// Values missing from the table are dropped; weights missing a value
// contribute zero.
func BuildFactors(values map[string]float64, weights map[string]float64) []models.RiskFactor {
	factors := make([]models.RiskFactor, 0, len(weights))
	for name, w := range weights {
		factors = append(factors, models.RiskFactor{
			Name:   name,
			Value:  values[name],
			Weight: w,
		})
	}
	sort.Slice(factors, func(a, b int) bool {
		return factors[a].Name < factors[b].Name
	})
	return factors
}
