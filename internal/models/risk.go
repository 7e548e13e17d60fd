package models

// RiskFactor is a single named contribution to a risk score
type RiskFactor struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`  // Normalized 0~1
	Weight float64 `json:"weight"` // Factor weights for one subject type sum to 1
}

// RiskLevel buckets a score for display and triage
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskElevated RiskLevel = "elevated"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskScore is the scored result for one subject (zone, person,
// vehicle or address)
type RiskScore struct {
	SubjectID   string       `json:"subject_id"`
	SubjectType string       `json:"subject_type"`
	Score       float64      `json:"score"` // 0~1
	Level       RiskLevel    `json:"level"`
	TopFactors  []RiskFactor `json:"top_factors"` // ≤3, by value×weight desc
}
