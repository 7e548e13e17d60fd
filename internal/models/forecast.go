package models

import "time"

// ForecastPoint is the predicted activity for a single future hour
type ForecastPoint struct {
	HourOffset     int       `json:"hour_offset"`
	Timestamp      time.Time `json:"timestamp"`
	PredictedCount float64   `json:"predicted_count"`
	Confidence     float64   `json:"confidence"` // 0.3 ~ 0.9
}

// Forecast is the full temporal forecast for a horizon
type Forecast struct {
	GeneratedAt time.Time       `json:"generated_at"`
	HorizonH    int             `json:"horizon_hours"`
	Points      []ForecastPoint `json:"points"`
	PeakHours   []ForecastPoint `json:"peak_hours"` // Top 5 by predicted count
	Trend       float64         `json:"trend"`      // Normalized hourly slope
}

// MarkovState is a discrete hourly activity level
type MarkovState int

const (
	StateLow MarkovState = iota
	StateMedium
	StateHigh
	StateCritical

	// NumMarkovStates is the dimension of the transition matrix
	NumMarkovStates = 4
)

// String returns the state label used in API payloads
func (s MarkovState) String() string {
	switch s {
	case StateLow:
		return "low"
	case StateMedium:
		return "medium"
	case StateHigh:
		return "high"
	case StateCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// StateFromCount maps an hourly event count onto an activity state
func StateFromCount(count int) MarkovState {
	switch {
	case count <= 1:
		return StateLow
	case count <= 3:
		return StateMedium
	case count <= 6:
		return StateHigh
	default:
		return StateCritical
	}
}

// StatePrediction is the most likely state h steps ahead
type StatePrediction struct {
	StepsAhead  int       `json:"steps_ahead"`
	State       string    `json:"state"`
	Probability float64   `json:"probability"`
	Timestamp   time.Time `json:"timestamp"`
}

// TransitionMatrix is the row-stochastic state transition matrix
type TransitionMatrix [NumMarkovStates][NumMarkovStates]float64

// MarkovForecast bundles the transition model outputs
type MarkovForecast struct {
	CurrentState string                   `json:"current_state"`
	Transitions  TransitionMatrix         `json:"transitions"`
	Predictions  []StatePrediction        `json:"predictions"`
	Stationary   [NumMarkovStates]float64 `json:"stationary"`
}
