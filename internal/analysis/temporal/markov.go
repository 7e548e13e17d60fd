package temporal

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/citywatch/rtcc-backend-go/internal/models"
)

// MarkovConfig tunes the activity-state transition model
type MarkovConfig struct {
	// MaxPowerIterations bounds the stationary-distribution solve
	MaxPowerIterations int
	// ConvergenceTol is the L1 convergence tolerance
	ConvergenceTol float64
}

// DefaultMarkovConfig returns the stock Markov tuning
func DefaultMarkovConfig() MarkovConfig {
	return MarkovConfig{
		MaxPowerIterations: 100,
		ConvergenceTol:     1e-6,
	}
}

// MarkovForecaster models hourly activity as a 4-state Markov chain
// (low/medium/high/critical by hourly event count) and predicts the
// most likely state several steps ahead
type MarkovForecaster struct {
	cfg MarkovConfig
}

// NewMarkovForecaster creates a forecaster with the given tuning
func NewMarkovForecaster(cfg MarkovConfig) *MarkovForecaster {
	def := DefaultMarkovConfig()
	if cfg.MaxPowerIterations <= 0 {
		cfg.MaxPowerIterations = def.MaxPowerIterations
	}
	if cfg.ConvergenceTol <= 0 {
		cfg.ConvergenceTol = def.ConvergenceTol
	}
	return &MarkovForecaster{cfg: cfg}
}

// Forecast builds the transition matrix from the event history and
// predicts steps hours ahead. An empty history degrades to the low
// state with an identity matrix.
func (m *MarkovForecaster) Forecast(events []models.Event, now time.Time, steps int) models.MarkovForecast {
	if steps < 1 {
		steps = 1
	}

	buckets := HourlyBuckets(events, now)
	transitions := m.TransitionMatrix(buckets.States())
	current := buckets.CurrentState()

	// One-hot current-state row vector, advanced by v ← v·P per step
	v := mat.NewDense(1, models.NumMarkovStates, nil)
	v.Set(0, int(current), 1)

	predictions := make([]models.StatePrediction, steps)
	for step := 1; step <= steps; step++ {
		var next mat.Dense
		next.Mul(v, transitions)
		v = &next

		best, prob := argmaxRow(v)
		predictions[step-1] = models.StatePrediction{
			StepsAhead:  step,
			State:       models.MarkovState(best).String(),
			Probability: prob,
			Timestamp:   now.Add(time.Duration(step) * time.Hour),
		}
	}

	return models.MarkovForecast{
		CurrentState: current.String(),
		Transitions:  toArray(transitions),
		Predictions:  predictions,
		Stationary:   m.stationary(transitions),
	}
}

// TransitionMatrix counts consecutive state transitions and normalizes
// each row to sum 1. A state with no observed outgoing transitions
// keeps probability 1 of staying put.
func (m *MarkovForecaster) TransitionMatrix(states []models.MarkovState) *mat.Dense {
	n := models.NumMarkovStates
	counts := mat.NewDense(n, n, nil)
	for i := 0; i+1 < len(states); i++ {
		from, to := int(states[i]), int(states[i+1])
		counts.Set(from, to, counts.At(from, to)+1)
	}

	p := mat.NewDense(n, n, nil)
	for row := 0; row < n; row++ {
		var rowSum float64
		for col := 0; col < n; col++ {
			rowSum += counts.At(row, col)
		}
		if rowSum == 0 {
			p.Set(row, row, 1) // identity default
			continue
		}
		for col := 0; col < n; col++ {
			p.Set(row, col, counts.At(row, col)/rowSum)
		}
	}
	return p
}

// stationary finds the distribution π with π·P = π by power iteration,
// starting from uniform
func (m *MarkovForecaster) stationary(p *mat.Dense) [models.NumMarkovStates]float64 {
	n := models.NumMarkovStates
	v := mat.NewDense(1, n, nil)
	for i := 0; i < n; i++ {
		v.Set(0, i, 1/float64(n))
	}

	for iter := 0; iter < m.cfg.MaxPowerIterations; iter++ {
		var next mat.Dense
		next.Mul(v, p)

		var diff float64
		for i := 0; i < n; i++ {
			diff += math.Abs(next.At(0, i) - v.At(0, i))
		}
		v = &next
		if diff < m.cfg.ConvergenceTol {
			break
		}
	}

	var out [models.NumMarkovStates]float64
	for i := 0; i < n; i++ {
		out[i] = v.At(0, i)
	}
	return out
}

// argmaxRow returns the column with the largest value in a 1×n matrix
func argmaxRow(v *mat.Dense) (idx int, value float64) {
	_, cols := v.Dims()
	value = v.At(0, 0)
	for c := 1; c < cols; c++ {
		if v.At(0, c) > value {
			idx = c
			value = v.At(0, c)
		}
	}
	return idx, value
}

// toArray copies a 4×4 matrix into the wire representation
func toArray(p *mat.Dense) models.TransitionMatrix {
	var out models.TransitionMatrix
	for r := 0; r < models.NumMarkovStates; r++ {
		for c := 0; c < models.NumMarkovStates; c++ {
			out[r][c] = p.At(r, c)
		}
	}
	return out
}
