package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citywatch/rtcc-backend-go/internal/models"
)

func TestTransitionMatrixFromSequence(t *testing.T) {
	states := []models.MarkovState{
		models.StateLow, models.StateLow, models.StateMedium,
		models.StateHigh, models.StateHigh, models.StateCritical,
		models.StateHigh, models.StateMedium,
	}

	m := NewMarkovForecaster(DefaultMarkovConfig())
	p := m.TransitionMatrix(states)

	// Observed transitions must carry probability mass
	assert.Greater(t, p.At(int(models.StateLow), int(models.StateLow)), 0.0)
	assert.Greater(t, p.At(int(models.StateLow), int(models.StateMedium)), 0.0)
	assert.Greater(t, p.At(int(models.StateMedium), int(models.StateHigh)), 0.0)

	// low: 1×low→low, 1×low→medium out of 2 outgoing
	assert.InDelta(t, 0.5, p.At(int(models.StateLow), int(models.StateLow)), 1e-9)
	assert.InDelta(t, 0.5, p.At(int(models.StateLow), int(models.StateMedium)), 1e-9)

	for row := 0; row < models.NumMarkovStates; row++ {
		var sum float64
		for col := 0; col < models.NumMarkovStates; col++ {
			sum += p.At(row, col)
		}
		assert.InDelta(t, 1.0, sum, 1e-6, "row %d must sum to 1", row)
	}
}

func TestTransitionMatrixIdentityDefault(t *testing.T) {
	m := NewMarkovForecaster(DefaultMarkovConfig())
	p := m.TransitionMatrix(nil)

	for row := 0; row < models.NumMarkovStates; row++ {
		for col := 0; col < models.NumMarkovStates; col++ {
			want := 0.0
			if row == col {
				want = 1.0
			}
			assert.Equal(t, want, p.At(row, col),
				"state with no observed transitions stays put")
		}
	}
}

// countsToEvents builds count[i] events in the hour starting at
// start+i hours
func countsToEvents(start time.Time, counts []int) []models.Event {
	var events []models.Event
	for i, c := range counts {
		ts := start.Add(time.Duration(i) * time.Hour)
		for j := 0; j < c; j++ {
			events = append(events, models.Event{
				OccurredAt: ts,
				Severity:   models.SeverityMedium,
			})
		}
	}
	return events
}

func TestMarkovForecast(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	// Hourly counts mapping to low,low,medium,high,high,critical,high,medium
	events := countsToEvents(start, []int{1, 1, 2, 4, 5, 7, 4, 2})
	now := start.Add(7*time.Hour + 30*time.Minute)

	m := NewMarkovForecaster(DefaultMarkovConfig())
	fc := m.Forecast(events, now, 6)

	assert.Equal(t, "medium", fc.CurrentState)
	require.Len(t, fc.Predictions, 6)

	for i, pred := range fc.Predictions {
		assert.Equal(t, i+1, pred.StepsAhead)
		assert.Equal(t, now.Add(time.Duration(i+1)*time.Hour), pred.Timestamp)
		assert.Greater(t, pred.Probability, 0.0)
		assert.LessOrEqual(t, pred.Probability, 1.0)
	}

	var stationarySum float64
	for _, p := range fc.Stationary {
		stationarySum += p
	}
	assert.InDelta(t, 1.0, stationarySum, 1e-6)
}

func TestMarkovForecastEmptyHistory(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	m := NewMarkovForecaster(DefaultMarkovConfig())
	fc := m.Forecast(nil, now, 3)

	assert.Equal(t, "low", fc.CurrentState)
	require.Len(t, fc.Predictions, 3)
	for _, pred := range fc.Predictions {
		assert.Equal(t, "low", pred.State, "identity matrix keeps the chain in place")
		assert.Equal(t, 1.0, pred.Probability)
	}
}

func TestStateFromCount(t *testing.T) {
	assert.Equal(t, models.StateLow, models.StateFromCount(0))
	assert.Equal(t, models.StateLow, models.StateFromCount(1))
	assert.Equal(t, models.StateMedium, models.StateFromCount(3))
	assert.Equal(t, models.StateHigh, models.StateFromCount(6))
	assert.Equal(t, models.StateCritical, models.StateFromCount(7))
}
