package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citywatch/rtcc-backend-go/internal/models"
)

func TestScoreWeightedSum(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())

	score, err := s.Score("zone-1", SubjectZone, []models.RiskFactor{
		{Name: "incident_density", Value: 0.8, Weight: 0.5},
		{Name: "recent_trend", Value: 0.4, Weight: 0.5},
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.6, score.Score, 1e-9)
	assert.Equal(t, models.RiskHigh, score.Level)
	assert.Equal(t, "zone-1", score.SubjectID)
	assert.Equal(t, SubjectZone, score.SubjectType)
}

func TestScoreRejectsBadWeightSum(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())

	_, err := s.Score("p-1", SubjectPerson, []models.RiskFactor{
		{Name: "incident_history", Value: 0.5, Weight: 0.6},
		{Name: "recent_activity", Value: 0.5, Weight: 0.6},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestScoreClampsFactorValues(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())

	score, err := s.Score("v-1", SubjectVehicle, []models.RiskFactor{
		{Name: "incident_links", Value: 5.0, Weight: 0.5},
		{Name: "recency", Value: -1.0, Weight: 0.5},
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, score.Score, 1e-9)
	require.NotEmpty(t, score.TopFactors)
	assert.Equal(t, 1.0, score.TopFactors[0].Value)
}

func TestScoreMonotonic(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())
	weights := DefaultWeights(SubjectZone)

	low, err := s.Score("z", SubjectZone, BuildFactors(map[string]float64{
		"incident_density": 0.2, "recent_trend": 0.2, "severity_mix": 0.2, "temporal_pattern": 0.2,
	}, weights))
	require.NoError(t, err)

	high, err := s.Score("z", SubjectZone, BuildFactors(map[string]float64{
		"incident_density": 0.8, "recent_trend": 0.8, "severity_mix": 0.8, "temporal_pattern": 0.8,
	}, weights))
	require.NoError(t, err)

	assert.Greater(t, high.Score, low.Score)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, models.RiskCritical, LevelFor(0.8))
	assert.Equal(t, models.RiskHigh, LevelFor(0.6))
	assert.Equal(t, models.RiskElevated, LevelFor(0.4))
	assert.Equal(t, models.RiskModerate, LevelFor(0.2))
	assert.Equal(t, models.RiskLow, LevelFor(0.19))
}

func TestTopFactorsRankedByContribution(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())

	score, err := s.Score("a-1", SubjectAddress, []models.RiskFactor{
		{Name: "call_volume", Value: 0.1, Weight: 0.4},      // 0.04
		{Name: "incident_density", Value: 0.9, Weight: 0.3}, // 0.27
		{Name: "repeat_offenses", Value: 0.5, Weight: 0.2},  // 0.10
		{Name: "proximity_risk", Value: 0.6, Weight: 0.1},   // 0.06
	})
	require.NoError(t, err)

	require.Len(t, score.TopFactors, 3)
	assert.Equal(t, "incident_density", score.TopFactors[0].Name)
	assert.Equal(t, "repeat_offenses", score.TopFactors[1].Name)
	assert.Equal(t, "proximity_risk", score.TopFactors[2].Name)
}

func TestUpdateIncremental(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())

	old := models.RiskScore{SubjectID: "z", SubjectType: SubjectZone, Score: 0.50, Level: LevelFor(0.50)}

	updated := s.Update(old, "violent", models.SeverityHigh)
	assert.InDelta(t, 0.65, updated.Score, 1e-9) // 0.10 × 1.5
	assert.Equal(t, models.RiskHigh, updated.Level)

	// Unknown event types contribute nothing
	same := s.Update(old, "unknown", models.SeverityHigh)
	assert.Equal(t, old.Score, same.Score)
}

func TestUpdateClampsAtOne(t *testing.T) {
	s := NewScorer(DefaultScorerConfig())

	old := models.RiskScore{Score: 0.98, Level: LevelFor(0.98)}
	updated := s.Update(old, "violent", models.SeverityHigh)

	assert.Equal(t, 1.0, updated.Score)
	assert.Equal(t, models.RiskCritical, updated.Level)
}

func TestDefaultWeightTablesSumToOne(t *testing.T) {
	for _, subject := range []string{SubjectZone, SubjectPerson, SubjectVehicle, SubjectAddress} {
		var sum float64
		for _, w := range DefaultWeights(subject) {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "weights for %s", subject)
	}
}

func TestBuildFactorsSortedAndFiltered(t *testing.T) {
	weights := map[string]float64{"b_factor": 0.5, "a_factor": 0.5}
	values := map[string]float64{"a_factor": 0.3, "ignored": 0.9}

	factors := BuildFactors(values, weights)
	require.Len(t, factors, 2)
	assert.Equal(t, "a_factor", factors[0].Name)
	assert.Equal(t, 0.3, factors[0].Value)
	assert.Equal(t, "b_factor", factors[1].Name)
	assert.Zero(t, factors[1].Value)
}
