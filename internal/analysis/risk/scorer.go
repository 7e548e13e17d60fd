// Package risk implements the shared weighted-factor scorer used for
// spatial zones and for person/vehicle/address entities. One scorer
// serves every subject type; the factor values and weight tables are
// the caller's input, not behavior baked in here.
package risk

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/citywatch/rtcc-backend-go/internal/models"
	"github.com/citywatch/rtcc-backend-go/internal/stats"
)

// ErrInvalidWeights is raised when a factor table's weights do not sum to 1
var ErrInvalidWeights = errors.New("factor weights must sum to 1")

// weightTolerance is the permitted deviation from a unit weight sum
const weightTolerance = 1e-6

// ScorerConfig tunes scoring behavior shared by all subject types
type ScorerConfig struct {
	// TopFactors is how many factors to report for explainability
	TopFactors int
	// EventTypeDeltas drives the incremental update path: base score
	// delta per event type, scaled by the event's severity weight
	EventTypeDeltas map[string]float64
}

// DefaultScorerConfig returns the stock scoring tuning
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		TopFactors: 3,
		EventTypeDeltas: map[string]float64{
			"violent":  0.10,
			"property": 0.05,
			"disorder": 0.03,
			"traffic":  0.02,
		},
	}
}

// Scorer computes weighted multi-factor risk scores
type Scorer struct {
	cfg ScorerConfig
}

// NewScorer creates a scorer with the given tuning
func NewScorer(cfg ScorerConfig) *Scorer {
	if cfg.TopFactors <= 0 {
		cfg.TopFactors = DefaultScorerConfig().TopFactors
	}
	if cfg.EventTypeDeltas == nil {
		cfg.EventTypeDeltas = DefaultScorerConfig().EventTypeDeltas
	}
	return &Scorer{cfg: cfg}
}

// Score aggregates the factor set into a single 0~1 score. Factor
// values are clamped to [0,1]; the weights must sum to 1 ±1e-6 or the
// call fails. The result carries the top factors by value×weight for
// explainability.
func (s *Scorer) Score(subjectID, subjectType string, factors []models.RiskFactor) (models.RiskScore, error) {
	var weightSum float64
	for _, f := range factors {
		weightSum += f.Weight
	}
	if math.Abs(weightSum-1) > weightTolerance {
		return models.RiskScore{}, fmt.Errorf("%w: %s weights sum to %v", ErrInvalidWeights, subjectType, weightSum)
	}

	var score float64
	clamped := make([]models.RiskFactor, len(factors))
	for i, f := range factors {
		f.Value = stats.Clamp(f.Value, 0, 1)
		clamped[i] = f
		score += f.Value * f.Weight
	}
	score = stats.Clamp(score, 0, 1)

	return models.RiskScore{
		SubjectID:   subjectID,
		SubjectType: subjectType,
		Score:       score,
		Level:       LevelFor(score),
		TopFactors:  s.topFactors(clamped),
	}, nil
}

// Update applies an incremental additive delta for a newly ingested
// event. This is a low-latency approximation that can drift from a
// full recompute over many updates; callers are expected to recompute
// periodically. Top factors are carried over unchanged.
func (s *Scorer) Update(old models.RiskScore, eventType string, severity models.Severity) models.RiskScore {
	delta := s.cfg.EventTypeDeltas[eventType] * models.SeverityWeight(severity)

	updated := old
	updated.Score = stats.Clamp(old.Score+delta, 0, 1)
	updated.Level = LevelFor(updated.Score)
	return updated
}

// LevelFor buckets a score into its display level
func LevelFor(score float64) models.RiskLevel {
	switch {
	case score >= 0.8:
		return models.RiskCritical
	case score >= 0.6:
		return models.RiskHigh
	case score >= 0.4:
		return models.RiskElevated
	case score >= 0.2:
		return models.RiskModerate
	default:
		return models.RiskLow
	}
}

// topFactors ranks factors by contribution (value×weight), largest
// first, input order breaking ties
func (s *Scorer) topFactors(factors []models.RiskFactor) []models.RiskFactor {
	ranked := make([]models.RiskFactor, len(factors))
	copy(ranked, factors)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Value*ranked[a].Weight > ranked[b].Value*ranked[b].Weight
	})
	if len(ranked) > s.cfg.TopFactors {
		ranked = ranked[:s.cfg.TopFactors]
	}
	return ranked
}
