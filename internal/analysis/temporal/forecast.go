// Package temporal implements the forecasting half of the analytics
// core: hour-of-day / day-of-week pattern decomposition with a linear
// trend, a Markov activity-state model, and calendar-based seasonal
// adjustment. Everything is deterministic given a fixed snapshot and
// reference time.
package temporal

import (
	"sort"
	"time"

	"github.com/citywatch/rtcc-backend-go/internal/models"
	"github.com/citywatch/rtcc-backend-go/internal/stats"
)

// ForecasterConfig tunes the temporal forecaster
type ForecasterConfig struct {
	// RecentWindowHours bounds the recent-average window (hours)
	RecentWindowHours int
	// MaxConfidence is the confidence at forecast hour 0
	MaxConfidence float64
	// MinConfidence is the confidence floor at the horizon
	MinConfidence float64
	// PeakHours is how many peak hours to report
	PeakHours int
}

// DefaultForecasterConfig returns the stock forecasting tuning
func DefaultForecasterConfig() ForecasterConfig {
	return ForecasterConfig{
		RecentWindowHours: 168,
		MaxConfidence:     0.9,
		MinConfidence:     0.3,
		PeakHours:         5,
	}
}

// TemporalForecaster predicts hourly activity counts by decomposing
// the historical series into a baseline, hour-of-day and day-of-week
// multipliers, and a linear trend
type TemporalForecaster struct {
	cfg ForecasterConfig
}

// NewTemporalForecaster creates a forecaster with the given tuning
func NewTemporalForecaster(cfg ForecasterConfig) *TemporalForecaster {
	def := DefaultForecasterConfig()
	if cfg.RecentWindowHours <= 0 {
		cfg.RecentWindowHours = def.RecentWindowHours
	}
	if cfg.MaxConfidence <= 0 || cfg.MaxConfidence > 1 {
		cfg.MaxConfidence = def.MaxConfidence
	}
	if cfg.MinConfidence <= 0 || cfg.MinConfidence > cfg.MaxConfidence {
		cfg.MinConfidence = def.MinConfidence
	}
	if cfg.PeakHours <= 0 {
		cfg.PeakHours = def.PeakHours
	}
	return &TemporalForecaster{cfg: cfg}
}

// Forecast predicts the next horizonHours of activity from the event
// history, relative to now. An empty history yields a flat zero
// forecast rather than an error.
func (f *TemporalForecaster) Forecast(events []models.Event, now time.Time, horizonHours int) models.Forecast {
	if horizonHours < 1 {
		horizonHours = 1
	}

	buckets := HourlyBuckets(events, now)
	trend := stats.NormalizedSlope(buckets.Counts)
	hourMult, dowMult := buckets.PatternMultipliers()
	recent := buckets.RecentAverage(f.cfg.RecentWindowHours)

	points := make([]models.ForecastPoint, horizonHours)
	for h := 0; h < horizonHours; h++ {
		ts := now.Add(time.Duration(h) * time.Hour)

		predicted := recent *
			hourMult[ts.Hour()] *
			dowMult[int(ts.Weekday())] *
			(1 + trend*float64(h)/24)
		if predicted < 0 {
			predicted = 0
		}

		points[h] = models.ForecastPoint{
			HourOffset:     h,
			Timestamp:      ts,
			PredictedCount: predicted,
			Confidence:     f.confidence(h, horizonHours),
		}
	}

	return models.Forecast{
		GeneratedAt: now,
		HorizonH:    horizonHours,
		Points:      points,
		PeakHours:   f.peaks(points),
		Trend:       trend,
	}
}

// confidence decays linearly from MaxConfidence at h=0 toward
// MinConfidence at the horizon
func (f *TemporalForecaster) confidence(h, horizon int) float64 {
	if horizon <= 1 {
		return f.cfg.MaxConfidence
	}
	span := f.cfg.MaxConfidence - f.cfg.MinConfidence
	c := f.cfg.MaxConfidence - span*float64(h)/float64(horizon-1)
	if c < f.cfg.MinConfidence {
		c = f.cfg.MinConfidence
	}
	return c
}

// peaks returns the top forecast points by predicted count, earliest
// first among equals
func (f *TemporalForecaster) peaks(points []models.ForecastPoint) []models.ForecastPoint {
	ranked := make([]models.ForecastPoint, len(points))
	copy(ranked, points)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].PredictedCount > ranked[b].PredictedCount
	})
	if len(ranked) > f.cfg.PeakHours {
		ranked = ranked[:f.cfg.PeakHours]
	}
	return ranked
}
