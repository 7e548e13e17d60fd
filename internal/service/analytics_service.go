package service

import (
	"log"
	"time"

	"github.com/citywatch/rtcc-backend-go/internal/analysis/risk"
	"github.com/citywatch/rtcc-backend-go/internal/analysis/route"
	"github.com/citywatch/rtcc-backend-go/internal/analysis/spatial"
	"github.com/citywatch/rtcc-backend-go/internal/analysis/temporal"
	"github.com/citywatch/rtcc-backend-go/internal/config"
	"github.com/citywatch/rtcc-backend-go/internal/models"
)

// EventSource supplies event snapshots for a bounds+lookback window.
// The sqlite repository implements it in production; tests inject
// fixtures directly.
type EventSource interface {
	QueryWindow(bounds models.GeoBounds, now time.Time, lookback time.Duration) ([]models.Event, error)
}

// AnalyticsService wires the event source to the pure analytics core.
// When the source is unavailable it serves the injected fixture
// snapshot and flags every response as degraded; there is no random
// fallback data anywhere.
type AnalyticsService struct {
	source  EventSource
	fixture []models.Event
	cfg     config.AnalyticsConfig

	density  *spatial.DensityEstimator
	clusters *spatial.ClusterDetector
	hotzones *spatial.HotZoneExtractor
	forecast *temporal.TemporalForecaster
	markov   *temporal.MarkovForecaster
	seasonal *temporal.SeasonalAdjuster
	scorer   *risk.Scorer
	routes   *route.Optimizer
}

// NewAnalyticsService creates the service. fixture may be nil; a nil
// fixture means degraded responses carry an empty snapshot.
func NewAnalyticsService(source EventSource, fixture []models.Event, cfg config.AnalyticsConfig) *AnalyticsService {
	return &AnalyticsService{
		source:   source,
		fixture:  fixture,
		cfg:      cfg,
		density:  spatial.NewDensityEstimator(cfg.Density),
		clusters: spatial.NewClusterDetector(cfg.Cluster),
		hotzones: spatial.NewHotZoneExtractor(cfg.HotZone),
		forecast: temporal.NewTemporalForecaster(cfg.Forecast),
		markov:   temporal.NewMarkovForecaster(cfg.Markov),
		seasonal: temporal.NewSeasonalAdjuster(cfg.Calendar),
		scorer:   risk.NewScorer(cfg.Risk),
		routes:   route.NewOptimizer(cfg.Route),
	}
}

// snapshot fetches events, degrading to the fixture when the source
// fails. The second return value reports degraded mode.
func (s *AnalyticsService) snapshot(bounds models.GeoBounds, now time.Time, lookback time.Duration) ([]models.Event, bool) {
	events, err := s.source.QueryWindow(bounds, now, lookback)
	if err != nil {
		log.Printf("[AnalyticsService] Event source unavailable, serving fixture snapshot: %v", err)
		return s.fixture, true
	}
	return events, false
}

// weightedPoints derives analytic weights (recency decay × severity)
// from a snapshot
func (s *AnalyticsService) weightedPoints(events []models.Event, now time.Time) []models.WeightedPoint {
	points := make([]models.WeightedPoint, len(events))
	for i, e := range events {
		points[i] = models.WeightedPoint{
			Lat:    e.Lat,
			Lon:    e.Lon,
			Weight: e.Weight(now, s.cfg.DecayHalfLifeHours),
		}
	}
	return points
}

// HeatmapResult is the density surface plus degraded-mode flag
type HeatmapResult struct {
	Points   []models.HeatmapPoint `json:"points"`
	GridSize int                   `json:"grid_size"`
	Degraded bool                  `json:"degraded"`
}

// Heatmap computes the KDE density surface for the window
func (s *AnalyticsService) Heatmap(bounds models.GeoBounds, now time.Time, lookback time.Duration, gridSize int) (*HeatmapResult, error) {
	events, degraded := s.snapshot(bounds, now, lookback)
	grid, err := s.density.Estimate(s.weightedPoints(events, now), bounds, gridSize)
	if err != nil {
		return nil, err
	}
	return &HeatmapResult{
		Points:   grid.HeatmapPoints(),
		GridSize: gridSize,
		Degraded: degraded,
	}, nil
}

// ClusterResult is the cluster set plus degraded-mode flag
type ClusterResult struct {
	Clusters []models.Cluster `json:"clusters"`
	Degraded bool             `json:"degraded"`
}

// Clusters runs density-reachability clustering for the window
func (s *AnalyticsService) Clusters(bounds models.GeoBounds, now time.Time, lookback time.Duration) (*ClusterResult, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	events, degraded := s.snapshot(bounds, now, lookback)
	return &ClusterResult{
		Clusters: s.clusters.Detect(s.weightedPoints(events, now)),
		Degraded: degraded,
	}, nil
}

// HotZoneResult is the hot-zone set plus degraded-mode flag
type HotZoneResult struct {
	Zones    []models.HotZone `json:"zones"`
	Degraded bool             `json:"degraded"`
}

// HotZones extracts above-threshold density regions for the window
func (s *AnalyticsService) HotZones(bounds models.GeoBounds, now time.Time, lookback time.Duration, gridSize int) (*HotZoneResult, error) {
	events, degraded := s.snapshot(bounds, now, lookback)
	grid, err := s.density.Estimate(s.weightedPoints(events, now), bounds, gridSize)
	if err != nil {
		return nil, err
	}
	return &HotZoneResult{
		Zones:    s.hotzones.Extract(grid),
		Degraded: degraded,
	}, nil
}

// ForecastResult is the temporal forecast plus seasonal aggregate and
// degraded-mode flag
type ForecastResult struct {
	Forecast models.Forecast `json:"forecast"`
	// AdjustedTotal is the seasonally adjusted expected count over the
	// whole horizon
	AdjustedTotal float64 `json:"adjusted_total"`
	Degraded      bool    `json:"degraded"`
}

// Forecast predicts hourly activity for the horizon and seasonally
// adjusts the aggregate by the calendar composition of the window
func (s *AnalyticsService) Forecast(bounds models.GeoBounds, now time.Time, lookback time.Duration, horizonHours int) (*ForecastResult, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	events, degraded := s.snapshot(bounds, now, lookback)

	fc := s.forecast.Forecast(events, now, horizonHours)

	var expected float64
	for _, p := range fc.Points {
		expected += p.PredictedCount
	}
	adjusted := s.seasonal.Adjust(expected, now, now.Add(time.Duration(horizonHours)*time.Hour))

	return &ForecastResult{
		Forecast:      fc,
		AdjustedTotal: adjusted,
		Degraded:      degraded,
	}, nil
}

// MarkovResult is the state forecast plus degraded-mode flag
type MarkovResult struct {
	Forecast models.MarkovForecast `json:"forecast"`
	Degraded bool                  `json:"degraded"`
}

// Markov predicts the activity state several hours ahead
func (s *AnalyticsService) Markov(bounds models.GeoBounds, now time.Time, lookback time.Duration, steps int) (*MarkovResult, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	events, degraded := s.snapshot(bounds, now, lookback)
	return &MarkovResult{
		Forecast: s.markov.Forecast(events, now, steps),
		Degraded: degraded,
	}, nil
}

// ScoreSubject scores one subject from pre-aggregated factor values
// using the stock weight table for its type
func (s *AnalyticsService) ScoreSubject(subjectID, subjectType string, values map[string]float64) (models.RiskScore, error) {
	factors := risk.BuildFactors(values, risk.DefaultWeights(subjectType))
	return s.scorer.Score(subjectID, subjectType, factors)
}

// UpdateScore applies the low-latency incremental path for a newly
// ingested event. The result is approximate; see the scorer.
func (s *AnalyticsService) UpdateScore(old models.RiskScore, eventType string, severity models.Severity) models.RiskScore {
	return s.scorer.Update(old, eventType, severity)
}

// RouteResult is the planned route plus degraded-mode flag
type RouteResult struct {
	Route    models.Route `json:"route"`
	Degraded bool         `json:"degraded"`
}

// PlanRoute assembles the candidate pool from the other analytics
// outputs over the window and sequences a patrol route. Priority zone
// centers come from the caller's strategy layer, not from this core.
func (s *AnalyticsService) PlanRoute(req route.Request, priority []route.PriorityZone, bounds models.GeoBounds, now time.Time, lookback time.Duration, gridSize int) (*RouteResult, error) {
	events, degraded := s.snapshot(bounds, now, lookback)
	points := s.weightedPoints(events, now)

	grid, err := s.density.Estimate(points, bounds, gridSize)
	if err != nil {
		return nil, err
	}

	inputs, err := s.candidateInputs(grid, events, now)
	if err != nil {
		return nil, err
	}
	inputs.PriorityZones = priority

	planned, err := s.routes.Plan(req, inputs)
	if err != nil {
		return nil, err
	}
	return &RouteResult{Route: planned, Degraded: degraded}, nil
}

// candidateInputs derives the optimizer's candidate pool: scored hot
// zones, forecast peaks projected onto the strongest zones, and
// cluster centroids as historical pattern locations.
func (s *AnalyticsService) candidateInputs(grid *spatial.DensityGrid, events []models.Event, now time.Time) (route.CandidateInputs, error) {
	var inputs route.CandidateInputs

	zones := s.hotzones.Extract(grid)
	fc := s.forecast.Forecast(events, now, 24)

	peakActivity := 0.0
	for _, p := range fc.PeakHours {
		if p.PredictedCount > peakActivity {
			peakActivity = p.PredictedCount
		}
	}

	for _, z := range zones {
		score, err := s.scorer.Score(z.ID, risk.SubjectZone, risk.BuildFactors(
			map[string]float64{
				"incident_density": z.MeanDensity,
				"recent_trend":     normalizeTrend(fc.Trend),
				"severity_mix":     z.Confidence,
				"temporal_pattern": z.MeanDensity,
			},
			risk.DefaultWeights(risk.SubjectZone),
		))
		if err != nil {
			return route.CandidateInputs{}, err
		}
		inputs.RiskZones = append(inputs.RiskZones, route.ScoredZone{Zone: z, Risk: score})

		// Project forecast peaks onto zone centers so predicted
		// hotspots carry both a location and a shift-window timestamp
		for _, p := range fc.PeakHours {
			activity := 0.0
			if peakActivity > 0 {
				activity = p.PredictedCount / peakActivity
			}
			inputs.Hotspots = append(inputs.Hotspots, route.PredictedHotspot{
				Lat:       z.CentroidLat,
				Lon:       z.CentroidLon,
				Timestamp: p.Timestamp,
				Activity:  activity * z.MeanDensity,
			})
		}
	}

	points := s.weightedPoints(events, now)
	for _, c := range s.clusters.Detect(points) {
		inputs.Patterns = append(inputs.Patterns, route.HistoricalPattern{
			Lat:       c.CentroidLat,
			Lon:       c.CentroidLon,
			HourOfDay: now.Hour(),
			Strength:  c.Confidence,
		})
	}

	return inputs, nil
}

// normalizeTrend maps the unbounded trend slope into [0,1] with 0.5
// meaning flat
func normalizeTrend(trend float64) float64 {
	v := 0.5 + trend/2
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
