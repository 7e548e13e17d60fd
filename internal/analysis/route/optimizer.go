package route

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/citywatch/rtcc-backend-go/internal/models"
	"github.com/citywatch/rtcc-backend-go/internal/spatial"
)

// ErrInvalidWaypointCount is raised when the requested stop count is
// outside [3,20]
var ErrInvalidWaypointCount = errors.New("waypoint count must be in [3,20]")

// Waypoint count limits
const (
	MinWaypoints = 3
	MaxWaypoints = 20
)

// OptimizerConfig tunes candidate scoring and sequencing
type OptimizerConfig struct {
	// DedupRadiusKm collapses candidates closer than this
	DedupRadiusKm float64

	// Candidate score weights (sum 1)
	RiskWeight       float64
	PredictedWeight  float64
	HistoricalWeight float64
	CoverageWeight   float64

	// PriorityZoneBoost multiplies the score of mandatory-zone members
	PriorityZoneBoost float64

	// Sequencing weights (sum 1)
	ProximityWeight float64
	PriorityWeight  float64

	// CoverageGapScaleKm is the neighbor distance at which the
	// coverage-gap factor saturates at 1
	CoverageGapScaleKm float64

	// PatrolSpeedKmh drives the duration estimate
	PatrolSpeedKmh float64
}

// DefaultOptimizerConfig returns the stock route tuning
func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		DedupRadiusKm:      0.5,
		RiskWeight:         0.35,
		PredictedWeight:    0.25,
		HistoricalWeight:   0.20,
		CoverageWeight:     0.20,
		PriorityZoneBoost:  1.5,
		ProximityWeight:    0.4,
		PriorityWeight:     0.6,
		CoverageGapScaleKm: 5.0,
		PatrolSpeedKmh:     30.0,
	}
}

// Request describes one route computation
type Request struct {
	StartLat        float64
	StartLon        float64
	MaxDistanceKm   float64
	WaypointCount   int
	PriorityZoneIDs []string
	ShiftStart      time.Time
	ShiftEnd        time.Time
}

// Optimizer plans patrol routes over candidate waypoints
type Optimizer struct {
	cfg OptimizerConfig
}

// NewOptimizer creates an optimizer with the given tuning
func NewOptimizer(cfg OptimizerConfig) *Optimizer {
	if cfg.PatrolSpeedKmh <= 0 {
		cfg = DefaultOptimizerConfig()
	}
	return &Optimizer{cfg: cfg}
}

// Plan generates, scores and sequences a patrol route. When no
// candidate is reachable within the budget the result is an explicit
// empty route with a diagnostic message, not an error.
func (o *Optimizer) Plan(req Request, inputs CandidateInputs) (models.Route, error) {
	if req.WaypointCount < MinWaypoints || req.WaypointCount > MaxWaypoints {
		return models.Route{}, fmt.Errorf("%w: got %d", ErrInvalidWaypointCount, req.WaypointCount)
	}

	cands := generate(inputs, req.ShiftStart, req.ShiftEnd)
	cands = dedupe(cands, o.cfg.DedupRadiusKm)
	o.scoreCandidates(cands, req.PriorityZoneIDs)
	cands = topK(cands, req.WaypointCount)

	waypoints, total := o.sequence(cands, req)
	routeID := uuid.NewString()

	if len(waypoints) == 0 {
		return models.Route{
			ID:       routeID,
			StartLat: req.StartLat,
			StartLon: req.StartLon,
			Message:  "no candidate waypoints reachable within the distance budget",
		}, nil
	}

	last := waypoints[len(waypoints)-1]
	returnKm := spatial.HaversineKm(last.Lat, last.Lon, req.StartLat, req.StartLon)

	return models.Route{
		ID:        routeID,
		StartLat:  req.StartLat,
		StartLon:  req.StartLon,
		Waypoints: waypoints,
		Stats:     o.stats(waypoints, total, returnKm),
	}, nil
}

// scoreCandidates assigns the composite priority:
// 0.35·risk + 0.25·predicted + 0.20·historical + 0.20·coverageGap,
// ×1.5 for mandatory-zone members
func (o *Optimizer) scoreCandidates(cands []candidate, priorityIDs []string) {
	mandatory := make(map[string]bool, len(priorityIDs))
	for _, id := range priorityIDs {
		mandatory[id] = true
	}

	for i := range cands {
		c := &cands[i]
		c.priority = o.cfg.RiskWeight*c.risk +
			o.cfg.PredictedWeight*c.predicted +
			o.cfg.HistoricalWeight*c.historical +
			o.cfg.CoverageWeight*o.coverageGap(cands, i)

		if c.source == models.SourcePriorityZone || (c.zoneID != "" && mandatory[c.zoneID]) {
			c.priority *= o.cfg.PriorityZoneBoost
		}
	}
}

// coverageGap rewards candidates far from the rest of the pool: the
// distance to the nearest other candidate, saturating at the
// configured scale. A lone candidate counts as a full gap.
func (o *Optimizer) coverageGap(cands []candidate, i int) float64 {
	nearest := -1.0
	for j := range cands {
		if j == i {
			continue
		}
		d := spatial.HaversineKm(cands[i].lat, cands[i].lon, cands[j].lat, cands[j].lon)
		if nearest < 0 || d < nearest {
			nearest = d
		}
	}
	if nearest < 0 {
		return 1
	}

	gap := nearest / o.cfg.CoverageGapScaleKm
	if gap > 1 {
		gap = 1
	}
	return gap
}

// topK keeps the k best candidates by priority, discovery order
// breaking ties, and returns them in discovery order
func topK(cands []candidate, k int) []candidate {
	ranked := make([]candidate, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].priority > ranked[b].priority
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	sort.Slice(ranked, func(a, b int) bool { return ranked[a].order < ranked[b].order })
	return ranked
}

// sequence orders waypoints greedily from the start point: each step
// picks, among candidates still reachable within the remaining budget,
// the one maximizing 0.4·proximity + 0.6·priority.
func (o *Optimizer) sequence(cands []candidate, req Request) ([]models.Waypoint, float64) {
	used := make([]bool, len(cands))
	curLat, curLon := req.StartLat, req.StartLon
	remaining := req.MaxDistanceKm

	var waypoints []models.Waypoint
	var total float64

	for len(waypoints) < len(cands) {
		best := -1
		bestScore := 0.0
		bestDist := 0.0

		for i, c := range cands {
			if used[i] {
				continue
			}
			d := spatial.HaversineKm(curLat, curLon, c.lat, c.lon)
			if d > remaining {
				continue
			}

			score := o.cfg.ProximityWeight/(1+d) + o.cfg.PriorityWeight*c.priority

			// Strict comparison keeps ties on discovery order
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
				bestDist = d
			}
		}
		if best == -1 {
			break // budget exhausted or nothing reachable
		}

		used[best] = true
		c := cands[best]
		total += bestDist
		remaining -= bestDist
		curLat, curLon = c.lat, c.lon

		waypoints = append(waypoints, models.Waypoint{
			Lat:                  c.lat,
			Lon:                  c.lon,
			SourceType:           c.source,
			PriorityScore:        c.priority,
			Sequence:             len(waypoints) + 1,
			DistanceFromPrevious: bestDist,
			Justification:        justification(c.source),
		})
	}

	return waypoints, total
}

// stats summarizes the sequenced route
func (o *Optimizer) stats(waypoints []models.Waypoint, totalKm, returnKm float64) models.RouteStats {
	pts := make([]models.WeightedPoint, len(waypoints))
	var sumPriority, maxPriority float64
	for i, w := range waypoints {
		pts[i] = models.WeightedPoint{Lat: w.Lat, Lon: w.Lon}
		sumPriority += w.PriorityScore
		if w.PriorityScore > maxPriority {
			maxPriority = w.PriorityScore
		}
	}

	// Bounding-box degrees² × ~111² km² approximates coverage area
	var coverage float64
	if box, ok := spatial.BoundingBox(pts); ok {
		coverage = (box.MaxLat - box.MinLat) * (box.MaxLon - box.MinLon) *
			spatial.DegreeKm * spatial.DegreeKm
	}

	return models.RouteStats{
		WaypointCount:        len(waypoints),
		TotalDistanceKm:      totalKm,
		ReturnDistanceKm:     returnKm,
		AvgPriority:          sumPriority / float64(len(waypoints)),
		MaxPriority:          maxPriority,
		CoverageAreaKm2:      coverage,
		EstimatedDurationMin: totalKm / o.cfg.PatrolSpeedKmh * 60,
	}
}

// justification explains a waypoint to the patrol briefing layer
func justification(source models.WaypointSource) string {
	switch source {
	case models.SourceRiskZone:
		return "High-risk zone identified by current risk scoring"
	case models.SourceForecast:
		return "Predicted activity hotspot during this shift"
	case models.SourceHistorical:
		return "Recurring historical activity at this hour"
	case models.SourcePriorityZone:
		return "Mandatory priority zone for this assignment"
	default:
		return "Selected patrol location"
	}
}
