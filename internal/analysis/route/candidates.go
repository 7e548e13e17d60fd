// Package route implements patrol route optimization: candidate
// waypoint generation from the other analytics outputs, composite
// priority scoring, and greedy sequencing under a distance budget.
package route

import (
	"sort"
	"time"

	"github.com/citywatch/rtcc-backend-go/internal/models"
	"github.com/citywatch/rtcc-backend-go/internal/spatial"
)

// ScoredZone pairs a hot zone with its risk score
type ScoredZone struct {
	Zone models.HotZone
	Risk models.RiskScore
}

// PredictedHotspot is a forecast-driven location with expected
// activity at a point in time
type PredictedHotspot struct {
	Lat       float64
	Lon       float64
	Timestamp time.Time
	Activity  float64 // Normalized 0~1
}

// HistoricalPattern is a recurring activity location tied to an hour
// of day
type HistoricalPattern struct {
	Lat       float64
	Lon       float64
	HourOfDay int
	Strength  float64 // Normalized 0~1
}

// PriorityZone is a supervisor-mandated coverage area
type PriorityZone struct {
	ID  string
	Lat float64
	Lon float64
}

// CandidateInputs carries the upstream analytics outputs the
// optimizer draws candidates from
type CandidateInputs struct {
	RiskZones     []ScoredZone
	Hotspots      []PredictedHotspot
	Patterns      []HistoricalPattern
	PriorityZones []PriorityZone
}

// candidate is an internal waypoint candidate with its factor values
type candidate struct {
	lat, lon   float64
	source     models.WaypointSource
	zoneID     string
	risk       float64
	predicted  float64
	historical float64

	priority float64 // Final composite score
	order    int     // Discovery order, breaks ties
}

// generate builds the candidate pool. Hotspots are restricted to the
// shift window and historical patterns to shift hours; mandatory
// priority zones always make the pool.
func generate(in CandidateInputs, shiftStart, shiftEnd time.Time) []candidate {
	var out []candidate

	for _, z := range in.RiskZones {
		out = append(out, candidate{
			lat: z.Zone.CentroidLat, lon: z.Zone.CentroidLon,
			source: models.SourceRiskZone,
			zoneID: z.Zone.ID,
			risk:   z.Risk.Score,
		})
	}

	for _, h := range in.Hotspots {
		if !inWindow(h.Timestamp, shiftStart, shiftEnd) {
			continue
		}
		out = append(out, candidate{
			lat: h.Lat, lon: h.Lon,
			source:    models.SourceForecast,
			predicted: h.Activity,
		})
	}

	for _, p := range in.Patterns {
		if !hourInShift(p.HourOfDay, shiftStart, shiftEnd) {
			continue
		}
		out = append(out, candidate{
			lat: p.Lat, lon: p.Lon,
			source:     models.SourceHistorical,
			historical: p.Strength,
		})
	}

	for _, z := range in.PriorityZones {
		out = append(out, candidate{
			lat: z.Lat, lon: z.Lon,
			source: models.SourcePriorityZone,
			zoneID: z.ID,
		})
	}

	for i := range out {
		out[i].order = i
	}
	return out
}

// inWindow reports whether ts falls inside [start, end). A zero
// window admits everything.
func inWindow(ts, start, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return true
	}
	return !ts.Before(start) && ts.Before(end)
}

// hourInShift reports whether an hour of day falls inside the shift,
// handling shifts that wrap midnight
func hourInShift(hour int, start, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return true
	}
	from, to := start.Hour(), end.Hour()
	if from == to {
		return true
	}
	if from < to {
		return hour >= from && hour < to
	}
	return hour >= from || hour < to
}

// dedupe drops candidates within radius of an already-kept
// higher-priority candidate. Candidates are ranked by source rank then
// factor strength; the kept pool stays small so the proximity check is
// a plain scan.
func dedupe(cands []candidate, radiusKm float64) []candidate {
	if len(cands) < 2 {
		return cands
	}

	ranked := make([]candidate, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(a, b int) bool {
		ra, rb := sourceRank(ranked[a].source), sourceRank(ranked[b].source)
		if ra != rb {
			return ra > rb
		}
		return ranked[a].factorStrength() > ranked[b].factorStrength()
	})

	var kept []candidate
	for _, c := range ranked {
		tooClose := false
		for _, k := range kept {
			if spatial.HaversineKm(c.lat, c.lon, k.lat, k.lon) < radiusKm {
				tooClose = true
				break
			}
		}
		if !tooClose {
			kept = append(kept, c)
		}
	}

	// Restore discovery order for downstream tie-breaking
	sort.Slice(kept, func(a, b int) bool { return kept[a].order < kept[b].order })
	return kept
}

func (c candidate) factorStrength() float64 {
	return c.risk + c.predicted + c.historical
}

// sourceRank orders candidate sources for dedup precedence
func sourceRank(s models.WaypointSource) int {
	switch s {
	case models.SourcePriorityZone:
		return 3
	case models.SourceRiskZone:
		return 2
	case models.SourceForecast:
		return 1
	default:
		return 0
	}
}
