package models

// WaypointSource identifies where a patrol waypoint candidate came from
type WaypointSource string

const (
	SourceRiskZone     WaypointSource = "risk_zone"
	SourceForecast     WaypointSource = "predicted_hotspot"
	SourceHistorical   WaypointSource = "historical_pattern"
	SourcePriorityZone WaypointSource = "priority_zone"
)

// Waypoint is a single ordered patrol stop
type Waypoint struct {
	Lat                  float64        `json:"lat"`
	Lon                  float64        `json:"lon"`
	SourceType           WaypointSource `json:"source_type"`
	PriorityScore        float64        `json:"priority_score"`
	Sequence             int            `json:"sequence"`
	DistanceFromPrevious float64        `json:"distance_from_previous_km"`
	Justification        string         `json:"justification"`
}

// RouteStats summarizes a computed patrol route
type RouteStats struct {
	WaypointCount        int     `json:"waypoint_count"`
	TotalDistanceKm      float64 `json:"total_distance_km"`
	ReturnDistanceKm     float64 `json:"return_distance_km"`
	AvgPriority          float64 `json:"avg_priority"`
	MaxPriority          float64 `json:"max_priority"`
	CoverageAreaKm2      float64 `json:"coverage_area_km2"`
	EstimatedDurationMin float64 `json:"estimated_duration_min"`
}

// Route is an ordered patrol route under a distance budget
type Route struct {
	ID        string     `json:"id"`
	StartLat  float64    `json:"start_lat"`
	StartLon  float64    `json:"start_lon"`
	Waypoints []Waypoint `json:"waypoints"`
	Stats     RouteStats `json:"stats"`
	// Message explains an empty route; routes degrade rather than fail
	Message string `json:"message,omitempty"`
}
