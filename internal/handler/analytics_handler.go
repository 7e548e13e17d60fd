package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/citywatch/rtcc-backend-go/internal/analysis/risk"
	"github.com/citywatch/rtcc-backend-go/internal/analysis/route"
	"github.com/citywatch/rtcc-backend-go/internal/models"
	"github.com/citywatch/rtcc-backend-go/internal/service"
	"github.com/citywatch/rtcc-backend-go/pkg/response"
)

// AnalyticsHandler handles HTTP requests for the tactical analytics
// endpoints
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// WindowQuery is the shared bounds+lookback query for the GET
// analytics endpoints. Coordinates carry no `required` binding: zero
// is a valid coordinate (equator, prime meridian), and missing bounds
// fail GeoBounds validation anyway.
type WindowQuery struct {
	MinLat        float64 `form:"min_lat"`
	MaxLat        float64 `form:"max_lat"`
	MinLon        float64 `form:"min_lon"`
	MaxLon        float64 `form:"max_lon"`
	LookbackHours int     `form:"lookback_hours"`
	GridSize      int     `form:"grid_size"`
	HorizonHours  int     `form:"horizon_hours"`
	Steps         int     `form:"steps"`
}

func (q *WindowQuery) bounds() models.GeoBounds {
	return models.GeoBounds{
		MinLat: q.MinLat, MaxLat: q.MaxLat,
		MinLon: q.MinLon, MaxLon: q.MaxLon,
	}
}

func (q *WindowQuery) lookback() time.Duration {
	hours := q.LookbackHours
	if hours <= 0 {
		hours = 24 * 30
	}
	return time.Duration(hours) * time.Hour
}

func (q *WindowQuery) gridSize() int {
	if q.GridSize <= 0 {
		return 100
	}
	return q.GridSize
}

// GetHeatmap handles GET /api/v1/analytics/heatmap
func (h *AnalyticsHandler) GetHeatmap(c *gin.Context) {
	var q WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.service.Heatmap(q.bounds(), time.Now(), q.lookback(), q.gridSize())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, result)
}

// GetClusters handles GET /api/v1/analytics/clusters
func (h *AnalyticsHandler) GetClusters(c *gin.Context) {
	var q WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.service.Clusters(q.bounds(), time.Now(), q.lookback())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, result)
}

// GetHotZones handles GET /api/v1/analytics/hotzones
func (h *AnalyticsHandler) GetHotZones(c *gin.Context) {
	var q WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.service.HotZones(q.bounds(), time.Now(), q.lookback(), q.gridSize())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, result)
}

// GetForecast handles GET /api/v1/analytics/forecast
func (h *AnalyticsHandler) GetForecast(c *gin.Context) {
	var q WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	horizon := q.HorizonHours
	if horizon <= 0 {
		horizon = 24
	}

	result, err := h.service.Forecast(q.bounds(), time.Now(), q.lookback(), horizon)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, result)
}

// GetMarkov handles GET /api/v1/analytics/markov
func (h *AnalyticsHandler) GetMarkov(c *gin.Context) {
	var q WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	steps := q.Steps
	if steps <= 0 {
		steps = 6
	}

	result, err := h.service.Markov(q.bounds(), time.Now(), q.lookback(), steps)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, result)
}

// RiskRequest is the body for POST /api/v1/analytics/risk
type RiskRequest struct {
	SubjectID   string             `json:"subject_id" binding:"required"`
	SubjectType string             `json:"subject_type" binding:"required"`
	Factors     map[string]float64 `json:"factors" binding:"required"`
}

// ScoreRisk handles POST /api/v1/analytics/risk
func (h *AnalyticsHandler) ScoreRisk(c *gin.Context) {
	var req RiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	score, err := h.service.ScoreSubject(req.SubjectID, req.SubjectType, req.Factors)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, score)
}

// RiskUpdateRequest is the body for POST /api/v1/analytics/risk/update
type RiskUpdateRequest struct {
	Score     models.RiskScore `json:"score" binding:"required"`
	EventType string           `json:"event_type" binding:"required"`
	Severity  models.Severity  `json:"severity"`
}

// UpdateRisk handles POST /api/v1/analytics/risk/update. The additive
// delta path is approximate; callers recompute periodically.
func (h *AnalyticsHandler) UpdateRisk(c *gin.Context) {
	var req RiskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	response.Success(c, h.service.UpdateScore(req.Score, req.EventType, req.Severity))
}

// RouteRequest is the body for POST /api/v1/analytics/route
type RouteRequest struct {
	StartLat      float64 `json:"start_lat"`
	StartLon      float64 `json:"start_lon"`
	MaxDistanceKm float64 `json:"max_distance_km"`
	WaypointCount int     `json:"waypoint_count"`
	PriorityZones []struct {
		ID  string  `json:"id"`
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"priority_zones"`
	ShiftStart    time.Time `json:"shift_start"`
	ShiftEnd      time.Time `json:"shift_end"`
	MinLat        float64   `json:"min_lat"`
	MaxLat        float64   `json:"max_lat"`
	MinLon        float64   `json:"min_lon"`
	MaxLon        float64   `json:"max_lon"`
	LookbackHours int       `json:"lookback_hours"`
	GridSize      int       `json:"grid_size"`
}

// PlanRoute handles POST /api/v1/analytics/route
func (h *AnalyticsHandler) PlanRoute(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var priority []route.PriorityZone
	var priorityIDs []string
	for _, z := range req.PriorityZones {
		priority = append(priority, route.PriorityZone{ID: z.ID, Lat: z.Lat, Lon: z.Lon})
		priorityIDs = append(priorityIDs, z.ID)
	}

	lookback := time.Duration(req.LookbackHours) * time.Hour
	if req.LookbackHours <= 0 {
		lookback = 24 * 30 * time.Hour
	}
	gridSize := req.GridSize
	if gridSize <= 0 {
		gridSize = 100
	}

	result, err := h.service.PlanRoute(
		route.Request{
			StartLat:        req.StartLat,
			StartLon:        req.StartLon,
			MaxDistanceKm:   req.MaxDistanceKm,
			WaypointCount:   req.WaypointCount,
			PriorityZoneIDs: priorityIDs,
			ShiftStart:      req.ShiftStart,
			ShiftEnd:        req.ShiftEnd,
		},
		priority,
		models.GeoBounds{
			MinLat: req.MinLat, MaxLat: req.MaxLat,
			MinLon: req.MinLon, MaxLon: req.MaxLon,
		},
		time.Now(), lookback, gridSize,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, result)
}

// respondError maps core validation failures to 400 and everything
// else to 500
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidBounds),
		errors.Is(err, models.ErrInvalidGridSize),
		errors.Is(err, route.ErrInvalidWaypointCount),
		errors.Is(err, risk.ErrInvalidWeights):
		response.BadRequest(c, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}
