package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/citywatch/rtcc-backend-go/internal/handler"
	"github.com/citywatch/rtcc-backend-go/internal/middleware"
	"github.com/citywatch/rtcc-backend-go/internal/service"
)

// SetupRouter wires the analytics endpoints
func SetupRouter(svc *service.AnalyticsService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Tactical Analytics API is running",
		})
	})

	h := handler.NewAnalyticsHandler(svc)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(120, time.Minute))
	{
		analytics := api.Group("/analytics")
		{
			analytics.GET("/heatmap", h.GetHeatmap)
			analytics.GET("/clusters", h.GetClusters)
			analytics.GET("/hotzones", h.GetHotZones)
			analytics.GET("/forecast", h.GetForecast)
			analytics.GET("/markov", h.GetMarkov)
			analytics.POST("/risk", h.ScoreRisk)
			analytics.POST("/risk/update", h.UpdateRisk)
			analytics.POST("/route", h.PlanRoute)
		}
	}

	return r
}
