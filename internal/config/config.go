package config

import (
	"os"

	"github.com/citywatch/rtcc-backend-go/internal/analysis/risk"
	"github.com/citywatch/rtcc-backend-go/internal/analysis/route"
	"github.com/citywatch/rtcc-backend-go/internal/analysis/spatial"
	"github.com/citywatch/rtcc-backend-go/internal/analysis/temporal"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBPath    string
	Analytics AnalyticsConfig
}

// AnalyticsConfig is the single immutable tuning value handed to every
// analytics component at construction. Per-deployment overrides happen
// here, never inside the core.
type AnalyticsConfig struct {
	DecayHalfLifeHours float64
	Density            spatial.EstimatorConfig
	Cluster            spatial.DetectorConfig
	HotZone            spatial.ExtractorConfig
	Forecast           temporal.ForecasterConfig
	Markov             temporal.MarkovConfig
	Calendar           temporal.CalendarConfig
	Risk               risk.ScorerConfig
	Route              route.OptimizerConfig
}

// DefaultAnalytics returns the stock analytics tuning
func DefaultAnalytics() AnalyticsConfig {
	return AnalyticsConfig{
		DecayHalfLifeHours: 72,
		Density:            spatial.DefaultEstimatorConfig(),
		Cluster:            spatial.DefaultDetectorConfig(),
		HotZone:            spatial.DefaultExtractorConfig(),
		Forecast:           temporal.DefaultForecasterConfig(),
		Markov:             temporal.DefaultMarkovConfig(),
		Calendar:           temporal.DefaultCalendarConfig(),
		Risk:               risk.DefaultScorerConfig(),
		Route:              route.DefaultOptimizerConfig(),
	}
}

// Load reads configuration from the environment
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/events/events.db"
	}

	return &Config{
		Port:      port,
		DBPath:    dbPath,
		Analytics: DefaultAnalytics(),
	}
}
