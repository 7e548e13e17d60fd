package main

import (
	"log"

	"github.com/citywatch/rtcc-backend-go/internal/api"
	"github.com/citywatch/rtcc-backend-go/internal/config"
	"github.com/citywatch/rtcc-backend-go/internal/database"
	"github.com/citywatch/rtcc-backend-go/internal/repository"
	"github.com/citywatch/rtcc-backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	dbConfig := database.Config{
		Path: cfg.DBPath,
	}
	if err := database.Init(dbConfig); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	events := repository.NewEventRepository(database.GetDB())
	svc := service.NewAnalyticsService(events, nil, cfg.Analytics)

	router := api.SetupRouter(svc)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
