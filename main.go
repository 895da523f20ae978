package main

import (
	"log"
	"time"

	"github.com/eichdmk/qrMenu/configs"
	"github.com/eichdmk/qrMenu/middlewares"
	"github.com/eichdmk/qrMenu/pkg/yookassa"
	"github.com/eichdmk/qrMenu/repository"
	"github.com/eichdmk/qrMenu/routes"
	"github.com/eichdmk/qrMenu/services"
	"github.com/eichdmk/qrMenu/ws"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := configs.LoadConfig()

	configs.ConnectionDB(cfg)
	configs.SetupDatabase()
	if err := configs.SeedAdmin(); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	db := configs.DB()
	gateway := yookassa.NewClient(cfg.YooKassaShopID, cfg.YooKassaSecretKey)

	orderRepo := repository.NewOrderRepository(db)

	hub := ws.NewOrderHub(orderRepo, 3*time.Second)
	go hub.Run()
	defer hub.Shutdown()

	cleanup := services.NewCleanupService(db, orderRepo)
	stopCleanup := cleanup.StartDaily(cfg.CleanupMaxAgeDays)
	defer stopCleanup()

	r := gin.Default()
	r.Use(middlewares.CORSMiddleware())
	routes.RegisterRoutes(r, db, cfg, gateway, hub)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
