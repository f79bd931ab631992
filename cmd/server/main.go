package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/portgermain/marina-api/internal/config"
	"github.com/portgermain/marina-api/internal/database"
	"github.com/portgermain/marina-api/internal/handler"
	"github.com/portgermain/marina-api/internal/queue"
	"github.com/portgermain/marina-api/internal/repository"
	"github.com/portgermain/marina-api/internal/router"
)

func main() {
	_ = godotenv.Load() // local .env is optional
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	catwayRepo := repository.NewCatwayRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, userRepo, tokenRepo),
		Catways:      handler.NewCatwayHandler(catwayRepo),
		Reservations: handler.NewReservationHandler(reservationRepo, catwayRepo),
		Users:        handler.NewUserAdminHandler(cfg, userRepo),
		Dashboard:    handler.NewDashboardHandler(userRepo, reservationRepo),
		Imports:      handler.NewImportHandler(catwayRepo, reservationRepo),
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, h, cfg, rdb)

	// Background consumer writes confirmed bookings to logs/reservations.log.
	go queue.StartReservationConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
