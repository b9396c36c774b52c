package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"coach-booking/cmd"
	"coach-booking/internal/data/repository"
	"coach-booking/internal/wire"
	"coach-booking/pkg/database"
	"coach-booking/pkg/utils"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize repositories and the transactional unit of work
	repos := repository.NewRepository(db, logger)
	uow := repository.NewUnitOfWork(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, uow, config, logger)

	// Sweep expired sessions in the background
	go sweepSessions(app, config, logger)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}

func sweepSessions(app *wire.App, config *utils.Config, logger *zap.Logger) {
	interval := time.Duration(config.Session.SweepIntervalMin) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if _, err := app.Service.Auth.SweepSessions(context.Background()); err != nil {
			logger.Error("Session sweep failed", zap.Error(err))
		}
	}
}
