// main.go
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"movie-galaxy/cmd"
	"movie-galaxy/internal/data/repository"
	"movie-galaxy/internal/wire"
	"movie-galaxy/pkg/database"
	"movie-galaxy/pkg/utils"

	"go.uber.org/zap"
)

const sessionPurgeInterval = time.Hour

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
		zap.String("realtime", config.Realtime.Driver),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Comment change broker
	broker, err := wire.NewBroker(db, config, logger)
	if err != nil {
		logger.Fatal("Failed to init realtime broker", zap.Error(err))
	}
	defer broker.Close()

	// Wire all dependencies
	app := wire.Wiring(repos, broker, config, logger)

	go func() {
		if err := app.Hub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Realtime hub stopped", zap.Error(err))
		}
	}()

	// Stage one loads the catalog, stage two attaches comment subscriptions.
	// Failures degrade to an empty or partial view.
	if err := app.Service.Bootstrap.Start(ctx); err != nil {
		logger.Error("Bootstrap incomplete", zap.Error(err))
	}

	go purgeSessions(ctx, app, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	err = cmd.APIServer(app.Router, config.App.Port, logger, func() {
		cancel()
		app.Service.Bootstrap.Stop()
	})
	if err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}

func purgeSessions(ctx context.Context, app *wire.App, logger *zap.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := app.Service.Auth.PurgeExpired(ctx); err != nil {
				logger.Warn("Session purge failed", zap.Error(err))
			}
		}
	}
}
