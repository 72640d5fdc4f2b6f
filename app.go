package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"bookforge/internal/config"
	"bookforge/internal/database"
	"bookforge/internal/logging"
	"bookforge/internal/services"
)

// App holds everything the command tree needs: loaded configuration, the
// logger, and the service container backed by the local database.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Services *services.Services

	dbClose func() error
}

// NewApp loads configuration, opens the database and wires the services.
// Call Shutdown when done.
func NewApp(ctx context.Context) (*App, error) {
	// A .env file is optional; missing is fine.
	_ = godotenv.Load()

	cfg, err := config.NewLoader().Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		return nil, err
	}

	dbLogLevel := gormlogger.Warn
	if cfg.Log.Level == "debug" || cfg.Log.Level == "trace" {
		dbLogLevel = gormlogger.Info
	}
	db, err := database.Init(database.Config{
		Path:     database.GetDefaultDBPath(),
		LogLevel: dbLogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	app := &App{Config: cfg, Logger: logger}
	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	app.Services = services.NewServices(db, cfg, logger)
	if err := app.Services.Startup(ctx); err != nil {
		app.Shutdown()
		return nil, fmt.Errorf("starting services: %w", err)
	}
	return app, nil
}

// Shutdown releases the database connection pool.
func (a *App) Shutdown() {
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			a.Logger.Error().Err(err).Msg("closing database")
		}
		a.dbClose = nil
	}
}
