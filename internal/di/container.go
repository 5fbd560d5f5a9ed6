// Package di wires the application's components together.
package di

import (
	"fmt"
	"log/slog"
	"os"

	"taskpulse/internal/adapters/secondary/export"
	"taskpulse/internal/adapters/secondary/storage"
	"taskpulse/internal/config"
	"taskpulse/internal/domain/ports"
	"taskpulse/internal/domain/services"
)

// Container holds the application's wired components
type Container struct {
	Config    *config.Config
	Logger    *slog.Logger
	TaskStore ports.TaskStorage
	Analytics services.AnalyticsService
}

// NewContainer builds the full dependency graph from configuration
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	logger := newLogger(cfg.Logging)

	store, err := storage.NewSQLiteStorage(cfg.Database.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize task storage: %w", err)
	}

	analytics := services.NewAnalyticsService(services.AnalyticsServiceDeps{
		TaskStore: store,
		Exporter:  export.NewJSONExporter(logger),
		Logger:    logger,
	})

	return &Container{
		Config:    cfg,
		Logger:    logger,
		TaskStore: store,
		Analytics: analytics,
	}, nil
}

// Shutdown releases held resources
func (c *Container) Shutdown() error {
	if c.TaskStore != nil {
		if err := c.TaskStore.Close(); err != nil {
			return fmt.Errorf("failed to close task storage: %w", err)
		}
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
