// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/roomscope/internal/api"
	"github.com/tomtom215/roomscope/internal/config"
	"github.com/tomtom215/roomscope/internal/database"
	"github.com/tomtom215/roomscope/internal/eventprocessor"
	"github.com/tomtom215/roomscope/internal/logging"
	"github.com/tomtom215/roomscope/internal/metrics"
	"github.com/tomtom215/roomscope/internal/supervisor"
	"github.com/tomtom215/roomscope/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Default logger: config not yet available
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("db_driver", cfg.Database.Driver).
		Str("views_transport", cfg.Views.Transport).
		Msg("Starting Roomscope with supervisor tree")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Str("driver", db.Driver()).Msg("Database initialized successfully")

	if err := prepareDatabase(cfg, db); err != nil {
		return err
	}

	pipeline, err := eventprocessor.NewPipeline(cfg.Views, db)
	if err != nil {
		return fmt.Errorf("initialize view pipeline: %w", err)
	}
	defer func() {
		if err := pipeline.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing view pipeline")
		}
	}()
	logging.Info().Str("transport", pipeline.TransportName()).Msg("View pipeline initialized")

	handler := api.NewHandler(db, pipeline.Recorder(), cfg.API, version)
	defer handler.Close()

	chiMiddleware := api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg.Security))
	router := api.NewRouter(handler, chiMiddleware)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(services.NewPoolStatsService(db, metrics.RecordPoolStats, 0))
	tree.AddMessagingService(services.NewViewRouterService(pipeline))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("Services added to supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
		stop()
	}
	// The channel delivers exactly one result and is never closed.
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}
	return treeResult(treeErr)
}

// treeResult maps the supervisor's exit error to run's result. Cancellation
// is the normal shutdown path.
func treeResult(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return fmt.Errorf("supervisor tree: %w", err)
}

// prepareDatabase creates the embedded schema and demo data when asked.
// Postgres schemas are managed outside the process.
func prepareDatabase(cfg *config.Config, db *database.DB) error {
	if cfg.IsPostgres() {
		return nil
	}
	ctx := context.Background()
	if cfg.Database.BootstrapSchema || cfg.Database.SeedMockData {
		if err := db.BootstrapSchema(ctx); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
		logging.Info().Msg("Database schema ready")
	}
	if cfg.Database.SeedMockData {
		logging.Info().Msg("Mock data seeding enabled (DATABASE_SEED_MOCK_DATA=true)")
		if err := db.SeedMockData(ctx); err != nil {
			return fmt.Errorf("seed mock data: %w", err)
		}
	}
	return nil
}
