package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/upcoming-content-backend/internal/app"
	"github.com/nekogravitycat/upcoming-content-backend/internal/config"
	"github.com/nekogravitycat/upcoming-content-backend/internal/db"
	"github.com/nekogravitycat/upcoming-content-backend/internal/pkg/logger"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logg, err := logger.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init logger")
	}

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN, cfg.DBMaxConns)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer pool.Close()

	migration, err := db.Migrate(ctx, pool)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to migrate db")
	}
	logg.Info().
		Uint("from", migration.From).
		Uint("to", migration.To).
		Bool("applied", migration.Applied()).
		Msg("schema migrated")

	container, err := app.NewContainer(app.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		DBPool:              pool,
		Logger:              logg,
		UpcomingMaxItems:    cfg.UpcomingMaxItems,
		UpcomingExpiryGrace: cfg.UpcomingExpiryGrace,
		UpcomingCacheTTL:    cfg.UpcomingCacheTTL,
		StoragePath:         cfg.StoragePath,
		MediaMaxUploadBytes: cfg.MediaMaxUploadBytes,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to init app")
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		logg.Info().Str("addr", cfg.HTTPAddr).Msg("server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	logg.Info().Msg("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("server forced to shutdown")
	}

	logg.Info().Msg("server exited gracefully")
}
