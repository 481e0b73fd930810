package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/meshcompare/backend/config"
	httpDelivery "github.com/meshcompare/backend/internal/delivery/http"
	"github.com/meshcompare/backend/internal/domain"
	"github.com/meshcompare/backend/internal/infrastructure/catalog"
	"github.com/meshcompare/backend/internal/infrastructure/extractor"
	"github.com/meshcompare/backend/internal/infrastructure/pricesheet"
	"github.com/meshcompare/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := config.SetupLogger(cfg.Log)
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("provider", cfg.Extraction.Provider).
		Str("orphan_policy", cfg.Catalog.OrphanPolicy).
		Msg("starting meshcompare backend v1.0.0")

	// Initialize infrastructure dependencies
	policy, err := catalog.ParseOrphanPolicy(cfg.Catalog.OrphanPolicy)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid catalog configuration")
	}
	store := catalog.NewMemoryStore(policy)

	var provider domain.Extractor
	if cfg.Extraction.Provider == "gemini" {
		client := extractor.NewClient(cfg.Extraction.APIKey, cfg.Extraction.BaseURL, cfg.Extraction.Model, cfg.RateLimit.Extraction)

		// Enable debug mode in development environment
		if cfg.Server.Environment == "development" {
			client.SetDebug(true)
			logger.Debug().Msg("extraction client debug mode enabled")
		}
		provider = client
		logger.Info().Str("model", cfg.Extraction.Model).Str("base_url", cfg.Extraction.BaseURL).Msg("extraction provider configured")
	} else {
		logger.Warn().Msg("no extraction provider configured, non-spreadsheet uploads use sample data")
	}

	// Initialize usecase layer
	comparisonService := usecase.NewComparisonService(usecase.ComparisonConfig{
		EnableDebugLogging: cfg.Server.Environment == "development",
	})
	extractionService := usecase.NewExtractionService(
		provider,
		extractor.NewFallbackExtractor(),
		pricesheet.NewReader(),
		usecase.ExtractionServiceConfig{Timeout: cfg.Extraction.Timeout},
	)
	importService := usecase.NewImportService(store)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(store, comparisonService, extractionService, importService, httpDelivery.HandlerConfig{
		MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
	})

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("bye")
}
