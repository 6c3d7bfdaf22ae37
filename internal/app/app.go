// Package app wires the API-mode dependency graph.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/pcfpulse/config"
	"github.com/guttosm/pcfpulse/internal/api"
	"github.com/guttosm/pcfpulse/internal/ingestion"
	"github.com/guttosm/pcfpulse/internal/logger"
	"github.com/guttosm/pcfpulse/internal/service"
)

// InitializeApp sets up all application dependencies and returns a fully
// configured Gin router, a cleanup function for graceful shutdown, and any
// error encountered during initialization.
//
// Responsibilities:
//   - Validates the configured encoding priority list.
//   - Builds the archive Aggregator over the download dir.
//   - Wraps it in the cached PCF query service.
//   - Configures the Gin router and health/readiness probes.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	for _, name := range cfg.Parse.Encodings {
		if _, err := ingestion.LookupEncoding(name); err != nil {
			return nil, nil, fmt.Errorf("invalid PCF_ENCODINGS: %w", err)
		}
	}

	log := logger.L().With().Str("component", "api").Logger()

	agg := ingestion.NewAggregator(ingestion.Options{
		Root:      cfg.Paths.DownloadDir,
		Encodings: cfg.Parse.Encodings,
		Parallel:  cfg.Parse.Parallel,
	}, log)

	svc := service.NewPCFService(agg, cfg.Cache.TTL, log)
	handler := api.NewHandler(svc)
	router := api.NewRouter(handler)

	api.NewHealthHandler(dirReadable(cfg.Paths.DownloadDir)).Register(router)

	cleanup := func() {
		log.Info().Msg("api resources released")
	}

	return router, cleanup, nil
}

// dirReadable reports whether dir exists and can be listed.
func dirReadable(dir string) func() error {
	return func() error {
		f, err := os.Open(dir)
		if err != nil {
			return fmt.Errorf("download dir: %w", err)
		}
		defer func() { _ = f.Close() }()
		if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("download dir: %w", err)
		}
		return nil
	}
}
