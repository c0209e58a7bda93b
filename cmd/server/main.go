// Command server runs the PDF document repository API.
//
// Startup order: env + config, logger, database and schema, file store,
// tracing, router, then an HTTP server with graceful shutdown. A failed
// shutdown path never masks the primary exit cause.
//
// @title       PDF Document Repository API
// @version     1.0
// @description Disk-backed PDF document repository: ingestion with duplicate detection, slugs and rename redirects, categories, ratings, DMCA takedowns, and dataset snapshots.
// @BasePath    /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pdfxandria/go-pdf-backend/internal/config"
	httpapi "github.com/pdfxandria/go-pdf-backend/internal/http"
	"github.com/pdfxandria/go-pdf-backend/internal/observability"
	"github.com/pdfxandria/go-pdf-backend/internal/repo"
	"github.com/pdfxandria/go-pdf-backend/internal/storage"
	"github.com/pdfxandria/go-pdf-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	sysutil.SetLogLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate schema")
	}

	store, err := storage.New(cfg.Upload.TempDir, cfg.Upload.DocumentDir(), cfg.Upload.CoverDir())
	if err != nil {
		log.Fatal().Err(err).Msg("init file store")
	}

	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("init tracing")
	}

	engine := gin.New()
	h := httpapi.RegisterRoutes(engine, db, store, cfg)

	// Warm the search index so the first query after boot is served.
	if err := h.Search.Rebuild(ctx); err != nil {
		log.Warn().Err(err).Msg("initial search index build failed")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("database close")
		}
	}
	log.Info().Msg("bye")
}
