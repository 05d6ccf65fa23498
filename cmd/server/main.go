package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark31d/OlympusAirDiary/internal/api"
	"github.com/mark31d/OlympusAirDiary/internal/config"
	"github.com/mark31d/OlympusAirDiary/internal/diary"
	"github.com/mark31d/OlympusAirDiary/internal/metrics"
	"github.com/mark31d/OlympusAirDiary/internal/store"
	"github.com/mark31d/OlympusAirDiary/internal/tips"
)

func main() {
	// Logger
	var logLevel slog.LevelVar
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: &logLevel}))
	slog.SetDefault(logger)

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.LogLevel == "debug" {
		logLevel.Set(slog.LevelDebug)
	}

	// Durable storage
	openCtx, cancelOpen := context.WithTimeout(context.Background(), 10*time.Second)
	backend, err := store.OpenBackend(openCtx, cfg.Backend, cfg.DBPath, cfg.RedisURL)
	cancelOpen()
	if err != nil {
		logger.Error("failed to open storage", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	// Tip catalog
	catalog, err := tips.Load(cfg.TipsPath)
	if err != nil {
		logger.Error("failed to load tip catalog", "path", cfg.TipsPath, "error", err)
		os.Exit(1)
	}

	// Store
	collector := metrics.NewCollector("diary")
	diaryStore := diary.New(backend,
		diary.WithLogger(logger),
		diary.WithRecorder(collector),
	)
	diaryStore.Subscribe(collector.ObserveSnapshot)

	if err := diaryStore.Initialize(context.Background()); err != nil {
		logger.Error("failed to initialize diary", "error", err)
		os.Exit(1)
	}

	// Router
	router := api.NewRouter(backend, diaryStore, catalog, collector, cfg.CORSOrigins, logger)

	// Server
	addr := cfg.ListenAddr()
	srv := api.NewServer(addr, router)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("diary server starting",
			"addr", addr,
			"backend", backend.Name(),
			"tips", catalog.Len(),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	cancel()

	// The flush gets its own budget; a slow Shutdown must not eat it.
	flushCtx, cancelFlush := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	if err := diaryStore.Close(flushCtx); err != nil {
		logger.Error("flush on shutdown failed", "error", err)
	}
	cancelFlush()

	logger.Info("server stopped")
}
