package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mark31d/OlympusAirDiary/internal/config"
	"github.com/mark31d/OlympusAirDiary/internal/diary"
	"github.com/mark31d/OlympusAirDiary/internal/store"
	"github.com/mark31d/OlympusAirDiary/internal/tips"
	"github.com/mark31d/OlympusAirDiary/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The alt screen owns stdout, so logs go next to the database.
	logger, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	openCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	backend, err := store.OpenBackend(openCtx, cfg.Backend, cfg.DBPath, cfg.RedisURL)
	cancel()
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer backend.Close()

	catalog, err := tips.Load(cfg.TipsPath)
	if err != nil {
		return err
	}

	diaryStore := diary.New(backend, diary.WithLogger(logger))
	if err := diaryStore.Initialize(context.Background()); err != nil {
		return fmt.Errorf("initialize diary: %w", err)
	}

	model := tui.NewModel(diaryStore, catalog, time.Now)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := p.Run()

	ctx, cancelClose := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelClose()
	if err := diaryStore.Close(ctx); err != nil {
		logger.Error("flush on exit failed", "error", err)
	}
	return runErr
}

func fileLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}
