package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/palolo875/kairu/internal/session"
	"github.com/palolo875/kairu/internal/storage"
	"github.com/palolo875/kairu/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kairu failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())

	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, nil))

	repo, err := storage.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	app := update.NewApp(repo, cfg, logger)
	ctx := context.Background()
	if err := app.RebuildTaskIndex(ctx); err != nil {
		return fmt.Errorf("build search index: %w", err)
	}
	if err := app.RebuildNoteIndex(ctx); err != nil {
		return fmt.Errorf("build note index: %w", err)
	}
	if count, err := app.ArchiveStale(ctx, time.Now()); err != nil {
		logger.Warn("auto-archive failed", "error", err)
	} else if count > 0 {
		logger.Info("auto-archive on startup", "count", count)
	}

	engine := session.NewEngine(cfg.PromptBuffer)
	engine.Start()
	defer engine.Stop()

	model := update.NewModelWithConfig(app, engine, cfg)
	program := tea.NewProgram(model)
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
