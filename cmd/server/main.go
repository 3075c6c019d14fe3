package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go-notes-api/internal/app"
	"go-notes-api/internal/auth"
	"go-notes-api/internal/config"
	"go-notes-api/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	log, err := logger.New(os.Stdout, cfg.LogFormat, level)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(log)

	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		if errors.Is(err, auth.ErrConfiguration) {
			slog.Error("invalid configuration", "error", err)
		} else {
			slog.Error("failed to initialize application", "error", err)
		}
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
