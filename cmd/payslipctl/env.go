package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	portssvc "github.com/SscSPs/payslip_portal/internal/core/ports/services"
	"github.com/SscSPs/payslip_portal/internal/core/services"
	"github.com/SscSPs/payslip_portal/internal/platform/app"
	"github.com/SscSPs/payslip_portal/internal/platform/config"
	"github.com/SscSPs/payslip_portal/internal/repositories/database/pgsql"
	"github.com/SscSPs/payslip_portal/pkg/database"
)

// environment is everything a command needs to act on batches.
type environment struct {
	cfg      *config.Config
	logger   *slog.Logger
	services *portssvc.ServiceContainer
	close    func()
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func openEnvironment(ctx context.Context) (*environment, error) {
	logger := newLogger()
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return nil, err
	}

	adapters, closeAdapters, err := app.BuildAdapters(ctx, cfg, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	repos := pgsql.NewRepositoryProvider(pool)
	return &environment{
		cfg:      cfg,
		logger:   logger,
		services: services.NewServiceContainer(cfg, repos, adapters),
		close: func() {
			closeAdapters()
			pool.Close()
		},
	}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
