// Package app assembles the infrastructure adapters shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/payslip_portal/internal/adapters/lock"
	"github.com/SscSPs/payslip_portal/internal/adapters/mail"
	"github.com/SscSPs/payslip_portal/internal/adapters/pdf"
	"github.com/SscSPs/payslip_portal/internal/adapters/spreadsheet"
	"github.com/SscSPs/payslip_portal/internal/core/services"
	"github.com/SscSPs/payslip_portal/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// BuildAdapters wires the renderer, mail delivery, spreadsheet parser and batch locker from cfg.
// The returned cleanup releases any connection the adapters hold.
func BuildAdapters(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.Adapters, func(), error) {
	cleanup := func() {}

	delivery, err := mail.NewSMTPDelivery(mail.Config{
		Server:   cfg.MailServer,
		Port:     cfg.MailPort,
		UseTLS:   cfg.MailUseTLS,
		Username: cfg.MailUsername,
		Password: cfg.MailPassword,
		From:     cfg.MailDefaultSender,
	})
	if err != nil {
		return services.Adapters{}, cleanup, err
	}

	adapters := services.Adapters{
		Parser:   spreadsheet.NewParser(),
		Renderer: pdf.NewRenderer(cfg.PDFFolder, cfg.CompanyName),
		Delivery: delivery,
	}

	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, batch locks are local to this process")
		adapters.Locker = lock.NewMemoryLocker()
		return adapters, cleanup, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return services.Adapters{}, cleanup, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return services.Adapters{}, cleanup, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("Redis batch locker enabled", slog.Duration("ttl", cfg.BatchLockTTL))

	adapters.Locker = lock.NewRedisLocker(client, cfg.BatchLockTTL, logger)
	cleanup = func() {
		if err := client.Close(); err != nil {
			logger.Error("Error closing redis client", slog.String("error", err.Error()))
		}
	}
	return adapters, cleanup, nil
}
