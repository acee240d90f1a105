package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sorun_takip_backend/internal/adapters"
	"sorun_takip_backend/internal/auth"
	"sorun_takip_backend/internal/email"
	"sorun_takip_backend/internal/events"
	"sorun_takip_backend/internal/notification"
	"sorun_takip_backend/internal/scheduler"
	"sorun_takip_backend/platform/config"
	"sorun_takip_backend/platform/db"
	"sorun_takip_backend/platform/logger"
	"sorun_takip_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	var sender email.Sender
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
		log.Info("email sender initialized", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("email sending disabled")
	}

	// The worker needs the notification handlers too: stale-report events
	// raised by the scanner become in-app reminders for admins.
	authModule := auth.NewModule(pool, cfg, eventBus, log, validator.New())
	adminDirectory := adapters.NewAuthAdminDirectory(authModule.Service())
	notificationModule := notification.NewModule(pool, cfg, adminDirectory, log, clockwork.NewRealClock())
	notificationModule.RegisterHandlers(eventBus)

	scanner := scheduler.NewStaleReportScanner(pool, eventBus, log, time.Hour, cfg.GetStaleReportThreshold())
	go scanner.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, sender, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	log.Info("worker listening", "queue", cfg.GetAsynqQueueName(), "concurrency", cfg.GetAsynqConcurrency())
	worker.Run(ctx)
	log.Info("worker stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
