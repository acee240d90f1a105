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

	"sorun_takip_backend/internal/adapters"
	"sorun_takip_backend/internal/adapters/storage"
	"sorun_takip_backend/internal/auth"
	"sorun_takip_backend/internal/events"
	"sorun_takip_backend/internal/geocode"
	apphttp "sorun_takip_backend/internal/http"
	"sorun_takip_backend/internal/http/router"
	"sorun_takip_backend/internal/notification"
	"sorun_takip_backend/internal/reports"
	"sorun_takip_backend/internal/scheduler"
	"sorun_takip_backend/platform/config"
	"sorun_takip_backend/platform/db"
	"sorun_takip_backend/platform/logger"
	"sorun_takip_backend/platform/metrics"
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
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Prometheus metrics shared across modules
	m := metrics.New()

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for report photos (MinIO)
	var storageSvc storage.Service
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure report-photos bucket", 5, 2*time.Second, func() error {
			return minioSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketReportPhotos())
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketReportPhotos())
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		storageSvc = minioSvc
		log.Info("storage service initialized", "reportPhotosBucket", cfg.GetMinioBucketReportPhotos())
	} else {
		log.Warn("MinIO not configured, photo attachments are disabled")
	}

	// Task queue client; mail is sent by the worker binary
	var schedulerClient *scheduler.Client
	if cfg.GetRedisURL() != "" {
		schedulerClient, err = scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize scheduler client", "error", err)
			panic("failed to initialize scheduler client: " + err.Error())
		}
		defer schedulerClient.Close()

		dispatcher := scheduler.NewDispatcher(schedulerClient, log)
		dispatcher.RegisterHandlers(eventBus)
	} else {
		log.Warn("redis not configured, email dispatch is disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	geocodeModule := geocode.NewModule(cfg, log, m)
	authModule := auth.NewModule(pool, cfg, eventBus, log, val)

	// Anti-Corruption Layer: reports and notification see auth only through
	// their own directory interfaces.
	userDirectory := adapters.NewAuthUserDirectory(authModule.Service())
	adminDirectory := adapters.NewAuthAdminDirectory(authModule.Service())

	reportsModule := reports.NewModule(
		pool,
		geocodeModule.Resolver(),
		userDirectory,
		storageSvc,
		cfg.GetMinioBucketReportPhotos(),
		eventBus,
		log,
		val,
		m,
	)

	notificationModule := notification.NewModule(pool, cfg, adminDirectory, log, clockwork.NewRealClock())
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Metrics:  m,
		Modules: []apphttp.Module{
			authModule,
			geocodeModule,
			reportsModule,
			notificationModule,
		},
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router.New(app),
	}

	log.Info("server listening", "addr", cfg.HTTPAddr)
	if err := runServer(ctx, log, srv); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

// runServer blocks until the server fails or ctx is cancelled. On
// cancellation it drains in-flight requests for up to 10 seconds before
// returning.
func runServer(ctx context.Context, log *logger.Logger, srv *http.Server) error {
	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-srvErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// withRetry runs fn up to attempts times with quadratic backoff between
// tries. Used for infrastructure that may not be up yet when the container
// starts.
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
