package scheduler

import (
	"context"
	"time"

	"sorun_takip_backend/internal/events"
	reportrepo "sorun_takip_backend/internal/reports/repository"
	"sorun_takip_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultStaleScanInterval = time.Hour
	defaultStaleThreshold    = 7 * 24 * time.Hour
	staleScanBatchSize       = 100
)

// StaleReportScanner periodically looks for reports that have sat in
// pending longer than the threshold and raises an event for each one so
// admins get reminded.
type StaleReportScanner struct {
	repo      *reportrepo.Repository
	bus       events.Bus
	log       *logger.Logger
	interval  time.Duration
	threshold time.Duration
}

func NewStaleReportScanner(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, interval, threshold time.Duration) *StaleReportScanner {
	if interval <= 0 {
		interval = defaultStaleScanInterval
	}
	if threshold <= 0 {
		threshold = defaultStaleThreshold
	}

	return &StaleReportScanner{
		repo:      reportrepo.New(pool),
		bus:       bus,
		log:       log,
		interval:  interval,
		threshold: threshold,
	}
}

func (s *StaleReportScanner) Run(ctx context.Context) {
	if s == nil || s.repo == nil {
		return
	}

	s.scan(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

func (s *StaleReportScanner) scan(ctx context.Context) {
	cutoff := time.Now().Add(-s.threshold)
	reports, err := s.repo.ListStalePending(ctx, cutoff, staleScanBatchSize)
	if err != nil {
		s.log.Error("stale report scan failed", "error", err)
		return
	}
	if len(reports) == 0 {
		return
	}

	s.log.Info("stale report scan found pending reports", "count", len(reports))

	for _, report := range reports {
		pendingDays := int(time.Since(report.CreatedAt).Hours() / 24)
		if err := s.bus.PublishSync(ctx, events.StaleReportDetected{
			BaseEvent:   events.NewBaseEvent(),
			ReportID:    report.ID,
			Title:       report.Title,
			PendingDays: pendingDays,
		}); err != nil {
			s.log.Error("failed to publish stale report event", "error", err, "reportId", report.ID)
		}
	}
}
