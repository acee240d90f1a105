package main

import (
	"context"
	"time"

	"sorun_takip_backend/internal/gazetteer"
	"sorun_takip_backend/internal/geocode"
	reportrepo "sorun_takip_backend/internal/reports/repository"
	"sorun_takip_backend/platform/config"
	"sorun_takip_backend/platform/db"
	"sorun_takip_backend/platform/logger"
	"sorun_takip_backend/platform/metrics"
)

// Backfill for reports whose coordinates were pinned but whose city or
// district never got resolved, typically because every provider was down
// at submission time.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting report geocode backfill")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	resolver := geocode.NewModule(cfg, log, metrics.New()).Resolver()
	repo := reportrepo.New(pool)

	const batchSize = 25
	for {
		reports, err := repo.ListUnlocated(ctx, batchSize)
		if err != nil {
			log.Error("failed to list reports", "error", err)
			return
		}
		if len(reports) == 0 {
			log.Info("no reports left to backfill")
			return
		}

		progress := false

		for _, report := range reports {
			merged, err := resolver.Resolve(ctx, report.Latitude, report.Longitude)
			if err != nil {
				log.Error("resolve failed", "reportId", report.ID, "error", err)
				time.Sleep(time.Second)
				continue
			}

			city := report.City
			if city == "" {
				city = merged.City
			}
			district := report.District
			if district == "" {
				district = merged.District
			}
			address := report.Address
			if address == "" {
				address = merged.FullAddress
			}

			if province, ok := gazetteer.MatchProvince(city); ok {
				city = province
			}
			if canonical, ok := gazetteer.MatchDistrict(city, district); ok {
				district = canonical
			}

			if city == "" || district == "" {
				log.Info("still unresolved, skipping", "reportId", report.ID)
				time.Sleep(time.Second)
				continue
			}
			if address == "" {
				address = district + ", " + city
			}

			if err := repo.UpdateLocation(ctx, report.ID, city, district, address); err != nil {
				log.Error("failed to update report", "reportId", report.ID, "error", err)
				time.Sleep(time.Second)
				continue
			}

			log.Info("report located", "reportId", report.ID, "city", city, "district", district)
			progress = true
			time.Sleep(time.Second)
		}

		if !progress {
			log.Info("no backfill progress in batch, stopping")
			return
		}
	}
}
