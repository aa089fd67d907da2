// Package scheduler runs the recurring market-data refresh.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"stockhub/internal/alphavantage"
	"stockhub/internal/logger"
	"stockhub/internal/services"
)

// Scheduler triggers the daily ingestion batch at a fixed wall-clock time.
type Scheduler struct {
	cron      *cron.Cron
	ingestion services.IngestionServicer
	summaries services.SummaryServicer
	spec      string
}

// New creates a scheduler with a minute-resolution cron spec
// (e.g. "30 18 * * *").
func New(spec string, ingestion services.IngestionServicer, summaries services.SummaryServicer) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		ingestion: ingestion,
		summaries: summaries,
		spec:      spec,
	}
}

// Start registers the daily job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runDailyRefresh); err != nil {
		return err
	}
	s.cron.Start()
	logger.Get().Infow("ingestion scheduler started", "spec", s.spec)
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// runDailyRefresh ingests every known stock and rebuilds today's
// summary. Per-symbol failures are already isolated inside IngestAll.
func (s *Scheduler) runDailyRefresh() {
	log := logger.Get()
	log.Info("daily market-data refresh starting")

	ctx := context.Background()
	report, err := s.ingestion.IngestAll(ctx, alphavantage.OutputSizeCompact)
	if err != nil {
		log.Errorw("daily refresh failed", "error", err.Error())
		return
	}

	if _, err := s.summaries.RebuildForDate(time.Now().UTC()); err != nil {
		log.Errorw("daily summary rebuild failed", "error", err.Error())
	}

	log.Infow("daily market-data refresh finished",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
}
