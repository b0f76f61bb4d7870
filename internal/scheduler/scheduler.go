package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dmarinho2/prt-fiscal/internal/config"
	"github.com/dmarinho2/prt-fiscal/internal/service/reports"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron       *cron.Cron
	reportsSvc *reports.Service
	cfg        config.Config
	logger     *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, reportsSvc *reports.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Export.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to local", zap.String("timezone", cfg.Export.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(location)),
		reportsSvc: reportsSvc,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers the batch-export job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Export.CronSchedule))

	// Default schedule runs on the 1st of each month, exporting the
	// period that just closed.
	_, err := s.cron.AddFunc(s.cfg.Export.CronSchedule, s.exportClosedPeriod)
	if err != nil {
		s.logger.Error("failed to schedule batch export", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) exportClosedPeriod() {
	period := previousPeriod(time.Now())
	s.logger.Info("starting scheduled batch export", zap.String("period", period))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	generated, err := s.reportsSvc.GenerateForPeriod(ctx, period)
	if err != nil {
		s.logger.Error("scheduled batch export failed", zap.String("period", period), zap.Error(err))
		return
	}

	s.logger.Info("scheduled batch export done", zap.String("period", period), zap.Int("generated", generated))
}

// previousPeriod renders the MM/YYYY competência of the month before t.
func previousPeriod(t time.Time) string {
	prev := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, -1, 0)
	return fmt.Sprintf("%02d/%d", int(prev.Month()), prev.Year())
}
