package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher re-runs the fetch cycle for whatever symbol is selected.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler triggers periodic refreshes so a long-running session picks up
// new data once its cache entry has gone stale.
type Scheduler struct {
	Cron      *cron.Cron
	Refresher Refresher
	Ctx       context.Context
	logger    *zap.Logger
}

// NewScheduler creates a Scheduler. Cron expressions include a seconds field.
func NewScheduler(ctx context.Context, r Refresher, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Refresher: r,
		Ctx:       ctx,
		logger:    logger,
	}
}

// Register adds the refresh job. An empty expression registers nothing.
func (s *Scheduler) Register(refreshCron string) error {
	if refreshCron == "" {
		s.logger.Info("refresh schedule disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	s.logger.Info("refresh task registered", zap.String("cron", refreshCron))
	return nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunNow executes the refresh task immediately.
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	if s.Ctx.Err() != nil {
		return
	}
	s.logger.Debug("running scheduled refresh")
	if err := s.Refresher.Refresh(s.Ctx); err != nil {
		s.logger.Error("scheduled refresh", zap.Error(err))
	}
}
