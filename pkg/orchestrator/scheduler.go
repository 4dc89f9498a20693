package orchestrator

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler re-runs ingestion over all enabled sources on a fixed interval.
// An interval of zero disables it.
type Scheduler struct {
	cron         *cron.Cron
	orchestrator *Orchestrator
	logger       *zap.Logger
}

// NewScheduler wires the cron entry. Returns a disabled scheduler when
// intervalHours is zero.
func NewScheduler(o *Orchestrator, intervalHours int, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{orchestrator: o, logger: logger}
	if intervalHours <= 0 {
		logger.Info("scheduled scraping disabled")
		return s, nil
	}

	s.cron = cron.New()
	spec := fmt.Sprintf("@every %dh", intervalHours)
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, err
	}
	logger.Info("scheduled scraping enabled", zap.String("schedule", spec))
	return s, nil
}

func (s *Scheduler) tick() {
	run, err := s.orchestrator.StartRun(context.Background(), nil)
	if err != nil {
		s.logger.Error("scheduled scrape failed to start", zap.Error(err))
		return
	}
	s.logger.Info("scheduled scrape started", zap.String("run_id", run.ID))
}

// Start begins the schedule. No-op when disabled.
func (s *Scheduler) Start() {
	if s.cron != nil {
		s.cron.Start()
	}
}

// Stop halts the schedule and waits for a running tick to hand off.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
