// Package schedule wires up the cron job that periodically runs the
// ingestion cycle.
package schedule

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler wraps robfig/cron and manages the recurring ingestion loop.
type Scheduler struct {
	cron *cron.Cron
	run  func(ctx context.Context)
	spec string // cron spec, e.g. "@every 6h"
	log  *logrus.Entry
}

// New creates a Scheduler that fires every intervalHours hours.
func New(run func(ctx context.Context), intervalHours int, log *logrus.Entry) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		run:  run,
		spec: fmt.Sprintf("@every %dh", intervalHours),
		log:  log,
	}
}

// Start registers the job and starts the scheduler. Also runs one cycle
// immediately so the table is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.cycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.WithField("spec", s.spec).Info("scheduler started")

	// Run immediately on startup (non-blocking)
	go s.cycle(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) cycle(ctx context.Context) {
	s.log.Info("ingestion cycle started")
	s.run(ctx)
	s.log.Info("ingestion cycle complete")
}
