package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/laborhours/api/pkg/logger"
)

// SchedulerConfig holds the cron expressions for recurring jobs. An empty
// expression disables that job.
type SchedulerConfig struct {
	ReminderSchedule  string
	RetentionSchedule string
}

// Scheduler enqueues recurring maintenance jobs on a cron schedule. It only
// enqueues; the worker does the actual work, so multiple API replicas can
// run without duplicating effort as long as one scheduler is active.
type Scheduler struct {
	cron   *cron.Cron
	client *Client
	cfg    SchedulerConfig
	logger *logger.Logger
}

// NewScheduler creates a scheduler for recurring jobs.
func NewScheduler(cfg SchedulerConfig, client *Client, log *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		client: client,
		cfg:    cfg,
		logger: log.With("component", "scheduler"),
	}

	if cfg.RetentionSchedule != "" {
		_, err := s.cron.AddFunc(cfg.RetentionSchedule, func() {
			if err := s.client.EnqueueRetentionSweep(context.Background()); err != nil {
				s.logger.Error("retention sweep enqueue failed", "error", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("invalid retention schedule %q: %w", cfg.RetentionSchedule, err)
		}
	}

	if cfg.ReminderSchedule != "" {
		_, err := s.cron.AddFunc(cfg.ReminderSchedule, func() {
			if err := s.client.EnqueueReminderFanOut(context.Background()); err != nil {
				s.logger.Error("reminder fan-out enqueue failed", "error", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("invalid reminder schedule %q: %w", cfg.ReminderSchedule, err)
		}
	}

	return s, nil
}

// Start begins dispatching scheduled jobs.
func (s *Scheduler) Start() {
	if len(s.cron.Entries()) == 0 {
		s.logger.Info("no recurring jobs configured")
		return
	}
	s.logger.Info("scheduler started",
		"retention_schedule", s.cfg.RetentionSchedule,
		"reminder_schedule", s.cfg.ReminderSchedule,
	)
	s.cron.Start()
}

// Stop stops the scheduler and waits for in-flight dispatches to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
