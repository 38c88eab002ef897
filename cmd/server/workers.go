package main

import (
	"github.com/laborhours/api/internal/config"
	"github.com/laborhours/api/internal/infra/jobs"
	"github.com/laborhours/api/pkg/logger"
)

// Workers bundles the background worker and the cron scheduler. Both are nil
// when the worker is disabled.
type Workers struct {
	worker    *jobs.Worker
	scheduler *jobs.Scheduler
}

// NewWorkers builds the background processing side: the asynq worker that
// sends email and runs maintenance, and the scheduler that enqueues the
// recurring jobs.
func NewWorkers(
	cfg *config.Config,
	repos *Repositories,
	services *Services,
	jobClient *jobs.Client,
	log *logger.Logger,
) (*Workers, error) {
	if !cfg.Worker.Enabled {
		return &Workers{}, nil
	}

	maintenance := jobs.NewMaintenanceTaskHandler(
		repos.EmailLogs,
		repos.Audit,
		jobs.NewReminderSourceAdapter(services.Invitations),
		jobClient,
		jobs.RetentionConfig{
			EmailLogMaxAge: cfg.Retention.EmailLogMaxAge,
			AuditLogMaxAge: cfg.Retention.AuditLogMaxAge,
		},
		log,
	)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisAddr:     cfg.Redis.Addr(),
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		Concurrency:   cfg.Worker.Concurrency,
	}, services.Email, log, jobs.WithMaintenanceHandler(maintenance))
	if err != nil {
		return nil, err
	}

	scheduler, err := jobs.NewScheduler(jobs.SchedulerConfig{
		ReminderSchedule:  cfg.Worker.ReminderSchedule,
		RetentionSchedule: cfg.Worker.RetentionSchedule,
	}, jobClient, log)
	if err != nil {
		return nil, err
	}

	return &Workers{worker: worker, scheduler: scheduler}, nil
}

// Start launches the worker and the scheduler.
func (w *Workers) Start(log *logger.Logger) error {
	if w.worker == nil {
		log.Info("background worker disabled")
		return nil
	}
	if err := w.worker.Start(); err != nil {
		return err
	}
	w.scheduler.Start()
	return nil
}

// Stop shuts both down, scheduler first so nothing new gets enqueued.
func (w *Workers) Stop(log *logger.Logger) {
	if w.worker == nil {
		return
	}
	w.scheduler.Stop()
	w.worker.Stop()
	log.Info("background workers stopped")
}
