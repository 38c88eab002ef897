package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/laborhours/api/internal/app"
	"github.com/laborhours/api/pkg/logger"
)

// WorkerConfig holds the configuration for the job worker.
type WorkerConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
}

// WorkerOption is a functional option for configuring the Worker.
type WorkerOption func(*Worker)

// Worker processes background jobs.
type Worker struct {
	server             *asynq.Server
	mux                *asynq.ServeMux
	logger             *logger.Logger
	maintenanceHandler *MaintenanceTaskHandler
}

// WithMaintenanceHandler adds a maintenance task handler to the worker.
func WithMaintenanceHandler(handler *MaintenanceTaskHandler) WorkerOption {
	return func(w *Worker) {
		w.maintenanceHandler = handler
	}
}

// NewWorker creates a new background job worker.
func NewWorker(cfg WorkerConfig, emailService *app.EmailService, log *logger.Logger, opts ...WorkerOption) (*Worker, error) {
	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				"default":     10,
				"email":       5,
				"maintenance": 2,
			},
		},
	)

	mux := asynq.NewServeMux()

	emailHandler := NewEmailTaskHandler(emailService, log)
	mux.HandleFunc(TypeEmailInvitation, emailHandler.HandleInvitationEmail)
	mux.HandleFunc(TypeEmailReminder, emailHandler.HandleReminderEmail)

	w := &Worker{
		server: server,
		mux:    mux,
		logger: log,
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.maintenanceHandler != nil {
		w.maintenanceHandler.RegisterHandlers(mux)
		log.Info("maintenance task handlers registered")
	}

	return w, nil
}

// Start starts the worker.
func (w *Worker) Start() error {
	w.logger.Info("starting job worker")
	return w.server.Start(w.mux)
}

// Stop stops the worker gracefully.
func (w *Worker) Stop() {
	w.logger.Info("stopping job worker")
	w.server.Shutdown()
}

// Run runs the worker until shutdown.
func (w *Worker) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Start(w.mux)
	}()

	select {
	case <-ctx.Done():
		w.Stop()
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("worker error: %w", err)
		}
		return nil
	}
}
