package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/laborhours/api/pkg/logger"
)

// Task types for maintenance jobs
const (
	TypeRetentionSweep = "maintenance:retention_sweep"
	TypeReminderFanOut = "maintenance:reminder_fanout"
)

// NewRetentionSweepTask creates a retention sweep task.
func NewRetentionSweepTask() *asynq.Task {
	return asynq.NewTask(
		TypeRetentionSweep,
		nil,
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
		asynq.Queue("maintenance"),
	)
}

// NewReminderFanOutTask creates a reminder fan-out task.
func NewReminderFanOutTask() *asynq.Task {
	return asynq.NewTask(
		TypeReminderFanOut,
		nil,
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
		asynq.Queue("maintenance"),
	)
}

// LogPruner deletes log rows older than a cutoff and reports how many went.
type LogPruner interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// ReminderRecipient identifies a user who has not submitted the questionnaire.
type ReminderRecipient struct {
	UserID   string
	Email    string
	FullName string
}

// ReminderSource lists the users that still owe a questionnaire submission.
type ReminderSource interface {
	ListPendingReminders(ctx context.Context) ([]ReminderRecipient, error)
}

// RetentionConfig controls how long log rows are kept.
type RetentionConfig struct {
	EmailLogMaxAge time.Duration
	AuditLogMaxAge time.Duration
}

// MaintenanceTaskHandler handles scheduled maintenance tasks: pruning old
// log rows and fanning out reminder emails to users with unsubmitted
// questionnaires.
type MaintenanceTaskHandler struct {
	emailLogs LogPruner
	auditLogs LogPruner
	reminders ReminderSource
	client    *Client
	retention RetentionConfig
	logger    *logger.Logger
}

// NewMaintenanceTaskHandler creates a new maintenance task handler.
func NewMaintenanceTaskHandler(
	emailLogs LogPruner,
	auditLogs LogPruner,
	reminders ReminderSource,
	client *Client,
	retention RetentionConfig,
	log *logger.Logger,
) *MaintenanceTaskHandler {
	return &MaintenanceTaskHandler{
		emailLogs: emailLogs,
		auditLogs: auditLogs,
		reminders: reminders,
		client:    client,
		retention: retention,
		logger:    log.With("handler", "maintenance_tasks"),
	}
}

// RegisterHandlers registers maintenance handlers on the mux.
func (h *MaintenanceTaskHandler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeRetentionSweep, h.HandleRetentionSweep)
	mux.HandleFunc(TypeReminderFanOut, h.HandleReminderFanOut)
}

// HandleRetentionSweep prunes email and audit log rows past their retention
// windows. A failure on one table does not stop the sweep of the other.
func (h *MaintenanceTaskHandler) HandleRetentionSweep(ctx context.Context, _ *asynq.Task) error {
	now := time.Now().UTC()
	var firstErr error

	if h.retention.EmailLogMaxAge > 0 {
		deleted, err := h.emailLogs.DeleteOlderThan(ctx, now.Add(-h.retention.EmailLogMaxAge))
		if err != nil {
			h.logger.Error("email log sweep failed", "error", err)
			firstErr = err
		} else if deleted > 0 {
			h.logger.Info("email log sweep done", "deleted", deleted)
		}
	}

	if h.retention.AuditLogMaxAge > 0 {
		deleted, err := h.auditLogs.DeleteOlderThan(ctx, now.Add(-h.retention.AuditLogMaxAge))
		if err != nil {
			h.logger.Error("audit log sweep failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		} else if deleted > 0 {
			h.logger.Info("audit log sweep done", "deleted", deleted)
		}
	}

	if firstErr != nil {
		return fmt.Errorf("retention sweep: %w", firstErr)
	}
	return nil
}

// HandleReminderFanOut enqueues a reminder email for every user who has not
// submitted the questionnaire yet. Enqueue failures are logged per recipient
// so one bad entry does not block the rest of the batch.
func (h *MaintenanceTaskHandler) HandleReminderFanOut(ctx context.Context, _ *asynq.Task) error {
	recipients, err := h.reminders.ListPendingReminders(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending reminders: %w", err)
	}

	if len(recipients) == 0 {
		h.logger.Info("no pending reminders")
		return nil
	}

	var enqueued, failed int
	for _, r := range recipients {
		err := h.client.EnqueueReminderEmail(ctx, ReminderEmailPayload{
			RecipientEmail: r.Email,
			FullName:       r.FullName,
			UserID:         r.UserID,
		})
		if err != nil {
			h.logger.Error("failed to enqueue reminder",
				"email", r.Email,
				"error", err,
			)
			failed++
			continue
		}
		enqueued++
	}

	h.logger.Info("reminder fan-out done",
		"recipients", len(recipients),
		"enqueued", enqueued,
		"failed", failed,
	)
	return nil
}
