// Package jobs provides background job definitions and handlers using Asynq.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/laborhours/api/internal/app"
	"github.com/laborhours/api/pkg/logger"
)

// Task types for email jobs
const (
	TypeEmailInvitation = "email:invitation"
	TypeEmailReminder   = "email:reminder"
)

// InvitationEmailPayload contains data for sending account invitation emails.
// The temporary password travels in the payload because it exists only in
// memory at provisioning time; the handler must receive the same value that
// was generated for the account.
type InvitationEmailPayload struct {
	RecipientEmail string `json:"recipient_email"`
	FullName       string `json:"full_name"`
	Password       string `json:"password"`
	UserID         string `json:"user_id"`
}

// ReminderEmailPayload contains data for sending questionnaire reminder emails.
type ReminderEmailPayload struct {
	RecipientEmail string `json:"recipient_email"`
	FullName       string `json:"full_name"`
	UserID         string `json:"user_id"`
}

// NewInvitationEmailTask creates a new invitation email task.
func NewInvitationEmailTask(payload InvitationEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invitation payload: %w", err)
	}
	return asynq.NewTask(
		TypeEmailInvitation,
		data,
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
		asynq.Queue("email"),
	), nil
}

// NewReminderEmailTask creates a new reminder email task.
func NewReminderEmailTask(payload ReminderEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reminder payload: %w", err)
	}
	return asynq.NewTask(
		TypeEmailReminder,
		data,
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
		asynq.Queue("email"),
	), nil
}

// EmailTaskHandler handles email task processing.
type EmailTaskHandler struct {
	emailService *app.EmailService
	logger       *logger.Logger
}

// NewEmailTaskHandler creates a new email task handler.
func NewEmailTaskHandler(emailService *app.EmailService, log *logger.Logger) *EmailTaskHandler {
	return &EmailTaskHandler{
		emailService: emailService,
		logger:       log.With("handler", "email_tasks"),
	}
}

// HandleInvitationEmail processes invitation email tasks.
func (h *EmailTaskHandler) HandleInvitationEmail(ctx context.Context, t *asynq.Task) error {
	var payload InvitationEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	h.logger.Info("processing invitation email",
		"email", payload.RecipientEmail,
		"user_id", payload.UserID,
	)

	err := h.emailService.SendInvitationEmail(
		ctx,
		payload.RecipientEmail,
		payload.FullName,
		payload.Password,
	)
	if err != nil {
		h.logger.Error("failed to send invitation email",
			"email", payload.RecipientEmail,
			"error", err,
		)
		return err
	}

	h.logger.Info("invitation email sent successfully",
		"email", payload.RecipientEmail,
	)
	return nil
}

// HandleReminderEmail processes reminder email tasks.
func (h *EmailTaskHandler) HandleReminderEmail(ctx context.Context, t *asynq.Task) error {
	var payload ReminderEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	h.logger.Info("processing reminder email",
		"email", payload.RecipientEmail,
		"user_id", payload.UserID,
	)

	err := h.emailService.SendReminderEmail(ctx, payload.RecipientEmail, payload.FullName)
	if err != nil {
		h.logger.Error("failed to send reminder email",
			"email", payload.RecipientEmail,
			"error", err,
		)
		return err
	}

	h.logger.Info("reminder email sent successfully",
		"email", payload.RecipientEmail,
	)
	return nil
}
