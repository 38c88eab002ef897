package jobs

import (
	"context"

	"github.com/laborhours/api/internal/app"
)

// EmailEnqueuerAdapter wraps the job Client to implement app.EmailJobEnqueuer.
type EmailEnqueuerAdapter struct {
	client *Client
}

// NewEmailEnqueuerAdapter creates a new adapter.
func NewEmailEnqueuerAdapter(client *Client) *EmailEnqueuerAdapter {
	return &EmailEnqueuerAdapter{client: client}
}

// EnqueueInvitationEmail converts the app payload to a job payload and enqueues.
func (a *EmailEnqueuerAdapter) EnqueueInvitationEmail(ctx context.Context, payload app.InvitationEmailJob) error {
	return a.client.EnqueueInvitationEmail(ctx, InvitationEmailPayload{
		RecipientEmail: payload.RecipientEmail,
		FullName:       payload.FullName,
		Password:       payload.Password,
		UserID:         payload.UserID,
	})
}

// EnqueueReminderEmail converts the app payload to a job payload and enqueues.
func (a *EmailEnqueuerAdapter) EnqueueReminderEmail(ctx context.Context, payload app.ReminderEmailJob) error {
	return a.client.EnqueueReminderEmail(ctx, ReminderEmailPayload{
		RecipientEmail: payload.RecipientEmail,
		FullName:       payload.FullName,
		UserID:         payload.UserID,
	})
}

// SyncEmailEnqueuer sends emails inline instead of queueing them. Used when
// the worker is disabled so invitations still go out, just on the request
// path.
type SyncEmailEnqueuer struct {
	emailService *app.EmailService
}

// NewSyncEmailEnqueuer creates an enqueuer that dispatches synchronously.
func NewSyncEmailEnqueuer(emailService *app.EmailService) *SyncEmailEnqueuer {
	return &SyncEmailEnqueuer{emailService: emailService}
}

// EnqueueInvitationEmail sends the invitation email immediately.
func (s *SyncEmailEnqueuer) EnqueueInvitationEmail(ctx context.Context, payload app.InvitationEmailJob) error {
	return s.emailService.SendInvitationEmail(ctx, payload.RecipientEmail, payload.FullName, payload.Password)
}

// EnqueueReminderEmail sends the reminder email immediately.
func (s *SyncEmailEnqueuer) EnqueueReminderEmail(ctx context.Context, payload app.ReminderEmailJob) error {
	return s.emailService.SendReminderEmail(ctx, payload.RecipientEmail, payload.FullName)
}

// ReminderSourceAdapter exposes the invitation service's pending list as a
// ReminderSource for the maintenance handler.
type ReminderSourceAdapter struct {
	invitations *app.InvitationService
}

// NewReminderSourceAdapter creates a new adapter.
func NewReminderSourceAdapter(invitations *app.InvitationService) *ReminderSourceAdapter {
	return &ReminderSourceAdapter{invitations: invitations}
}

// ListPendingReminders converts the app-level pending list to job recipients.
func (a *ReminderSourceAdapter) ListPendingReminders(ctx context.Context) ([]ReminderRecipient, error) {
	pending, err := a.invitations.ListPendingReminders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ReminderRecipient, 0, len(pending))
	for _, p := range pending {
		out = append(out, ReminderRecipient{
			UserID:   p.UserID,
			Email:    p.Email,
			FullName: p.FullName,
		})
	}
	return out, nil
}

// Ensure adapters implement the interfaces
var _ app.EmailJobEnqueuer = (*EmailEnqueuerAdapter)(nil)
var _ app.EmailJobEnqueuer = (*SyncEmailEnqueuer)(nil)
var _ ReminderSource = (*ReminderSourceAdapter)(nil)
