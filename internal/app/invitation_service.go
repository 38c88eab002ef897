package app

import (
	"context"
	"fmt"

	"github.com/laborhours/api/pkg/domain/profile"
	"github.com/laborhours/api/pkg/domain/provisioning"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/domain/user"
	"github.com/laborhours/api/pkg/logger"
	"github.com/laborhours/api/pkg/password"
)

// InvitationEmailJob is the payload handed to the job queue for an
// invitation email.
type InvitationEmailJob struct {
	RecipientEmail string
	FullName       string
	Password       string
	UserID         string
}

// ReminderEmailJob is the payload handed to the job queue for a reminder
// email.
type ReminderEmailJob struct {
	RecipientEmail string
	FullName       string
	UserID         string
}

// EmailJobEnqueuer hands email work to the background queue.
type EmailJobEnqueuer interface {
	EnqueueInvitationEmail(ctx context.Context, payload InvitationEmailJob) error
	EnqueueReminderEmail(ctx context.Context, payload ReminderEmailJob) error
}

// InvitationService manages invitation delivery for provisioned accounts.
type InvitationService struct {
	users    user.Repository
	profiles profile.Repository
	enqueuer EmailJobEnqueuer
	hasher   PasswordHasher
	logger   *logger.Logger
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(
	users user.Repository,
	profiles profile.Repository,
	enqueuer EmailJobEnqueuer,
	hasher PasswordHasher,
	log *logger.Logger,
) *InvitationService {
	return &InvitationService{
		users:    users,
		profiles: profiles,
		enqueuer: enqueuer,
		hasher:   hasher,
		logger:   log.With("service", "invitation"),
	}
}

// SendBatch queues invitations for every account created by a provisioning
// batch. An enqueue failure is logged per recipient and does not affect the
// created accounts; the admin can resend from the user list.
func (s *InvitationService) SendBatch(ctx context.Context, created []provisioning.CreatedUser, names map[string]string) {
	for _, c := range created {
		err := s.enqueuer.EnqueueInvitationEmail(ctx, InvitationEmailJob{
			RecipientEmail: c.Email,
			FullName:       names[c.Email],
			Password:       c.Password,
			UserID:         c.UserID.String(),
		})
		if err != nil {
			s.logger.Error("failed to queue invitation",
				"email", c.Email,
				"user_id", c.UserID,
				"error", err,
			)
		}
	}
}

// Send queues the invitation for one account.
func (s *InvitationService) Send(ctx context.Context, userID shared.ID, fullName, plaintext string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.enqueuer.EnqueueInvitationEmail(ctx, InvitationEmailJob{
		RecipientEmail: u.Email(),
		FullName:       fullName,
		Password:       plaintext,
		UserID:         userID.String(),
	})
}

// Resend rotates the account's temporary password and queues a fresh
// invitation carrying it. The rotation is committed before the send is even
// queued: the old temporary password stops working the moment the admin
// clicks resend, whether or not the mail goes out.
func (s *InvitationService) Resend(ctx context.Context, userID shared.ID) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	plaintext, err := password.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := u.RotatePassword(hash); err != nil {
		return err
	}
	if err := s.users.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to rotate password: %w", err)
	}

	s.logger.Info("temporary password rotated", "user_id", userID)

	return s.enqueuer.EnqueueInvitationEmail(ctx, InvitationEmailJob{
		RecipientEmail: u.Email(),
		FullName:       p.FullName(),
		Password:       plaintext,
		UserID:         userID.String(),
	})
}

// ResendBatch resends the invitation for a set of accounts. Each resend
// rotates that account's temporary password the same way the single path
// does; a failing user lands in the report and never stops the rest.
func (s *InvitationService) ResendBatch(ctx context.Context, ids []shared.ID) *provisioning.ResendReport {
	report := provisioning.NewResendReport(len(ids))
	for _, id := range ids {
		if err := s.Resend(ctx, id); err != nil {
			report.AddFailed(id, resendErrorMessage(err))
			continue
		}
		report.AddSent(id)
	}
	report.Finalize()

	s.logger.Info("bulk resend finished",
		"total", report.Summary.Total,
		"sent", report.Summary.Sent,
		"failed", report.Summary.Failed,
	)
	return report
}

func resendErrorMessage(err error) string {
	if shared.IsNotFound(err) {
		return "user not found"
	}
	return err.Error()
}

// PendingReminder identifies a user owed a questionnaire reminder.
type PendingReminder struct {
	UserID   string
	Email    string
	FullName string
}

// ListPendingReminders returns active users who have not submitted the
// questionnaire. The job worker fans reminder emails out from this list.
func (s *InvitationService) ListPendingReminders(ctx context.Context) ([]PendingReminder, error) {
	const pageSize = 500

	var out []PendingReminder
	filter := user.Filter{}.WithStatus(user.StatusActive)
	for offset := 0; ; offset += pageSize {
		users, err := s.users.List(ctx, filter, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		for _, u := range users {
			p, err := s.profiles.GetByUserID(ctx, u.ID())
			if err != nil {
				s.logger.Warn("skipping reminder, profile lookup failed",
					"user_id", u.ID(),
					"error", err,
				)
				continue
			}
			if p.QuestionnaireCompleted() {
				continue
			}
			out = append(out, PendingReminder{
				UserID:   u.ID().String(),
				Email:    u.Email(),
				FullName: p.FullName(),
			})
		}
		if len(users) < pageSize {
			break
		}
	}
	return out, nil
}
