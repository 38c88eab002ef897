// Package app contains the application services that orchestrate the domain
// packages: provisioning, invitations, authentication, questionnaire
// responses, reference data and admin settings.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/laborhours/api/internal/metrics"
	"github.com/laborhours/api/pkg/domain/profile"
	"github.com/laborhours/api/pkg/domain/settings"
	"github.com/laborhours/api/pkg/domain/user"
	"github.com/laborhours/api/pkg/email"
	"github.com/laborhours/api/pkg/logger"
)

// EmailService sends invitation and reminder mail. SMTP settings and
// templates are admin-managed rows, so both are loaded per send rather than
// captured at startup; changing them takes effect on the next dispatch.
//
// Every dispatch attempt is recorded in the email log, success or failure.
// A failed send never rolls anything back: the account, template and
// settings stay as they are and the failure is visible in the log.
type EmailService struct {
	settingsRepo settings.Repository
	emailLogs    settings.EmailLogRepository
	users        user.Repository
	profiles     profile.Repository
	senderFor    email.Factory
	builtin      *email.TemplateEngine
	appName      string
	loginURL     string
	logger       *logger.Logger
}

// NewEmailService creates a new EmailService. senderFor builds the SMTP
// sender from the stored settings on every dispatch.
func NewEmailService(
	settingsRepo settings.Repository,
	emailLogs settings.EmailLogRepository,
	users user.Repository,
	profiles profile.Repository,
	senderFor email.Factory,
	appName, loginURL string,
	log *logger.Logger,
) *EmailService {
	return &EmailService{
		settingsRepo: settingsRepo,
		emailLogs:    emailLogs,
		users:        users,
		profiles:     profiles,
		senderFor:    senderFor,
		builtin:      email.NewTemplateEngine(),
		appName:      appName,
		loginURL:     loginURL,
		logger:       log.With("service", "email"),
	}
}

// SendInvitationEmail sends the account invitation with the temporary
// password. On success the profile's invitation timestamp is stamped.
func (s *EmailService) SendInvitationEmail(ctx context.Context, recipient, fullName, password string) error {
	data := settings.TemplateData{
		FullName: fullName,
		Email:    recipient,
		Password: password,
		LoginURL: s.loginURL,
	}

	err := s.send(ctx, recipient, settings.TemplateInvitation, data)
	if err != nil {
		return err
	}

	s.markInvitationSent(ctx, recipient)
	return nil
}

// SendReminderEmail sends a questionnaire reminder.
func (s *EmailService) SendReminderEmail(ctx context.Context, recipient, fullName string) error {
	data := settings.TemplateData{
		FullName: fullName,
		Email:    recipient,
		LoginURL: s.loginURL,
	}
	return s.send(ctx, recipient, settings.TemplateReminder, data)
}

// TestSMTP connects and authenticates with the given settings without
// sending anything. Backs the admin "test connection" button.
func (s *EmailService) TestSMTP(ctx context.Context, cfg settings.SMTPSettings) error {
	if !cfg.IsConfigured() {
		return settings.ErrSMTPNotConfigured
	}
	sender := email.NewSMTPSender(smtpConfig(cfg))
	return sender.Verify(ctx)
}

// IsConfigured reports whether stored SMTP settings are complete enough to
// send mail.
func (s *EmailService) IsConfigured(ctx context.Context) bool {
	cfg, err := s.settingsRepo.GetSMTP(ctx)
	if err != nil {
		return false
	}
	return cfg.IsConfigured()
}

func (s *EmailService) send(ctx context.Context, recipient string, tt settings.TemplateType, data settings.TemplateData) error {
	subject, body, err := s.render(ctx, tt, data)
	if err != nil {
		s.recordOutcome(ctx, recipient, tt, err)
		return err
	}

	cfg, err := s.settingsRepo.GetSMTP(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrSettingsNotFound) {
			err = settings.ErrSMTPNotConfigured
		}
		s.recordOutcome(ctx, recipient, tt, err)
		return err
	}
	if !cfg.IsConfigured() {
		s.recordOutcome(ctx, recipient, tt, settings.ErrSMTPNotConfigured)
		return settings.ErrSMTPNotConfigured
	}

	sender := s.senderFor(smtpConfig(cfg))
	sendErr := sender.Send(ctx, &email.Message{
		To:      []string{recipient},
		Subject: subject,
		Body:    body,
		IsHTML:  true,
	})

	s.recordOutcome(ctx, recipient, tt, sendErr)
	if sendErr != nil {
		return fmt.Errorf("failed to send %s email: %w", tt, sendErr)
	}

	s.logger.Info("email sent", "template", tt, "recipient", recipient)
	return nil
}

// render prefers the admin-edited active template and falls back to the
// built-in one when none is active.
func (s *EmailService) render(ctx context.Context, tt settings.TemplateType, data settings.TemplateData) (subject, body string, err error) {
	tmpl, err := s.settingsRepo.GetActiveTemplate(ctx, tt)
	if err == nil {
		subject, body = tmpl.Render(data)
		return subject, body, nil
	}
	if !errors.Is(err, settings.ErrTemplateNotFound) {
		return "", "", fmt.Errorf("failed to load %s template: %w", tt, err)
	}

	switch tt {
	case settings.TemplateInvitation:
		return s.builtin.Render(email.TemplateInvitation, email.InvitationData{
			FullName: data.FullName,
			Email:    data.Email,
			Password: data.Password,
			LoginURL: data.LoginURL,
			AppName:  s.appName,
		})
	case settings.TemplateReminder:
		return s.builtin.Render(email.TemplateReminder, email.ReminderData{
			FullName: data.FullName,
			LoginURL: data.LoginURL,
			AppName:  s.appName,
		})
	default:
		return "", "", fmt.Errorf("unknown template type %q", tt)
	}
}

// recordOutcome appends to the dispatch log. Logging failures are reported
// to the structured log only; they never fail the send path.
func (s *EmailService) recordOutcome(ctx context.Context, recipient string, tt settings.TemplateType, sendErr error) {
	errMsg := ""
	if sendErr != nil {
		errMsg = sendErr.Error()
		metrics.EmailsFailedTotal.WithLabelValues(string(tt)).Inc()
	} else {
		metrics.EmailsSentTotal.WithLabelValues(string(tt)).Inc()
	}

	entry := settings.NewEmailLog(recipient, tt, errMsg)
	if err := s.emailLogs.Create(ctx, entry); err != nil {
		s.logger.Error("failed to record email log",
			"recipient", recipient,
			"template", tt,
			"error", err,
		)
	}
}

func (s *EmailService) markInvitationSent(ctx context.Context, recipient string) {
	u, err := s.users.GetByEmail(ctx, recipient)
	if err != nil {
		s.logger.Warn("invitation sent but user lookup failed", "email", recipient, "error", err)
		return
	}
	p, err := s.profiles.GetByUserID(ctx, u.ID())
	if err != nil {
		s.logger.Warn("invitation sent but profile lookup failed", "email", recipient, "error", err)
		return
	}
	p.MarkInvitationSent(time.Now().UTC())
	if err := s.profiles.Update(ctx, p); err != nil {
		s.logger.Warn("failed to stamp invitation time", "email", recipient, "error", err)
	}
}

func smtpConfig(cfg settings.SMTPSettings) email.Config {
	return email.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.Username,
		Password: cfg.Password,
		From:     cfg.FromEmail,
		FromName: cfg.FromName,
		TLS:      cfg.UseTLS,
	}
}
