package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/laborhours/api/pkg/domain/settings"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/logger"
	"github.com/laborhours/api/pkg/pagination"
)

// SettingsService manages the admin-editable configuration: SMTP delivery,
// email templates and interface branding, plus the email dispatch log.
type SettingsService struct {
	repo      settings.Repository
	emailLogs settings.EmailLogRepository
	email     *EmailService
	logger    *logger.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(
	repo settings.Repository,
	emailLogs settings.EmailLogRepository,
	email *EmailService,
	log *logger.Logger,
) *SettingsService {
	return &SettingsService{
		repo:      repo,
		emailLogs: emailLogs,
		email:     email,
		logger:    log.With("service", "settings"),
	}
}

// GetSMTP returns the stored SMTP settings. The password is cleared; the
// JSON shape never carries it, and updates treat an empty password as
// "keep the stored one".
func (s *SettingsService) GetSMTP(ctx context.Context) (settings.SMTPSettings, error) {
	cfg, err := s.repo.GetSMTP(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrSettingsNotFound) {
			return settings.SMTPSettings{}, nil
		}
		return settings.SMTPSettings{}, err
	}
	cfg.Password = ""
	return cfg, nil
}

// SaveSMTP stores the SMTP settings. An empty password keeps the stored
// one so admins can edit the host without re-entering the credential.
func (s *SettingsService) SaveSMTP(ctx context.Context, cfg settings.SMTPSettings) error {
	if cfg.Password == "" {
		stored, err := s.repo.GetSMTP(ctx)
		if err == nil {
			cfg.Password = stored.Password
		} else if !errors.Is(err, settings.ErrSettingsNotFound) {
			return err
		}
	}

	if err := s.repo.SaveSMTP(ctx, cfg); err != nil {
		return fmt.Errorf("failed to save smtp settings: %w", err)
	}
	s.logger.Info("smtp settings updated", "host", cfg.Host, "port", cfg.Port)
	return nil
}

// TestSMTP verifies connectivity with the given settings. An empty password
// falls back to the stored one, mirroring SaveSMTP.
func (s *SettingsService) TestSMTP(ctx context.Context, cfg settings.SMTPSettings) error {
	if cfg.Password == "" {
		stored, err := s.repo.GetSMTP(ctx)
		if err == nil {
			cfg.Password = stored.Password
		}
	}
	return s.email.TestSMTP(ctx, cfg)
}

// ListTemplates returns all stored email templates.
func (s *SettingsService) ListTemplates(ctx context.Context) ([]settings.EmailTemplate, error) {
	return s.repo.ListTemplates(ctx)
}

// SaveTemplate stores a template. Activating one deactivates the other
// templates of the same type.
func (s *SettingsService) SaveTemplate(ctx context.Context, t settings.EmailTemplate) error {
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: unknown template type %q", shared.ErrValidation, t.Type)
	}
	if t.Subject == "" || t.Body == "" {
		return fmt.Errorf("%w: subject and body are required", shared.ErrValidation)
	}
	if t.ID.IsZero() {
		t.ID = shared.NewID()
	}

	if err := s.repo.SaveTemplate(ctx, t); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	s.logger.Info("email template saved", "type", t.Type, "active", t.Active)
	return nil
}

// GetInterface returns the branding settings.
func (s *SettingsService) GetInterface(ctx context.Context) (settings.InterfaceSettings, error) {
	cfg, err := s.repo.GetInterface(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrSettingsNotFound) {
			return settings.InterfaceSettings{}, nil
		}
		return settings.InterfaceSettings{}, err
	}
	return cfg, nil
}

// SaveInterface stores the branding settings.
func (s *SettingsService) SaveInterface(ctx context.Context, cfg settings.InterfaceSettings) error {
	if err := s.repo.SaveInterface(ctx, cfg); err != nil {
		return fmt.Errorf("failed to save interface settings: %w", err)
	}
	s.logger.Info("interface settings updated", "title", cfg.Title)
	return nil
}

// ListEmailLog returns a page of the email dispatch log, newest first.
func (s *SettingsService) ListEmailLog(ctx context.Context, page pagination.Pagination) (*pagination.Result[settings.EmailLog], error) {
	total, err := s.emailLogs.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count email log: %w", err)
	}
	logs, err := s.emailLogs.List(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list email log: %w", err)
	}
	result := pagination.NewResult(logs, total, page)
	return &result, nil
}
