package settings

import (
	"context"
	"time"
)

// Repository defines the interface for settings persistence.
type Repository interface {
	GetSMTP(ctx context.Context) (SMTPSettings, error)
	SaveSMTP(ctx context.Context, s SMTPSettings) error

	GetActiveTemplate(ctx context.Context, tt TemplateType) (EmailTemplate, error)
	ListTemplates(ctx context.Context) ([]EmailTemplate, error)
	SaveTemplate(ctx context.Context, t EmailTemplate) error

	GetInterface(ctx context.Context) (InterfaceSettings, error)
	SaveInterface(ctx context.Context, s InterfaceSettings) error
}

// EmailLogRepository defines the interface for the dispatch log.
type EmailLogRepository interface {
	Create(ctx context.Context, l EmailLog) error
	List(ctx context.Context, limit, offset int) ([]EmailLog, error)
	Count(ctx context.Context) (int64, error)

	// DeleteOlderThan enforces the retention policy.
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
