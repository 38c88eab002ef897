package settings

import (
	"fmt"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Domain errors for settings operations.
var (
	ErrSMTPNotConfigured = fmt.Errorf("%w: smtp settings are not configured", shared.ErrValidation)
	ErrTemplateNotFound  = fmt.Errorf("email template %w", shared.ErrNotFound)
	ErrSettingsNotFound  = fmt.Errorf("settings %w", shared.ErrNotFound)
)
