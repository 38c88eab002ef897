package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/laborhours/api/pkg/domain/settings"
	"github.com/laborhours/api/pkg/domain/shared"
)

// SettingsRepository implements settings.Repository using PostgreSQL.
// SMTP and interface settings are single-row tables; SaveSMTP and
// SaveInterface upsert that row.
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSMTP retrieves the SMTP configuration row.
func (r *SettingsRepository) GetSMTP(ctx context.Context) (settings.SMTPSettings, error) {
	var (
		s     settings.SMTPSettings
		idStr string
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, host, port, username, password, from_email, from_name, use_tls, updated_at
		FROM smtp_settings
		LIMIT 1
	`).Scan(&idStr, &s.Host, &s.Port, &s.Username, &s.Password, &s.FromEmail, &s.FromName, &s.UseTLS, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return settings.SMTPSettings{}, settings.ErrSettingsNotFound
		}
		return settings.SMTPSettings{}, fmt.Errorf("failed to get smtp settings: %w", err)
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return settings.SMTPSettings{}, fmt.Errorf("invalid smtp settings id: %w", err)
	}
	s.ID = id
	return s, nil
}

// SaveSMTP upserts the SMTP configuration row.
func (r *SettingsRepository) SaveSMTP(ctx context.Context, s settings.SMTPSettings) error {
	query := `
		INSERT INTO smtp_settings (id, host, port, username, password, from_email, from_name, use_tls, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			host = EXCLUDED.host,
			port = EXCLUDED.port,
			username = EXCLUDED.username,
			password = EXCLUDED.password,
			from_email = EXCLUDED.from_email,
			from_name = EXCLUDED.from_name,
			use_tls = EXCLUDED.use_tls,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID.String(), s.Host, s.Port, s.Username, s.Password,
		s.FromEmail, s.FromName, s.UseTLS, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save smtp settings: %w", err)
	}
	return nil
}

// GetActiveTemplate retrieves the active template of a type.
func (r *SettingsRepository) GetActiveTemplate(ctx context.Context, tt settings.TemplateType) (settings.EmailTemplate, error) {
	var (
		t     settings.EmailTemplate
		idStr string
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, type, subject, body, is_active, updated_at
		FROM email_templates
		WHERE type = $1 AND is_active = TRUE
		ORDER BY updated_at DESC
		LIMIT 1
	`, string(tt)).Scan(&idStr, &t.Type, &t.Subject, &t.Body, &t.Active, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return settings.EmailTemplate{}, settings.ErrTemplateNotFound
		}
		return settings.EmailTemplate{}, fmt.Errorf("failed to get template: %w", err)
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return settings.EmailTemplate{}, fmt.Errorf("invalid template id: %w", err)
	}
	t.ID = id
	return t, nil
}

// ListTemplates retrieves all templates.
func (r *SettingsRepository) ListTemplates(ctx context.Context) ([]settings.EmailTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, subject, body, is_active, updated_at
		FROM email_templates
		ORDER BY type, updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []settings.EmailTemplate
	for rows.Next() {
		var (
			t     settings.EmailTemplate
			idStr string
		)
		if err := rows.Scan(&idStr, &t.Type, &t.Subject, &t.Body, &t.Active, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		id, err := shared.IDFromString(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid template id: %w", err)
		}
		t.ID = id
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// SaveTemplate upserts a template. Activating a template deactivates the
// other templates of the same type.
func (r *SettingsRepository) SaveTemplate(ctx context.Context, t settings.EmailTemplate) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		if t.Active {
			if _, err := tx.ExecContext(ctx, `
				UPDATE email_templates SET is_active = FALSE
				WHERE type = $1 AND id <> $2
			`, string(t.Type), t.ID.String()); err != nil {
				return fmt.Errorf("failed to deactivate templates: %w", err)
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO email_templates (id, type, subject, body, is_active, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				subject = EXCLUDED.subject,
				body = EXCLUDED.body,
				is_active = EXCLUDED.is_active,
				updated_at = EXCLUDED.updated_at
		`, t.ID.String(), string(t.Type), t.Subject, t.Body, t.Active, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to save template: %w", err)
		}
		return nil
	})
}

// GetInterface retrieves the branding configuration row.
func (r *SettingsRepository) GetInterface(ctx context.Context) (settings.InterfaceSettings, error) {
	var (
		s     settings.InterfaceSettings
		idStr string
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, primary_color, secondary_color, login_text, updated_at
		FROM interface_settings
		LIMIT 1
	`).Scan(&idStr, &s.Title, &s.PrimaryColor, &s.SecondaryColor, &s.LoginText, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return settings.InterfaceSettings{}, settings.ErrSettingsNotFound
		}
		return settings.InterfaceSettings{}, fmt.Errorf("failed to get interface settings: %w", err)
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return settings.InterfaceSettings{}, fmt.Errorf("invalid interface settings id: %w", err)
	}
	s.ID = id
	return s, nil
}

// SaveInterface upserts the branding configuration row.
func (r *SettingsRepository) SaveInterface(ctx context.Context, s settings.InterfaceSettings) error {
	query := `
		INSERT INTO interface_settings (id, title, primary_color, secondary_color, login_text, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			primary_color = EXCLUDED.primary_color,
			secondary_color = EXCLUDED.secondary_color,
			login_text = EXCLUDED.login_text,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID.String(), s.Title, s.PrimaryColor, s.SecondaryColor, s.LoginText, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save interface settings: %w", err)
	}
	return nil
}
