package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/laborhours/api/pkg/domain/settings"
	"github.com/laborhours/api/pkg/domain/shared"
)

// EmailLogRepository implements settings.EmailLogRepository using PostgreSQL.
type EmailLogRepository struct {
	db *DB
}

// NewEmailLogRepository creates a new EmailLogRepository.
func NewEmailLogRepository(db *DB) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

// Create persists one dispatch record.
func (r *EmailLogRepository) Create(ctx context.Context, l settings.EmailLog) error {
	query := `
		INSERT INTO email_logs (id, recipient, template_type, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		l.ID.String(),
		l.Recipient,
		string(l.TemplateType),
		string(l.Status),
		nullString(l.Error),
		l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create email log: %w", err)
	}
	return nil
}

// List retrieves dispatch records, newest first.
func (r *EmailLogRepository) List(ctx context.Context, limit, offset int) ([]settings.EmailLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, recipient, template_type, status, error, created_at
		FROM email_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list email logs: %w", err)
	}
	defer rows.Close()

	var logs []settings.EmailLog
	for rows.Next() {
		var (
			l      settings.EmailLog
			idStr  string
			errMsg sql.NullString
		)
		if err := rows.Scan(&idStr, &l.Recipient, &l.TemplateType, &l.Status, &errMsg, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan email log: %w", err)
		}
		id, err := shared.IDFromString(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid email log id: %w", err)
		}
		l.ID = id
		l.Error = nullStringValue(errMsg)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Count counts all dispatch records.
func (r *EmailLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM email_logs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count email logs: %w", err)
	}
	return count, nil
}

// DeleteOlderThan removes records older than the cutoff and returns how
// many were deleted.
func (r *EmailLogRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM email_logs WHERE created_at < $1`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old email logs: %w", err)
	}
	return result.RowsAffected()
}
