package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/laborhours/api/pkg/domain/audit"
	"github.com/laborhours/api/pkg/domain/shared"
)

// AuditRepository implements audit.Repository using PostgreSQL.
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create persists an audit entry.
func (r *AuditRepository) Create(ctx context.Context, e *audit.Entry) error {
	details, err := toJSONB(e.Details())
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	query := `
		INSERT INTO admin_audit_log (id, actor_id, actor_email, action, target_type, target_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.ExecContext(ctx, query,
		e.ID().String(),
		e.ActorID().String(),
		e.ActorEmail(),
		e.Action().String(),
		nullString(e.TargetType()),
		nullString(e.TargetID()),
		details,
		e.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

// List retrieves audit entries matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter audit.Filter, limit, offset int) ([]*audit.Entry, error) {
	where, args := buildAuditFilter(filter)

	query := fmt.Sprintf(`
		SELECT id, actor_id, actor_email, action, target_type, target_id, details, created_at
		FROM admin_audit_log %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry
	for rows.Next() {
		e, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count counts audit entries matching the filter.
func (r *AuditRepository) Count(ctx context.Context, filter audit.Filter) (int64, error) {
	where, args := buildAuditFilter(filter)

	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admin_audit_log `+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}
	return count, nil
}

// DeleteOlderThan removes entries older than the cutoff and returns how
// many were deleted.
func (r *AuditRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM admin_audit_log WHERE created_at < $1`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old audit entries: %w", err)
	}
	return result.RowsAffected()
}

func buildAuditFilter(filter audit.Filter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if filter.ActorID != nil {
		args = append(args, filter.ActorID.String())
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if len(filter.Actions) > 0 {
		placeholders := make([]string, len(filter.Actions))
		for i, a := range filter.Actions {
			args = append(args, a.String())
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, "action IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.Since != nil {
		args = append(args, filter.Since.UTC())
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.Until != nil {
		args = append(args, filter.Until.UTC())
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanAuditEntry(row rowScanner) (*audit.Entry, error) {
	var (
		idStr, actorIDStr, actorEmail, action string
		targetType, targetID                  sql.NullString
		detailsRaw                            []byte
		createdAt                             sql.NullTime
	)

	err := row.Scan(&idStr, &actorIDStr, &actorEmail, &action, &targetType, &targetID, &detailsRaw, &createdAt)
	if err != nil {
		return nil, err
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid audit entry id: %w", err)
	}
	actorID, err := shared.IDFromString(actorIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid audit actor id: %w", err)
	}

	var details map[string]any
	if err := fromJSONB(detailsRaw, &details); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audit details: %w", err)
	}

	return audit.Reconstitute(
		id,
		actorID,
		actorEmail,
		audit.Action(action),
		nullStringValue(targetType),
		nullStringValue(targetID),
		details,
		createdAt.Time,
	), nil
}
