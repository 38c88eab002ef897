package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/laborhours/api/pkg/domain/process"
	"github.com/laborhours/api/pkg/domain/response"
	"github.com/laborhours/api/pkg/domain/shared"
)

const responseColumns = `id, user_id, category_index, group_index, activity_index, task_index,
	system_id, hours, is_submitted, submitted_at, created_at, updated_at`

// ResponseRepository implements response.Repository using PostgreSQL.
type ResponseRepository struct {
	db *DB
}

// NewResponseRepository creates a new ResponseRepository.
func NewResponseRepository(db *DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Upsert inserts the row or overwrites hours and system for the same
// user and task path.
func (r *ResponseRepository) Upsert(ctx context.Context, resp *response.Response) error {
	query := `
		INSERT INTO user_responses (
			id, user_id, category_index, group_index, activity_index, task_index,
			system_id, hours, is_submitted, submitted_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, category_index, group_index, activity_index, task_index)
		DO UPDATE SET system_id = EXCLUDED.system_id,
		              hours = EXCLUDED.hours,
		              updated_at = EXCLUDED.updated_at
	`

	path := resp.Path()
	_, err := r.db.ExecContext(ctx, query,
		resp.ID().String(),
		resp.UserID().String(),
		path.Category,
		path.Group,
		path.Activity,
		path.Task,
		nullID(resp.SystemID()),
		resp.Hours(),
		resp.Submitted(),
		nullTime(resp.SubmittedAt()),
		resp.CreatedAt(),
		resp.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert response: %w", err)
	}
	return nil
}

// ListByUserID retrieves all responses of a user.
func (r *ResponseRepository) ListByUserID(ctx context.Context, userID shared.ID) ([]*response.Response, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM user_responses
		WHERE user_id = $1
		ORDER BY category_index, group_index, activity_index, task_index
	`, responseColumns)

	rows, err := r.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	defer rows.Close()

	var responses []*response.Response
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// DeleteByUserID removes all responses of a user.
func (r *ResponseRepository) DeleteByUserID(ctx context.Context, userID shared.ID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_responses WHERE user_id = $1`, userID.String())
	if err != nil {
		return fmt.Errorf("failed to delete responses: %w", err)
	}
	return nil
}

// MarkSubmitted finalizes every row of the user's response set.
func (r *ResponseRepository) MarkSubmitted(ctx context.Context, userID shared.ID, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_responses
		SET is_submitted = TRUE, submitted_at = $2, updated_at = $2
		WHERE user_id = $1
	`, userID.String(), at.UTC())
	if err != nil {
		return fmt.Errorf("failed to mark responses submitted: %w", err)
	}
	return nil
}

// SumHours returns the user's total recorded hours.
func (r *ResponseRepository) SumHours(ctx context.Context, userID shared.ID) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(hours), 0) FROM user_responses WHERE user_id = $1`,
		userID.String(),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum hours: %w", err)
	}
	return total, nil
}

// CountSubmittedUsers returns how many users have finalized their set.
func (r *ResponseRepository) CountSubmittedUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM user_responses WHERE is_submitted = TRUE`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count submitted users: %w", err)
	}
	return count, nil
}

func scanResponse(row rowScanner) (*response.Response, error) {
	var (
		idStr, userIDStr         string
		path                     process.Path
		systemID                 sql.NullString
		hours                    float64
		submitted                bool
		submittedAt              sql.NullTime
		createdAt, updatedAt     sql.NullTime
	)

	err := row.Scan(
		&idStr, &userIDStr, &path.Category, &path.Group, &path.Activity, &path.Task,
		&systemID, &hours, &submitted, &submittedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid response id: %w", err)
	}
	userID, err := shared.IDFromString(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid response user id: %w", err)
	}

	return response.Reconstitute(
		id,
		userID,
		path,
		parseNullID(systemID),
		hours,
		submitted,
		nullTimeValue(submittedAt),
		createdAt.Time,
		updatedAt.Time,
	), nil
}
