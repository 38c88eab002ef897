package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/laborhours/api/pkg/domain/access"
	"github.com/laborhours/api/pkg/domain/shared"
)

// AccessRepository implements access.Repository using PostgreSQL.
type AccessRepository struct {
	db *DB
}

// NewAccessRepository creates a new AccessRepository.
func NewAccessRepository(db *DB) *AccessRepository {
	return &AccessRepository{db: db}
}

// Create persists a single grant.
func (r *AccessRepository) Create(ctx context.Context, g *access.Grant) error {
	query := `
		INSERT INTO user_access (id, user_id, category_index, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, category_index) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		g.ID().String(),
		g.UserID().String(),
		g.CategoryIndex(),
		g.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to create access grant: %w", err)
	}
	return nil
}

// CreateBatch persists a set of grants in one transaction.
func (r *AccessRepository) CreateBatch(ctx context.Context, grants []*access.Grant) error {
	if len(grants) == 0 {
		return nil
	}

	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		return insertGrants(ctx, tx, grants)
	})
}

// ListByUserID retrieves all grants of a user.
func (r *AccessRepository) ListByUserID(ctx context.Context, userID shared.ID) ([]*access.Grant, error) {
	query := `
		SELECT id, user_id, category_index, created_at
		FROM user_access
		WHERE user_id = $1
		ORDER BY category_index
	`

	rows, err := r.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list access grants: %w", err)
	}
	defer rows.Close()

	var grants []*access.Grant
	for rows.Next() {
		var (
			idStr, userIDStr, categoryIndex string
			createdAt                       sql.NullTime
		)
		if err := rows.Scan(&idStr, &userIDStr, &categoryIndex, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan access grant: %w", err)
		}

		id, err := shared.IDFromString(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid grant id: %w", err)
		}
		uid, err := shared.IDFromString(userIDStr)
		if err != nil {
			return nil, fmt.Errorf("invalid grant user id: %w", err)
		}

		grants = append(grants, access.Reconstitute(id, uid, categoryIndex, createdAt.Time))
	}
	return grants, rows.Err()
}

// DeleteByUserID removes all grants of a user.
func (r *AccessRepository) DeleteByUserID(ctx context.Context, userID shared.ID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_access WHERE user_id = $1`, userID.String())
	if err != nil {
		return fmt.Errorf("failed to delete access grants: %w", err)
	}
	return nil
}

// ReplaceForUser swaps a user's grant set atomically: delete all rows,
// insert the new set, one transaction.
func (r *AccessRepository) ReplaceForUser(ctx context.Context, userID shared.ID, categoryIndexes []string) error {
	grants := make([]*access.Grant, 0, len(categoryIndexes))
	for _, idx := range categoryIndexes {
		g, err := access.NewGrant(userID, idx)
		if err != nil {
			return err
		}
		grants = append(grants, g)
	}

	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM user_access WHERE user_id = $1`, userID.String()); err != nil {
			return fmt.Errorf("failed to clear access grants: %w", err)
		}
		return insertGrants(ctx, tx, grants)
	})
}

func insertGrants(ctx context.Context, tx *sql.Tx, grants []*access.Grant) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO user_access (id, user_id, category_index, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, category_index) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare grant insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range grants {
		if _, err := stmt.ExecContext(ctx,
			g.ID().String(), g.UserID().String(), g.CategoryIndex(), g.CreatedAt()); err != nil {
			return fmt.Errorf("failed to insert access grant: %w", err)
		}
	}
	return nil
}
