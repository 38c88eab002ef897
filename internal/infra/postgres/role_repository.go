package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/laborhours/api/pkg/domain/role"
	"github.com/laborhours/api/pkg/domain/shared"
)

// RoleRepository implements role.Repository using PostgreSQL.
type RoleRepository struct {
	db *DB
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create persists a role assignment.
func (r *RoleRepository) Create(ctx context.Context, a *role.Assignment) error {
	query := `INSERT INTO user_roles (user_id, role, created_at) VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query,
		a.UserID().String(),
		a.Role().String(),
		a.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("role for user %s %w", a.UserID(), shared.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create role assignment: %w", err)
	}

	return nil
}

// GetByUserID retrieves the role assignment of an account.
func (r *RoleRepository) GetByUserID(ctx context.Context, userID shared.ID) (*role.Assignment, error) {
	var (
		roleStr   string
		createdAt sql.NullTime
	)

	err := r.db.QueryRowContext(ctx,
		`SELECT role, created_at FROM user_roles WHERE user_id = $1`, userID.String(),
	).Scan(&roleStr, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, role.ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role assignment: %w", err)
	}

	return role.Reconstitute(userID, role.Role(roleStr), createdAt.Time), nil
}

// Update replaces the role of an account.
func (r *RoleRepository) Update(ctx context.Context, a *role.Assignment) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE user_roles SET role = $2 WHERE user_id = $1`,
		a.UserID().String(), a.Role().String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update role assignment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return role.ErrRoleNotFound
	}

	return nil
}

// Delete removes a role assignment.
func (r *RoleRepository) Delete(ctx context.Context, userID shared.ID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = $1`, userID.String())
	if err != nil {
		return fmt.Errorf("failed to delete role assignment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return role.ErrRoleNotFound
	}

	return nil
}

// CountAdmins counts accounts holding the admin role.
func (r *RoleRepository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_roles WHERE role = $1`, role.RoleAdmin.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}

// ListAdminIDs returns the IDs of every administrator account.
func (r *RoleRepository) ListAdminIDs(ctx context.Context) ([]shared.ID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM user_roles WHERE role = $1`, role.RoleAdmin.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list admin ids: %w", err)
	}
	defer rows.Close()

	var ids []shared.ID
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, fmt.Errorf("failed to scan admin id: %w", err)
		}
		id, err := shared.IDFromString(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid admin id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
