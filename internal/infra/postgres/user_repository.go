package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/domain/user"
)

// userColumns is the list of columns to select for a user.
const userColumns = `id, email, password_hash, status, must_change_password,
	failed_login_attempts, locked_until, last_login_at, created_at, updated_at`

// UserRepository implements user.Repository using PostgreSQL.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new identity.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (
			id, email, password_hash, status, must_change_password,
			failed_login_attempts, locked_until, last_login_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		u.ID().String(),
		u.Email(),
		u.PasswordHash(),
		u.Status().String(),
		u.MustChangePassword(),
		u.FailedLoginAttempts(),
		nullTime(u.LockedUntil()),
		nullTime(u.LastLoginAt()),
		u.CreatedAt(),
		u.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.AlreadyExistsError(u.Email())
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id shared.ID) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	row := r.db.QueryRowContext(ctx, query, id.String())
	u, err := r.scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.NotFoundError(id)
		}
		return nil, err
	}

	return u, nil
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE lower(email) = lower($1)`, userColumns)

	row := r.db.QueryRowContext(ctx, query, email)
	u, err := r.scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.NotFoundByEmailError(email)
		}
		return nil, err
	}

	return u, nil
}

// Update updates an existing user.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, status = $4, must_change_password = $5,
		    failed_login_attempts = $6, locked_until = $7, last_login_at = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		u.ID().String(),
		u.Email(),
		u.PasswordHash(),
		u.Status().String(),
		u.MustChangePassword(),
		u.FailedLoginAttempts(),
		nullTime(u.LockedUntil()),
		nullTime(u.LastLoginAt()),
		u.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return user.NotFoundError(u.ID())
	}

	return nil
}

// Delete removes an identity. Profile, role, access and response rows
// cascade; bulk provisioning relies on this as its compensating action.
func (r *UserRepository) Delete(ctx context.Context, id shared.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return user.NotFoundError(id)
	}

	return nil
}

// ExistsByEmail checks whether an account with the email exists.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// ListEmails returns every account email.
func (r *UserRepository) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT email FROM users`)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

// GetByIDs retrieves users by a set of IDs.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []shared.ID) ([]*user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = ANY($1)`, userColumns)
	rows, err := r.db.QueryContext(ctx, query, pq.Array(idStrings))
	if err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}
	defer rows.Close()

	return r.scanUsers(rows)
}

// List retrieves users matching the filter.
func (r *UserRepository) List(ctx context.Context, filter user.Filter, limit, offset int) ([]*user.User, error) {
	where, args := buildUserFilter(filter)

	orderBy := "created_at DESC"
	if filter.Sort != nil {
		orderBy = filter.Sort.SQLWithDefault(orderBy)
	}

	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		userColumns, where, orderBy, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	return r.scanUsers(rows)
}

// Count counts users matching the filter.
func (r *UserRepository) Count(ctx context.Context, filter user.Filter) (int64, error) {
	where, args := buildUserFilter(filter)

	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users `+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func buildUserFilter(filter user.Filter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if filter.Email != nil {
		args = append(args, *filter.Email)
		conditions = append(conditions, fmt.Sprintf("lower(email) = lower($%d)", len(args)))
	}
	if filter.Status != nil {
		args = append(args, filter.Status.String())
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanUser(row rowScanner) (*user.User, error) {
	var (
		idStr, email, passwordHash, status string
		mustChangePassword                 bool
		failedLoginAttempts                int
		lockedUntil, lastLoginAt           sql.NullTime
		createdAt, updatedAt               sql.NullTime
	)

	err := row.Scan(
		&idStr, &email, &passwordHash, &status, &mustChangePassword,
		&failedLoginAttempts, &lockedUntil, &lastLoginAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	return user.Reconstitute(
		id,
		email,
		passwordHash,
		user.Status(status),
		mustChangePassword,
		failedLoginAttempts,
		nullTimeValue(lockedUntil),
		nullTimeValue(lastLoginAt),
		createdAt.Time,
		updatedAt.Time,
	), nil
}

func (r *UserRepository) scanUsers(rows *sql.Rows) ([]*user.User, error) {
	var users []*user.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
