package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/laborhours/api/pkg/domain/profile"
	"github.com/laborhours/api/pkg/domain/shared"
)

const profileColumns = `user_id, email, full_name, invitation_sent_at,
	questionnaire_completed, created_at, updated_at`

// ProfileRepository implements profile.Repository using PostgreSQL.
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create persists a new profile.
func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	query := `
		INSERT INTO profiles (
			user_id, email, full_name, invitation_sent_at,
			questionnaire_completed, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.UserID().String(),
		p.Email(),
		p.FullName(),
		nullTime(p.InvitationSentAt()),
		p.QuestionnaireCompleted(),
		p.CreatedAt(),
		p.UpdatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return profile.AlreadyExistsError(p.UserID())
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetByUserID retrieves the profile of an account.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID shared.ID) (*profile.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE user_id = $1`, profileColumns)

	row := r.db.QueryRowContext(ctx, query, userID.String())
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profile.NotFoundError(userID)
		}
		return nil, err
	}

	return p, nil
}

// Update updates an existing profile.
func (r *ProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	query := `
		UPDATE profiles
		SET email = $2, full_name = $3, invitation_sent_at = $4,
		    questionnaire_completed = $5, updated_at = $6
		WHERE user_id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		p.UserID().String(),
		p.Email(),
		p.FullName(),
		nullTime(p.InvitationSentAt()),
		p.QuestionnaireCompleted(),
		p.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return profile.NotFoundError(p.UserID())
	}

	return nil
}

// Delete removes a profile.
func (r *ProfileRepository) Delete(ctx context.Context, userID shared.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID.String())
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return profile.NotFoundError(userID)
	}

	return nil
}

// CountCompleted counts profiles with a submitted questionnaire.
func (r *ProfileRepository) CountCompleted(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE questionnaire_completed = TRUE`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed profiles: %w", err)
	}
	return count, nil
}

func scanProfile(row rowScanner) (*profile.Profile, error) {
	var (
		userIDStr, email, fullName string
		invitationSentAt           sql.NullTime
		questionnaireCompleted     bool
		createdAt, updatedAt       sql.NullTime
	)

	err := row.Scan(
		&userIDStr, &email, &fullName, &invitationSentAt,
		&questionnaireCompleted, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	userID, err := shared.IDFromString(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid profile user id: %w", err)
	}

	return profile.Reconstitute(
		userID,
		email,
		fullName,
		nullTimeValue(invitationSentAt),
		questionnaireCompleted,
		createdAt.Time,
		updatedAt.Time,
	), nil
}
