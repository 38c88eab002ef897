package profile

import (
	"context"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Repository defines the interface for profile persistence.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID shared.ID) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, userID shared.ID) error

	// CountCompleted returns how many profiles have a submitted
	// questionnaire, used by the admin dashboard.
	CountCompleted(ctx context.Context) (int64, error)
}
