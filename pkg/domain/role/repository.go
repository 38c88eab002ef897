package role

import (
	"context"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Repository defines the interface for role persistence.
type Repository interface {
	Create(ctx context.Context, a *Assignment) error
	GetByUserID(ctx context.Context, userID shared.ID) (*Assignment, error)
	Update(ctx context.Context, a *Assignment) error
	Delete(ctx context.Context, userID shared.ID) error

	// CountAdmins returns the number of accounts holding the admin role.
	// The bulk deletion guard depends on this count being current.
	CountAdmins(ctx context.Context) (int64, error)

	// ListAdminIDs returns the IDs of every administrator account.
	ListAdminIDs(ctx context.Context) ([]shared.ID, error)
}
