package user

import (
	"context"

	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/pagination"
)

// Filter represents criteria for filtering users.
type Filter struct {
	Email  *string
	Status *Status
	Sort   *pagination.SortOption
}

// WithEmail sets the email filter.
func (f Filter) WithEmail(email string) Filter {
	f.Email = &email
	return f
}

// WithStatus sets the status filter.
func (f Filter) WithStatus(status Status) Filter {
	f.Status = &status
	return f
}

// WithSort sets the sort specification.
func (f Filter) WithSort(sort *pagination.SortOption) Filter {
	f.Sort = sort
	return f
}

// AllowedSortFields maps user-facing sort fields to columns.
func AllowedSortFields() map[string]string {
	return map[string]string{
		"email":      "email",
		"status":     "status",
		"created_at": "created_at",
		"last_login": "last_login_at",
	}
}

// Repository defines the interface for identity persistence.
//
// Create and Delete are the saga boundary for bulk provisioning: Delete of a
// freshly created identity is the compensating action, and the schema
// cascades it to profile, role and access rows.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id shared.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id shared.ID) error

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ListEmails returns every account email, used to seed the duplicate
	// snapshot before a bulk batch.
	ListEmails(ctx context.Context) ([]string, error)

	GetByIDs(ctx context.Context, ids []shared.ID) ([]*User, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*User, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}
