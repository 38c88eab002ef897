// Package access provides per-user process grants.
//
// A grant gives a user visibility of one top-level process category and
// everything below it. Administrators implicitly hold every category; the
// provisioning service materializes that as explicit grants so reporting
// queries stay uniform.
package access

import (
	"fmt"
	"time"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Grant binds a user to a top-level process category.
type Grant struct {
	id            shared.ID
	userID        shared.ID
	categoryIndex string
	createdAt     time.Time
}

// NewGrant creates a grant for one category.
func NewGrant(userID shared.ID, categoryIndex string) (*Grant, error) {
	if userID.IsZero() {
		return nil, fmt.Errorf("%w: user id is required", shared.ErrValidation)
	}
	if categoryIndex == "" {
		return nil, fmt.Errorf("%w: category index is required", shared.ErrValidation)
	}
	return &Grant{
		id:            shared.NewID(),
		userID:        userID,
		categoryIndex: categoryIndex,
		createdAt:     time.Now().UTC(),
	}, nil
}

// Reconstitute recreates a Grant from persistence.
func Reconstitute(id, userID shared.ID, categoryIndex string, createdAt time.Time) *Grant {
	return &Grant{
		id:            id,
		userID:        userID,
		categoryIndex: categoryIndex,
		createdAt:     createdAt,
	}
}

// ID returns the grant ID.
func (g *Grant) ID() shared.ID {
	return g.id
}

// UserID returns the granted user's ID.
func (g *Grant) UserID() shared.ID {
	return g.userID
}

// CategoryIndex returns the top-level process index this grant covers.
func (g *Grant) CategoryIndex() string {
	return g.categoryIndex
}

// CreatedAt returns when the grant was made.
func (g *Grant) CreatedAt() time.Time {
	return g.createdAt
}
