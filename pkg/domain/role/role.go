// Package role provides role assignment for accounts.
//
// Exactly one role per account: administrators manage the user population
// and settings, regular users fill in the questionnaire.
package role

import (
	"fmt"
	"time"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Role is the access level of an account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// IsValid checks if the role is valid.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) String() string {
	return string(r)
}

// IsAdmin reports whether the role carries administrator privileges.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Assignment binds a role to an account.
type Assignment struct {
	userID    shared.ID
	role      Role
	createdAt time.Time
}

// NewAssignment creates a role assignment.
func NewAssignment(userID shared.ID, r Role) (*Assignment, error) {
	if userID.IsZero() {
		return nil, fmt.Errorf("%w: user id is required", shared.ErrValidation)
	}
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: invalid role %q", shared.ErrValidation, r)
	}
	return &Assignment{
		userID:    userID,
		role:      r,
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstitute recreates an Assignment from persistence.
func Reconstitute(userID shared.ID, r Role, createdAt time.Time) *Assignment {
	return &Assignment{userID: userID, role: r, createdAt: createdAt}
}

// UserID returns the account ID.
func (a *Assignment) UserID() shared.ID {
	return a.userID
}

// Role returns the assigned role.
func (a *Assignment) Role() Role {
	return a.role
}

// CreatedAt returns when the role was assigned.
func (a *Assignment) CreatedAt() time.Time {
	return a.createdAt
}
