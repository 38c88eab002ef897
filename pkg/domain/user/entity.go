// Package user provides the account identity domain model.
//
// A User is the authentication identity only: email, credential and account
// status. Reporting attributes live in the profile package, role assignment
// in the role package and process grants in the access package.
package user

import (
	"fmt"
	"time"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Status represents the account status.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// User represents an account identity.
type User struct {
	id                  shared.ID
	email               string
	passwordHash        string
	status              Status
	mustChangePassword  bool
	failedLoginAttempts int
	lockedUntil         *time.Time
	lastLoginAt         *time.Time
	createdAt           time.Time
	updatedAt           time.Time
}

// New creates a new identity with a hashed credential. Provisioned accounts
// start with a temporary password, so the change-on-first-login flag is set.
func New(email, passwordHash string) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", shared.ErrValidation)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("%w: password hash is required", shared.ErrValidation)
	}

	now := time.Now().UTC()
	return &User{
		id:                 shared.NewID(),
		email:              email,
		passwordHash:       passwordHash,
		status:             StatusActive,
		mustChangePassword: true,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// Reconstitute recreates a User from persistence.
func Reconstitute(
	id shared.ID,
	email, passwordHash string,
	status Status,
	mustChangePassword bool,
	failedLoginAttempts int,
	lockedUntil, lastLoginAt *time.Time,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:                  id,
		email:               email,
		passwordHash:        passwordHash,
		status:              status,
		mustChangePassword:  mustChangePassword,
		failedLoginAttempts: failedLoginAttempts,
		lockedUntil:         lockedUntil,
		lastLoginAt:         lastLoginAt,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// ID returns the user ID.
func (u *User) ID() shared.ID {
	return u.id
}

// Email returns the account email.
func (u *User) Email() string {
	return u.email
}

// PasswordHash returns the bcrypt credential hash.
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// Status returns the account status.
func (u *User) Status() Status {
	return u.status
}

// MustChangePassword reports whether the account still uses a temporary
// password.
func (u *User) MustChangePassword() bool {
	return u.mustChangePassword
}

// FailedLoginAttempts returns the consecutive failed login counter.
func (u *User) FailedLoginAttempts() int {
	return u.failedLoginAttempts
}

// LockedUntil returns when the lockout expires, nil when not locked.
func (u *User) LockedUntil() *time.Time {
	return u.lockedUntil
}

// LastLoginAt returns the last successful login time.
func (u *User) LastLoginAt() *time.Time {
	return u.lastLoginAt
}

// CreatedAt returns the creation timestamp.
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns the last update timestamp.
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// IsActive returns true if the account is active.
func (u *User) IsActive() bool {
	return u.status == StatusActive
}

// IsLocked returns true if the account is currently locked out.
func (u *User) IsLocked() bool {
	if u.lockedUntil == nil {
		return false
	}
	return time.Now().Before(*u.lockedUntil)
}

// CanLogin returns true if a login attempt may proceed.
func (u *User) CanLogin() bool {
	return u.IsActive() && !u.IsLocked()
}

// RotatePassword replaces the credential hash with a new temporary one.
// Used by invitation resend; the change-on-first-login flag is raised again.
func (u *User) RotatePassword(hash string) error {
	if hash == "" {
		return fmt.Errorf("%w: password hash is required", shared.ErrValidation)
	}
	u.passwordHash = hash
	u.mustChangePassword = true
	u.updatedAt = time.Now().UTC()
	return nil
}

// SetPassword replaces the credential hash with a user-chosen one.
func (u *User) SetPassword(hash string) error {
	if hash == "" {
		return fmt.Errorf("%w: password hash is required", shared.ErrValidation)
	}
	u.passwordHash = hash
	u.mustChangePassword = false
	u.updatedAt = time.Now().UTC()
	return nil
}

// Deactivate deactivates the account.
func (u *User) Deactivate() error {
	if u.status == StatusInactive {
		return fmt.Errorf("%w: user is already inactive", shared.ErrValidation)
	}
	u.status = StatusInactive
	u.updatedAt = time.Now().UTC()
	return nil
}

// Activate reactivates the account.
func (u *User) Activate() error {
	if u.status == StatusActive {
		return fmt.Errorf("%w: user is already active", shared.ErrValidation)
	}
	u.status = StatusActive
	u.updatedAt = time.Now().UTC()
	return nil
}

// RecordFailedLogin increments the failed login counter and locks the
// account when the threshold is reached.
func (u *User) RecordFailedLogin(maxAttempts int, lockoutDuration time.Duration) {
	u.failedLoginAttempts++
	if u.failedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockoutDuration)
		u.lockedUntil = &lockUntil
	}
	u.updatedAt = time.Now().UTC()
}

// RecordSuccessfulLogin clears the failure counter and stamps the login time.
func (u *User) RecordSuccessfulLogin() {
	now := time.Now().UTC()
	u.failedLoginAttempts = 0
	u.lockedUntil = nil
	u.lastLoginAt = &now
	u.updatedAt = now
}
