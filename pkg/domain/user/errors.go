package user

import (
	"errors"
	"fmt"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Domain errors for user operations.
var (
	ErrUserNotFound      = fmt.Errorf("user %w", shared.ErrNotFound)
	ErrUserAlreadyExists = fmt.Errorf("user %w", shared.ErrAlreadyExists)
	ErrUserInactive      = errors.New("user is inactive")
	ErrInvalidEmail      = fmt.Errorf("%w: invalid email", shared.ErrValidation)

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrPasswordTooWeak    = errors.New("password does not meet requirements")
)

// NotFoundError creates a not found error for a specific user.
func NotFoundError(userID shared.ID) error {
	return fmt.Errorf("user with id %s %w", userID, shared.ErrNotFound)
}

// NotFoundByEmailError creates a not found error for a specific email.
func NotFoundByEmailError(email string) error {
	return fmt.Errorf("user with email %s %w", email, shared.ErrNotFound)
}

// AlreadyExistsError creates an already exists error for a specific email.
func AlreadyExistsError(email string) error {
	return fmt.Errorf("user with email %s %w", email, shared.ErrAlreadyExists)
}
