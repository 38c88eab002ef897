package profile

import (
	"fmt"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Domain errors for profile operations.
var (
	ErrProfileNotFound = fmt.Errorf("profile %w", shared.ErrNotFound)
)

// NotFoundError creates a not found error for a specific user.
func NotFoundError(userID shared.ID) error {
	return fmt.Errorf("profile for user %s %w", userID, shared.ErrNotFound)
}

// AlreadyExistsError creates an already exists error for a specific user.
func AlreadyExistsError(userID shared.ID) error {
	return fmt.Errorf("profile for user %s %w", userID, shared.ErrAlreadyExists)
}
