package role

import (
	"errors"
	"fmt"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Domain errors for role operations.
var (
	ErrRoleNotFound = fmt.Errorf("role assignment %w", shared.ErrNotFound)
	ErrInvalidRole  = fmt.Errorf("%w: invalid role", shared.ErrValidation)

	// ErrLastAdmin rejects a deletion batch that would leave the system
	// without a single administrator.
	ErrLastAdmin = errors.New("operation would remove the last administrator")
)
