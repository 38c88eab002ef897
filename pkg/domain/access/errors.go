package access

import (
	"fmt"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Domain errors for access operations.
var (
	ErrGrantNotFound = fmt.Errorf("access grant %w", shared.ErrNotFound)
	ErrNoGrants      = fmt.Errorf("%w: at least one process grant is required", shared.ErrValidation)
)
