package audit

import (
	"fmt"

	"github.com/laborhours/api/pkg/domain/shared"
)

// InvalidFilterError returns a validation error for an invalid filter.
func InvalidFilterError(reason string) error {
	return fmt.Errorf("%w: invalid filter: %s", shared.ErrValidation, reason)
}
