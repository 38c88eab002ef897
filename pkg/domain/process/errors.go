package process

import (
	"fmt"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Domain errors for process reference data.
var (
	ErrCategoryNotFound = fmt.Errorf("process category %w", shared.ErrNotFound)
	ErrSystemNotFound   = fmt.Errorf("it system %w", shared.ErrNotFound)
)

// UnknownCategoryError reports an index that is not an active category.
func UnknownCategoryError(index string) error {
	return fmt.Errorf("%w: unknown process category %q", shared.ErrValidation, index)
}

// UnknownTaskError reports a path that does not address an active task.
func UnknownTaskError(p Path) error {
	return fmt.Errorf("%w: unknown process task %s/%s/%s/%s",
		shared.ErrValidation, p.Category, p.Group, p.Activity, p.Task)
}
