package response

import (
	"errors"
	"fmt"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Domain errors for response operations.
var (
	ErrResponseNotFound = fmt.Errorf("response %w", shared.ErrNotFound)

	// ErrAlreadySubmitted rejects edits and repeated submission after the
	// response set has been finalized.
	ErrAlreadySubmitted = errors.New("responses have already been submitted")

	// ErrNoHours rejects submission when the total recorded hours is zero.
	ErrNoHours = fmt.Errorf("%w: total labor hours must be greater than zero", shared.ErrValidation)
)
