package response

import (
	"context"
	"time"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Repository defines the interface for response persistence.
type Repository interface {
	// Upsert inserts the row or, when one exists for the same user and
	// task path, overwrites hours and system.
	Upsert(ctx context.Context, r *Response) error

	ListByUserID(ctx context.Context, userID shared.ID) ([]*Response, error)
	DeleteByUserID(ctx context.Context, userID shared.ID) error

	// MarkSubmitted finalizes every row of the user's response set.
	MarkSubmitted(ctx context.Context, userID shared.ID, at time.Time) error

	// SumHours returns the user's total recorded hours.
	SumHours(ctx context.Context, userID shared.ID) (float64, error)

	// CountSubmittedUsers returns how many users have finalized their set.
	CountSubmittedUsers(ctx context.Context) (int64, error)
}
