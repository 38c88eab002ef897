package access

import (
	"context"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Repository defines the interface for grant persistence.
type Repository interface {
	Create(ctx context.Context, g *Grant) error
	CreateBatch(ctx context.Context, grants []*Grant) error
	ListByUserID(ctx context.Context, userID shared.ID) ([]*Grant, error)
	DeleteByUserID(ctx context.Context, userID shared.ID) error

	// ReplaceForUser swaps a user's grant set atomically: delete all rows,
	// insert the new set, one transaction.
	ReplaceForUser(ctx context.Context, userID shared.ID, categoryIndexes []string) error
}
