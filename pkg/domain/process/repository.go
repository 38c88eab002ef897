package process

import "context"

// Repository defines the interface for reference data persistence.
type Repository interface {
	// GetTree loads the full reference tree, inactive nodes included.
	GetTree(ctx context.Context) (Tree, error)

	// ListActiveCategoryIndexes returns the valid grant targets. Bulk
	// provisioning validates CSV process fields against this set.
	ListActiveCategoryIndexes(ctx context.Context) ([]string, error)

	ListSystems(ctx context.Context) ([]System, error)

	// ReplaceTree replaces the whole reference data set. Used by the
	// seeding command; runs in one transaction.
	ReplaceTree(ctx context.Context, tree Tree) error
}
