package audit

import (
	"context"
	"time"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Filter defines criteria for listing audit entries.
type Filter struct {
	ActorID *shared.ID
	Actions []Action
	Since   *time.Time
	Until   *time.Time
}

// WithActorID sets the actor filter.
func (f Filter) WithActorID(actorID shared.ID) Filter {
	f.ActorID = &actorID
	return f
}

// WithActions sets the actions filter.
func (f Filter) WithActions(actions ...Action) Filter {
	f.Actions = actions
	return f
}

// WithSince sets the lower time bound.
func (f Filter) WithSince(since time.Time) Filter {
	f.Since = &since
	return f
}

// WithUntil sets the upper time bound.
func (f Filter) WithUntil(until time.Time) Filter {
	f.Until = &until
	return f
}

// Repository defines the interface for audit log persistence.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Entry, error)
	Count(ctx context.Context, filter Filter) (int64, error)

	// DeleteOlderThan enforces the retention policy.
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
