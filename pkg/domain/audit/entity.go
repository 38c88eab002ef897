// Package audit provides the admin action audit trail.
package audit

import (
	"fmt"
	"time"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Action identifies the kind of admin operation recorded.
type Action string

const (
	ActionBulkCreateUsers Action = "bulk_create_users"
	ActionBulkDeleteUsers Action = "bulk_delete_users"
	ActionCreateUser      Action = "create_user"
	ActionDeleteUser      Action = "delete_user"
	ActionUpdateAccess    Action = "update_access"
	ActionUpdateRole      Action = "update_role"
	ActionResendInvite    Action = "resend_invitation"
	ActionBulkResend      Action = "bulk_resend_invitations"
	ActionUpdateSettings  Action = "update_settings"
	ActionImpersonate     Action = "impersonate_user"
)

// IsValid checks if the action is known.
func (a Action) IsValid() bool {
	switch a {
	case ActionBulkCreateUsers, ActionBulkDeleteUsers, ActionCreateUser,
		ActionDeleteUser, ActionUpdateAccess, ActionUpdateRole,
		ActionResendInvite, ActionUpdateSettings, ActionImpersonate:
		return true
	}
	return false
}

func (a Action) String() string {
	return string(a)
}

// Entry is a single audit log record.
type Entry struct {
	id         shared.ID
	actorID    shared.ID
	actorEmail string
	action     Action
	targetType string
	targetID   string
	details    map[string]any
	createdAt  time.Time
}

// NewEntry creates an audit entry for an admin action.
func NewEntry(actorID shared.ID, actorEmail string, action Action, targetType, targetID string) (*Entry, error) {
	if actorID.IsZero() {
		return nil, fmt.Errorf("%w: actor id is required", shared.ErrValidation)
	}
	if !action.IsValid() {
		return nil, fmt.Errorf("%w: invalid action %q", shared.ErrValidation, action)
	}

	return &Entry{
		id:         shared.NewID(),
		actorID:    actorID,
		actorEmail: actorEmail,
		action:     action,
		targetType: targetType,
		targetID:   targetID,
		details:    make(map[string]any),
		createdAt:  time.Now().UTC(),
	}, nil
}

// Reconstitute recreates an Entry from persistence.
func Reconstitute(
	id, actorID shared.ID,
	actorEmail string,
	action Action,
	targetType, targetID string,
	details map[string]any,
	createdAt time.Time,
) *Entry {
	if details == nil {
		details = make(map[string]any)
	}
	return &Entry{
		id:         id,
		actorID:    actorID,
		actorEmail: actorEmail,
		action:     action,
		targetType: targetType,
		targetID:   targetID,
		details:    details,
		createdAt:  createdAt,
	}
}

// ID returns the entry ID.
func (e *Entry) ID() shared.ID {
	return e.id
}

// ActorID returns the acting admin's ID.
func (e *Entry) ActorID() shared.ID {
	return e.actorID
}

// ActorEmail returns the acting admin's email, kept for display after the
// actor account is deleted.
func (e *Entry) ActorEmail() string {
	return e.actorEmail
}

// Action returns the recorded action.
func (e *Entry) Action() Action {
	return e.action
}

// TargetType returns the kind of resource acted on.
func (e *Entry) TargetType() string {
	return e.targetType
}

// TargetID returns the affected resource ID.
func (e *Entry) TargetID() string {
	return e.targetID
}

// Details returns a copy of the structured context.
func (e *Entry) Details() map[string]any {
	out := make(map[string]any, len(e.details))
	for k, v := range e.details {
		out[k] = v
	}
	return out
}

// CreatedAt returns when the action happened.
func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}

// WithDetail attaches a context key-value pair.
func (e *Entry) WithDetail(key string, value any) *Entry {
	e.details[key] = value
	return e
}
