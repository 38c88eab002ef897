// Package response provides labor-hours response records.
package response

import (
	"fmt"
	"time"

	"github.com/laborhours/api/pkg/domain/process"
	"github.com/laborhours/api/pkg/domain/shared"
)

// Response is one user's hours for one task, optionally tied to an IT
// system. One row per (user, task); saving again overwrites the hours.
type Response struct {
	id          shared.ID
	userID      shared.ID
	path        process.Path
	systemID    *shared.ID
	hours       float64
	submitted   bool
	submittedAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// New creates a response row.
func New(userID shared.ID, path process.Path, systemID *shared.ID, hours float64) (*Response, error) {
	if userID.IsZero() {
		return nil, fmt.Errorf("%w: user id is required", shared.ErrValidation)
	}
	if hours < 0 {
		return nil, fmt.Errorf("%w: hours must not be negative", shared.ErrValidation)
	}

	now := time.Now().UTC()
	return &Response{
		id:        shared.NewID(),
		userID:    userID,
		path:      path,
		systemID:  systemID,
		hours:     hours,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstitute recreates a Response from persistence.
func Reconstitute(
	id, userID shared.ID,
	path process.Path,
	systemID *shared.ID,
	hours float64,
	submitted bool,
	submittedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Response {
	return &Response{
		id:          id,
		userID:      userID,
		path:        path,
		systemID:    systemID,
		hours:       hours,
		submitted:   submitted,
		submittedAt: submittedAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the response ID.
func (r *Response) ID() shared.ID {
	return r.id
}

// UserID returns the reporting user's ID.
func (r *Response) UserID() shared.ID {
	return r.userID
}

// Path returns the task path the hours belong to.
func (r *Response) Path() process.Path {
	return r.path
}

// SystemID returns the IT system used, nil when none applies.
func (r *Response) SystemID() *shared.ID {
	return r.systemID
}

// Hours returns the recorded labor hours.
func (r *Response) Hours() float64 {
	return r.hours
}

// Submitted reports whether the row belongs to a finalized response set.
func (r *Response) Submitted() bool {
	return r.submitted
}

// SubmittedAt returns the submission time, nil before submission.
func (r *Response) SubmittedAt() *time.Time {
	return r.submittedAt
}

// CreatedAt returns the creation timestamp.
func (r *Response) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns the last update timestamp.
func (r *Response) UpdatedAt() time.Time {
	return r.updatedAt
}

// SetHours overwrites the recorded hours. Rejected after submission.
func (r *Response) SetHours(hours float64, systemID *shared.ID) error {
	if r.submitted {
		return ErrAlreadySubmitted
	}
	if hours < 0 {
		return fmt.Errorf("%w: hours must not be negative", shared.ErrValidation)
	}
	r.hours = hours
	r.systemID = systemID
	r.updatedAt = time.Now().UTC()
	return nil
}

// MarkSubmitted finalizes the row.
func (r *Response) MarkSubmitted(at time.Time) {
	t := at.UTC()
	r.submitted = true
	r.submittedAt = &t
	r.updatedAt = t
}
