// Package profile provides the reporting profile attached to each identity.
package profile

import (
	"fmt"
	"time"

	"github.com/laborhours/api/pkg/domain/shared"
)

// Profile carries the reporting attributes of an account: display name,
// invitation bookkeeping and questionnaire completion state.
type Profile struct {
	userID                 shared.ID
	email                  string
	fullName               string
	invitationSentAt       *time.Time
	questionnaireCompleted bool
	createdAt              time.Time
	updatedAt              time.Time
}

// New creates a profile for a freshly provisioned identity.
func New(userID shared.ID, email, fullName string) (*Profile, error) {
	if userID.IsZero() {
		return nil, fmt.Errorf("%w: user id is required", shared.ErrValidation)
	}
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", shared.ErrValidation)
	}

	now := time.Now().UTC()
	return &Profile{
		userID:    userID,
		email:     email,
		fullName:  fullName,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstitute recreates a Profile from persistence.
func Reconstitute(
	userID shared.ID,
	email, fullName string,
	invitationSentAt *time.Time,
	questionnaireCompleted bool,
	createdAt, updatedAt time.Time,
) *Profile {
	return &Profile{
		userID:                 userID,
		email:                  email,
		fullName:               fullName,
		invitationSentAt:       invitationSentAt,
		questionnaireCompleted: questionnaireCompleted,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}
}

// UserID returns the owning identity ID.
func (p *Profile) UserID() shared.ID {
	return p.userID
}

// Email returns the profile email (mirrors the identity email).
func (p *Profile) Email() string {
	return p.email
}

// FullName returns the display name.
func (p *Profile) FullName() string {
	return p.fullName
}

// InvitationSentAt returns when the last invitation was delivered, nil when
// none succeeded yet.
func (p *Profile) InvitationSentAt() *time.Time {
	return p.invitationSentAt
}

// QuestionnaireCompleted reports whether the user has submitted their
// labor-hours responses.
func (p *Profile) QuestionnaireCompleted() bool {
	return p.questionnaireCompleted
}

// CreatedAt returns the creation timestamp.
func (p *Profile) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt returns the last update timestamp.
func (p *Profile) UpdatedAt() time.Time {
	return p.updatedAt
}

// Rename updates the display name.
func (p *Profile) Rename(fullName string) error {
	if fullName == "" {
		return fmt.Errorf("%w: full name is required", shared.ErrValidation)
	}
	p.fullName = fullName
	p.updatedAt = time.Now().UTC()
	return nil
}

// MarkInvitationSent stamps a successful invitation delivery.
func (p *Profile) MarkInvitationSent(at time.Time) {
	t := at.UTC()
	p.invitationSentAt = &t
	p.updatedAt = time.Now().UTC()
}

// MarkQuestionnaireCompleted records that the response set was submitted.
func (p *Profile) MarkQuestionnaireCompleted() {
	p.questionnaireCompleted = true
	p.updatedAt = time.Now().UTC()
}
