package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laborhours/api/pkg/domain/provisioning"
	"github.com/laborhours/api/pkg/domain/role"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/logger"
	"github.com/laborhours/api/pkg/password"
)

func newInvitationService(f *provisionFixture, q *fakeEnqueuer) *InvitationService {
	return NewInvitationService(f.users, f.profiles, q, password.New(password.WithCost(4)), logger.NewNop())
}

func seedWorker(t *testing.T, f *provisionFixture, email, fullName string) *provisioning.CreatedUser {
	t.Helper()
	created, err := f.svc.CreateUser(context.Background(), CreateUserInput{
		Email:     email,
		FullName:  fullName,
		Role:      role.RoleUser,
		Processes: []string{"1"},
	})
	require.NoError(t, err)
	return created
}

func TestResend(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates the password before queueing", func(t *testing.T) {
		f := newProvisionFixture()
		q := &fakeEnqueuer{}
		svc := newInvitationService(f, q)
		seeded := seedWorker(t, f, "worker@example.com", "Worker One")

		require.NoError(t, svc.Resend(ctx, seeded.UserID))

		require.Len(t, q.invitations, 1)
		job := q.invitations[0]
		assert.Equal(t, "worker@example.com", job.RecipientEmail)
		assert.Equal(t, "Worker One", job.FullName)
		assert.Len(t, job.Password, password.GeneratedLength)
		assert.NotEqual(t, seeded.Password, job.Password)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newProvisionFixture()
		svc := newInvitationService(f, &fakeEnqueuer{})

		err := svc.Resend(ctx, shared.NewID())
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestResendBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("each user lands in exactly one bucket", func(t *testing.T) {
		f := newProvisionFixture()
		q := &fakeEnqueuer{}
		svc := newInvitationService(f, q)
		seeded := seedWorker(t, f, "worker@example.com", "Worker One")
		ghost := shared.NewID()

		report := svc.ResendBatch(ctx, []shared.ID{seeded.UserID, ghost})

		assert.True(t, report.Success)
		assert.Equal(t, 2, report.Summary.Total)
		assert.Equal(t, 1, report.Summary.Sent)
		assert.Equal(t, 1, report.Summary.Failed)
		assert.Equal(t, []shared.ID{seeded.UserID}, report.Results.Sent)
		require.Len(t, report.Results.Failed, 1)
		assert.Equal(t, ghost, report.Results.Failed[0].UserID)
		assert.Equal(t, "user not found", report.Results.Failed[0].Error)

		// The queued invitation carries a fresh password, not the one
		// issued at provisioning time.
		require.Len(t, q.invitations, 1)
		assert.NotEqual(t, seeded.Password, q.invitations[0].Password)
	})

	t.Run("enqueue failure lands in the report", func(t *testing.T) {
		f := newProvisionFixture()
		q := &fakeEnqueuer{err: errors.New("queue unavailable")}
		svc := newInvitationService(f, q)
		seeded := seedWorker(t, f, "worker@example.com", "Worker One")

		report := svc.ResendBatch(ctx, []shared.ID{seeded.UserID})

		assert.Equal(t, 0, report.Summary.Sent)
		require.Len(t, report.Results.Failed, 1)
		assert.Equal(t, "queue unavailable", report.Results.Failed[0].Error)
	})

	t.Run("one failure does not stop the rest", func(t *testing.T) {
		f := newProvisionFixture()
		q := &fakeEnqueuer{}
		svc := newInvitationService(f, q)
		first := seedWorker(t, f, "first@example.com", "First")
		second := seedWorker(t, f, "second@example.com", "Second")

		report := svc.ResendBatch(ctx, []shared.ID{first.UserID, shared.NewID(), second.UserID})

		assert.Equal(t, 2, report.Summary.Sent)
		assert.Equal(t, 1, report.Summary.Failed)
		assert.Len(t, q.invitations, 2)
	})
}
