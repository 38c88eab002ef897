package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laborhours/api/pkg/domain/process"
	"github.com/laborhours/api/pkg/domain/response"
	"github.com/laborhours/api/pkg/domain/role"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/logger"
	"github.com/laborhours/api/pkg/password"
)

type responseFixture struct {
	*provisionFixture
	responses *fakeResponseRepo
	svc       *ResponseService
	userID    shared.ID
}

func newResponseFixture(t *testing.T) *responseFixture {
	t.Helper()
	pf := newProvisionFixture()

	created, err := pf.svc.CreateUser(context.Background(), CreateUserInput{
		Email:     "reporter@example.com",
		FullName:  "Report Er",
		Role:      role.RoleUser,
		Processes: []string{"1"},
	})
	require.NoError(t, err)

	responses := newFakeResponseRepo()
	processes := NewProcessService(&fakeProcessRepo{tree: testTree()}, pf.access, nil, logger.NewNop())
	svc := NewResponseService(responses, pf.profiles, pf.access, processes, logger.NewNop())

	return &responseFixture{
		provisionFixture: pf,
		responses:        responses,
		svc:              svc,
		userID:           created.UserID,
	}
}

func validPath() process.Path {
	return process.Path{Category: "1", Group: "1.1", Activity: "1.1.1", Task: "1.1.1.1"}
}

func TestResponseSave(t *testing.T) {
	ctx := context.Background()

	t.Run("records hours against a granted task", func(t *testing.T) {
		f := newResponseFixture(t)

		err := f.svc.Save(ctx, f.userID, SaveInput{Path: validPath(), Hours: 12.5})
		require.NoError(t, err)

		total, err := f.svc.TotalHours(ctx, f.userID)
		require.NoError(t, err)
		assert.Equal(t, 12.5, total)
	})

	t.Run("saving again overwrites", func(t *testing.T) {
		f := newResponseFixture(t)

		require.NoError(t, f.svc.Save(ctx, f.userID, SaveInput{Path: validPath(), Hours: 5}))
		require.NoError(t, f.svc.Save(ctx, f.userID, SaveInput{Path: validPath(), Hours: 8}))

		total, err := f.svc.TotalHours(ctx, f.userID)
		require.NoError(t, err)
		assert.Equal(t, 8.0, total)
	})

	t.Run("unknown task path is rejected", func(t *testing.T) {
		f := newResponseFixture(t)

		err := f.svc.Save(ctx, f.userID, SaveInput{
			Path:  process.Path{Category: "1", Group: "1.1", Activity: "1.1.1", Task: "9.9.9.9"},
			Hours: 1,
		})
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("task outside the user's grants is forbidden", func(t *testing.T) {
		f := newResponseFixture(t)

		// Category "2" exists but the user only holds "1". Give the tree a
		// task under "2" so only the grant check can fail.
		tree := testTree()
		tree.Tasks = append(tree.Tasks, process.Task{
			ID: shared.NewID(), CategoryIndex: "2", GroupIndex: "2.1",
			ActivityIndex: "2.1.1", Index: "2.1.1.1", Name: "Other", Active: true,
		})
		processes := NewProcessService(&fakeProcessRepo{tree: tree}, f.access, nil, logger.NewNop())
		svc := NewResponseService(f.responses, f.profiles, f.access, processes, logger.NewNop())

		err := svc.Save(ctx, f.userID, SaveInput{
			Path:  process.Path{Category: "2", Group: "2.1", Activity: "2.1.1", Task: "2.1.1.1"},
			Hours: 1,
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("saving after submission is rejected", func(t *testing.T) {
		f := newResponseFixture(t)

		require.NoError(t, f.svc.Save(ctx, f.userID, SaveInput{Path: validPath(), Hours: 4}))
		require.NoError(t, f.svc.Submit(ctx, f.userID))

		err := f.svc.Save(ctx, f.userID, SaveInput{Path: validPath(), Hours: 6})
		assert.ErrorIs(t, err, response.ErrAlreadySubmitted)
	})
}

func TestResponseSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("zero total hours cannot be submitted", func(t *testing.T) {
		f := newResponseFixture(t)

		err := f.svc.Submit(ctx, f.userID)
		assert.ErrorIs(t, err, response.ErrNoHours)
	})

	t.Run("submission is one-shot", func(t *testing.T) {
		f := newResponseFixture(t)

		require.NoError(t, f.svc.Save(ctx, f.userID, SaveInput{Path: validPath(), Hours: 3}))
		require.NoError(t, f.svc.Submit(ctx, f.userID))

		err := f.svc.Submit(ctx, f.userID)
		assert.ErrorIs(t, err, response.ErrAlreadySubmitted)
	})

	t.Run("submission marks the profile completed", func(t *testing.T) {
		f := newResponseFixture(t)

		require.NoError(t, f.svc.Save(ctx, f.userID, SaveInput{Path: validPath(), Hours: 3}))
		require.NoError(t, f.svc.Submit(ctx, f.userID))

		p, err := f.profiles.GetByUserID(ctx, f.userID)
		require.NoError(t, err)
		assert.True(t, p.QuestionnaireCompleted())

		n, err := f.responses.CountSubmittedUsers(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})
}

func TestInvitationResend(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates the password before queueing", func(t *testing.T) {
		pf := newProvisionFixture()
		created, err := pf.svc.CreateUser(ctx, CreateUserInput{
			Email:     "invitee@example.com",
			FullName:  "In Vitee",
			Role:      role.RoleUser,
			Processes: []string{"1"},
		})
		require.NoError(t, err)

		enqueuer := &fakeEnqueuer{}
		hasher := password.New(password.WithCost(4))
		inviteSvc := NewInvitationService(pf.users, pf.profiles, enqueuer, hasher, logger.NewNop())

		before, err := pf.users.GetByID(ctx, created.UserID)
		require.NoError(t, err)
		oldHash := before.PasswordHash()

		require.NoError(t, inviteSvc.Resend(ctx, created.UserID))

		after, err := pf.users.GetByID(ctx, created.UserID)
		require.NoError(t, err)
		assert.NotEqual(t, oldHash, after.PasswordHash())
		assert.True(t, after.MustChangePassword())

		require.Len(t, enqueuer.invitations, 1)
		queued := enqueuer.invitations[0]
		assert.Equal(t, "invitee@example.com", queued.RecipientEmail)
		assert.NotEqual(t, created.Password, queued.Password)
		assert.NoError(t, hasher.Verify(queued.Password, after.PasswordHash()))
	})

	t.Run("rotation sticks even when the queue is down", func(t *testing.T) {
		pf := newProvisionFixture()
		created, err := pf.svc.CreateUser(ctx, CreateUserInput{
			Email:     "unlucky@example.com",
			FullName:  "Un Lucky",
			Role:      role.RoleUser,
			Processes: []string{"1"},
		})
		require.NoError(t, err)

		enqueuer := &fakeEnqueuer{err: assert.AnError}
		inviteSvc := NewInvitationService(pf.users, pf.profiles, enqueuer,
			password.New(password.WithCost(4)), logger.NewNop())

		before, _ := pf.users.GetByID(ctx, created.UserID)
		oldHash := before.PasswordHash()

		err = inviteSvc.Resend(ctx, created.UserID)
		assert.Error(t, err)

		after, _ := pf.users.GetByID(ctx, created.UserID)
		assert.NotEqual(t, oldHash, after.PasswordHash(), "old temporary password must already be invalid")
	})
}
