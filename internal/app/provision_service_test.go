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

type provisionFixture struct {
	users    *fakeUserRepo
	profiles *fakeProfileRepo
	roles    *fakeRoleRepo
	access   *fakeAccessRepo
	svc      *ProvisionService
}

func newProvisionFixture() *provisionFixture {
	f := &provisionFixture{
		users:    newFakeUserRepo(),
		profiles: newFakeProfileRepo(),
		roles:    newFakeRoleRepo(),
		access:   newFakeAccessRepo(),
	}
	f.svc = NewProvisionService(
		f.users, f.profiles, f.roles, f.access,
		&fakeProcessRepo{tree: testTree()},
		password.New(password.WithCost(4)),
		logger.NewNop(),
	)
	return f
}

func (f *provisionFixture) seedAdmin(t *testing.T, email string) shared.ID {
	t.Helper()
	created, err := f.svc.CreateUser(context.Background(), CreateUserInput{
		Email:    email,
		FullName: "Admin " + email,
		Role:     role.RoleAdmin,
	})
	require.NoError(t, err)
	return created.UserID
}

func TestBulkCreateUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("every row lands in exactly one bucket", func(t *testing.T) {
		f := newProvisionFixture()

		report, err := f.svc.BulkCreateUsers(ctx, []provisioning.BatchItem{
			{Email: "ivanov@example.com", FullName: "Ivan Ivanov", Processes: []string{"1", "2"}},
			{Email: "not-an-email", FullName: "Broken Row", Processes: []string{"1"}},
			{Email: "petrova@example.com", FullName: "Anna Petrova", Processes: []string{"2"}},
			{Email: "sidorov@example.com", FullName: "Pavel Sidorov", Processes: []string{"99"}},
		})
		require.NoError(t, err)

		assert.True(t, report.Success)
		assert.Equal(t, 4, report.Summary.Total)
		assert.Equal(t, 2, report.Summary.Created)
		assert.Equal(t, 0, report.Summary.Duplicates)
		assert.Equal(t, 2, report.Summary.Errors)
		assert.Equal(t, report.Summary.Total,
			report.Summary.Created+report.Summary.Duplicates+report.Summary.Errors)

		for _, c := range report.Results.Created {
			assert.Len(t, c.Password, password.GeneratedLength)
			assert.False(t, c.UserID.IsZero())
		}
	})

	t.Run("created entries carry the lowercased address", func(t *testing.T) {
		f := newProvisionFixture()

		report, err := f.svc.BulkCreateUsers(ctx, []provisioning.BatchItem{
			{Email: "MiXeD@Example.COM", FullName: "Mixed Case", Processes: []string{"1"}},
		})
		require.NoError(t, err)

		require.Len(t, report.Results.Created, 1)
		assert.Equal(t, "mixed@example.com", report.Results.Created[0].Email)

		exists, err := f.users.ExistsByEmail(ctx, "mixed@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("in-batch duplicate is caught by the snapshot", func(t *testing.T) {
		f := newProvisionFixture()

		report, err := f.svc.BulkCreateUsers(ctx, []provisioning.BatchItem{
			{Email: "same@example.com", FullName: "First Entry", Processes: []string{"1"}},
			{Email: "SAME@example.com", FullName: "Second Entry", Processes: []string{"2"}},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, report.Summary.Created)
		require.Len(t, report.Results.Duplicates, 1)
		assert.Equal(t, "SAME@example.com", report.Results.Duplicates[0].Email)
	})

	t.Run("duplicate wins over invalid categories", func(t *testing.T) {
		f := newProvisionFixture()
		f.seedAdmin(t, "taken@example.com")

		report, err := f.svc.BulkCreateUsers(ctx, []provisioning.BatchItem{
			{Email: "taken@example.com", FullName: "Dup With Bad Process", Processes: []string{"99"}},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, report.Summary.Duplicates)
		assert.Equal(t, 0, report.Summary.Errors)
	})

	t.Run("failed step rolls the identity back", func(t *testing.T) {
		f := newProvisionFixture()
		f.profiles.createErr = errors.New("profiles table unavailable")

		report, err := f.svc.BulkCreateUsers(ctx, []provisioning.BatchItem{
			{Email: "rollback@example.com", FullName: "Roll Back", Processes: []string{"1"}},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, report.Summary.Errors)
		assert.Equal(t, 0, report.Summary.Created)

		// The identity created before the failing step must be gone.
		exists, err := f.users.ExistsByEmail(ctx, "rollback@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
		assert.Len(t, f.users.deleted, 1)
	})

	t.Run("grant failure also rolls back", func(t *testing.T) {
		f := newProvisionFixture()
		f.access.createErr = errors.New("grants table unavailable")

		report, err := f.svc.BulkCreateUsers(ctx, []provisioning.BatchItem{
			{Email: "grants@example.com", FullName: "No Grants", Processes: []string{"1"}},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, report.Summary.Errors)
		exists, _ := f.users.ExistsByEmail(ctx, "grants@example.com")
		assert.False(t, exists)
	})
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("admin is granted every active category", func(t *testing.T) {
		f := newProvisionFixture()

		created, err := f.svc.CreateUser(ctx, CreateUserInput{
			Email:    "admin@example.com",
			FullName: "Site Admin",
			Role:     role.RoleAdmin,
		})
		require.NoError(t, err)

		grants, err := f.access.ListByUserID(ctx, created.UserID)
		require.NoError(t, err)
		indexes := make([]string, 0, len(grants))
		for _, g := range grants {
			indexes = append(indexes, g.CategoryIndex())
		}
		// "3" is inactive and must not be granted.
		assert.ElementsMatch(t, []string{"1", "2"}, indexes)
	})

	t.Run("email is stored trimmed and lowercased", func(t *testing.T) {
		f := newProvisionFixture()

		created, err := f.svc.CreateUser(ctx, CreateUserInput{
			Email:     "  John.Doe@Example.COM ",
			FullName:  "John Doe",
			Role:      role.RoleUser,
			Processes: []string{"1"},
		})
		require.NoError(t, err)
		assert.Equal(t, "john.doe@example.com", created.Email)

		u, err := f.users.GetByID(ctx, created.UserID)
		require.NoError(t, err)
		assert.Equal(t, "john.doe@example.com", u.Email())
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		f := newProvisionFixture()
		f.seedAdmin(t, "dup@example.com")

		_, err := f.svc.CreateUser(ctx, CreateUserInput{
			Email:     "dup@example.com",
			FullName:  "Dup",
			Role:      role.RoleUser,
			Processes: []string{"1"},
		})
		assert.True(t, shared.IsAlreadyExists(err))
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		f := newProvisionFixture()

		_, err := f.svc.CreateUser(ctx, CreateUserInput{
			Email:     "user@example.com",
			FullName:  "Regular",
			Role:      role.RoleUser,
			Processes: []string{"42"},
		})
		assert.True(t, shared.IsValidation(err))
	})
}

func TestBulkDeleteUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("batch naming every admin is blocked", func(t *testing.T) {
		f := newProvisionFixture()
		admin1 := f.seedAdmin(t, "a1@example.com")
		admin2 := f.seedAdmin(t, "a2@example.com")

		report, err := f.svc.BulkDeleteUsers(ctx, []shared.ID{admin1, admin2})
		require.NoError(t, err)

		assert.False(t, report.Success)
		assert.ElementsMatch(t, []shared.ID{admin1, admin2}, report.Results.BlockedAdmins)
		assert.Empty(t, report.Results.Deleted)
		assert.Equal(t, 2, report.Summary.Blocked)

		// Nothing was deleted.
		n, err := f.roles.CountAdmins(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})

	t.Run("batch leaving one admin proceeds", func(t *testing.T) {
		f := newProvisionFixture()
		admin1 := f.seedAdmin(t, "a1@example.com")
		f.seedAdmin(t, "a2@example.com")

		report, err := f.svc.BulkDeleteUsers(ctx, []shared.ID{admin1})
		require.NoError(t, err)

		assert.True(t, report.Success)
		assert.Equal(t, []shared.ID{admin1}, report.Results.Deleted)
		assert.Equal(t, 1, report.Summary.Deleted)
	})

	t.Run("missing user is a per-item failure", func(t *testing.T) {
		f := newProvisionFixture()
		f.seedAdmin(t, "a1@example.com")

		ghost := shared.NewID()
		report, err := f.svc.BulkDeleteUsers(ctx, []shared.ID{ghost})
		require.NoError(t, err)

		assert.True(t, report.Success)
		require.Len(t, report.Results.Failed, 1)
		assert.Equal(t, ghost, report.Results.Failed[0].UserID)
		assert.Equal(t, "user not found", report.Results.Failed[0].Error)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("last admin cannot be deleted", func(t *testing.T) {
		f := newProvisionFixture()
		admin := f.seedAdmin(t, "only@example.com")

		err := f.svc.DeleteUser(ctx, admin)
		assert.ErrorIs(t, err, role.ErrLastAdmin)
	})

	t.Run("admin can go when another remains", func(t *testing.T) {
		f := newProvisionFixture()
		admin := f.seedAdmin(t, "first@example.com")
		f.seedAdmin(t, "second@example.com")

		require.NoError(t, f.svc.DeleteUser(ctx, admin))
	})
}
