package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laborhours/api/internal/app"
	"github.com/laborhours/api/pkg/domain/access"
	"github.com/laborhours/api/pkg/domain/process"
	"github.com/laborhours/api/pkg/domain/profile"
	"github.com/laborhours/api/pkg/domain/provisioning"
	"github.com/laborhours/api/pkg/domain/role"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/domain/user"
	"github.com/laborhours/api/pkg/logger"
	"github.com/laborhours/api/pkg/password"
)

// In-memory repository fakes backing the handler tests. The handlers run
// without auth context here, so audit recording is a no-op.

type fakeUserRepo struct {
	users map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.users[u.ID().String()] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id shared.ID) (*user.User, error) {
	u, ok := r.users[id.String()]
	if !ok {
		return nil, user.NotFoundError(id)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email(), email) {
			return u, nil
		}
	}
	return nil, user.NotFoundByEmailError(email)
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	if _, ok := r.users[u.ID().String()]; !ok {
		return user.NotFoundError(u.ID())
	}
	r.users[u.ID().String()] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id shared.ID) error {
	if _, ok := r.users[id.String()]; !ok {
		return user.NotFoundError(id)
	}
	delete(r.users, id.String())
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email(), email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ListEmails(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.Email())
	}
	return out, nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []shared.ID) ([]*user.User, error) {
	var out []*user.User
	for _, id := range ids {
		if u, ok := r.users[id.String()]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) List(_ context.Context, _ user.Filter, _, _ int) ([]*user.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Count(_ context.Context, _ user.Filter) (int64, error) {
	return int64(len(r.users)), nil
}

type fakeProfileRepo struct {
	profiles map[string]*profile.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*profile.Profile)}
}

func (r *fakeProfileRepo) Create(_ context.Context, p *profile.Profile) error {
	r.profiles[p.UserID().String()] = p
	return nil
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID shared.ID) (*profile.Profile, error) {
	p, ok := r.profiles[userID.String()]
	if !ok {
		return nil, profile.NotFoundError(userID)
	}
	return p, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, p *profile.Profile) error {
	r.profiles[p.UserID().String()] = p
	return nil
}

func (r *fakeProfileRepo) Delete(_ context.Context, userID shared.ID) error {
	delete(r.profiles, userID.String())
	return nil
}

func (r *fakeProfileRepo) CountCompleted(_ context.Context) (int64, error) {
	return 0, nil
}

type fakeRoleRepo struct {
	roles map[string]*role.Assignment
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[string]*role.Assignment)}
}

func (r *fakeRoleRepo) Create(_ context.Context, a *role.Assignment) error {
	r.roles[a.UserID().String()] = a
	return nil
}

func (r *fakeRoleRepo) GetByUserID(_ context.Context, userID shared.ID) (*role.Assignment, error) {
	a, ok := r.roles[userID.String()]
	if !ok {
		return nil, role.ErrRoleNotFound
	}
	return a, nil
}

func (r *fakeRoleRepo) Update(_ context.Context, a *role.Assignment) error {
	r.roles[a.UserID().String()] = a
	return nil
}

func (r *fakeRoleRepo) Delete(_ context.Context, userID shared.ID) error {
	delete(r.roles, userID.String())
	return nil
}

func (r *fakeRoleRepo) CountAdmins(_ context.Context) (int64, error) {
	var n int64
	for _, a := range r.roles {
		if a.Role().IsAdmin() {
			n++
		}
	}
	return n, nil
}

func (r *fakeRoleRepo) ListAdminIDs(_ context.Context) ([]shared.ID, error) {
	var out []shared.ID
	for _, a := range r.roles {
		if a.Role().IsAdmin() {
			out = append(out, a.UserID())
		}
	}
	return out, nil
}

type fakeAccessRepo struct {
	grants map[string][]*access.Grant
}

func newFakeAccessRepo() *fakeAccessRepo {
	return &fakeAccessRepo{grants: make(map[string][]*access.Grant)}
}

func (r *fakeAccessRepo) Create(_ context.Context, g *access.Grant) error {
	r.grants[g.UserID().String()] = append(r.grants[g.UserID().String()], g)
	return nil
}

func (r *fakeAccessRepo) CreateBatch(_ context.Context, grants []*access.Grant) error {
	for _, g := range grants {
		r.grants[g.UserID().String()] = append(r.grants[g.UserID().String()], g)
	}
	return nil
}

func (r *fakeAccessRepo) ListByUserID(_ context.Context, userID shared.ID) ([]*access.Grant, error) {
	return r.grants[userID.String()], nil
}

func (r *fakeAccessRepo) DeleteByUserID(_ context.Context, userID shared.ID) error {
	delete(r.grants, userID.String())
	return nil
}

func (r *fakeAccessRepo) ReplaceForUser(_ context.Context, userID shared.ID, categoryIndexes []string) error {
	var grants []*access.Grant
	for _, idx := range categoryIndexes {
		g, err := access.NewGrant(userID, idx)
		if err != nil {
			return err
		}
		grants = append(grants, g)
	}
	r.grants[userID.String()] = grants
	return nil
}

type fakeProcessRepo struct {
	tree process.Tree
}

func (r *fakeProcessRepo) GetTree(_ context.Context) (process.Tree, error) {
	return r.tree, nil
}

func (r *fakeProcessRepo) ListActiveCategoryIndexes(_ context.Context) ([]string, error) {
	return r.tree.ActiveCategoryIndexes(), nil
}

func (r *fakeProcessRepo) ListSystems(_ context.Context) ([]process.System, error) {
	return r.tree.Systems, nil
}

func (r *fakeProcessRepo) ReplaceTree(_ context.Context, tree process.Tree) error {
	r.tree = tree
	return nil
}

type fakeEnqueuer struct {
	invitations []app.InvitationEmailJob
	reminders   []app.ReminderEmailJob
}

func (f *fakeEnqueuer) EnqueueInvitationEmail(_ context.Context, payload app.InvitationEmailJob) error {
	f.invitations = append(f.invitations, payload)
	return nil
}

func (f *fakeEnqueuer) EnqueueReminderEmail(_ context.Context, payload app.ReminderEmailJob) error {
	f.reminders = append(f.reminders, payload)
	return nil
}

type adminUserFixture struct {
	users      *fakeUserRepo
	roles      *fakeRoleRepo
	enqueuer   *fakeEnqueuer
	provisions *app.ProvisionService
	h          *AdminUserHandler
}

func newAdminUserFixture() *adminUserFixture {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	roles := newFakeRoleRepo()
	grants := newFakeAccessRepo()
	processes := &fakeProcessRepo{tree: process.Tree{
		Categories: []process.Category{
			{ID: shared.NewID(), Index: "1", Name: "Operations", Active: true, SortOrder: 1},
		},
	}}
	hasher := password.New(password.WithCost(4))
	log := logger.NewNop()

	provisions := app.NewProvisionService(users, profiles, roles, grants, processes, hasher, log)
	enqueuer := &fakeEnqueuer{}
	invitations := app.NewInvitationService(users, profiles, enqueuer, hasher, log)

	return &adminUserFixture{
		users:      users,
		roles:      roles,
		enqueuer:   enqueuer,
		provisions: provisions,
		h:          NewAdminUserHandler(nil, provisions, invitations, nil, nil, log),
	}
}

func (f *adminUserFixture) seedAdmin(t *testing.T, email string) shared.ID {
	t.Helper()
	created, err := f.provisions.CreateUser(context.Background(), app.CreateUserInput{
		Email:    email,
		FullName: "Admin " + email,
		Role:     role.RoleAdmin,
	})
	require.NoError(t, err)
	return created.UserID
}

func postJSON(t *testing.T, h http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	h(w, r)
	return w
}

func TestAdminUserHandler_BulkDelete(t *testing.T) {
	t.Run("guard rejection returns 400", func(t *testing.T) {
		f := newAdminUserFixture()
		a1 := f.seedAdmin(t, "a1@example.com")
		a2 := f.seedAdmin(t, "a2@example.com")

		w := postJSON(t, f.h.BulkDelete, "/api/v1/admin/users/bulk-delete",
			BulkDeleteRequest{UserIDs: []string{a1.String(), a2.String()}})

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var report provisioning.DeleteReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.False(t, report.Success)
		assert.ElementsMatch(t, []shared.ID{a1, a2}, report.Results.BlockedAdmins)
		assert.Empty(t, report.Results.Deleted)

		// Nothing was deleted.
		assert.Len(t, f.users.users, 2)
	})

	t.Run("batch leaving an admin returns 200", func(t *testing.T) {
		f := newAdminUserFixture()
		a1 := f.seedAdmin(t, "a1@example.com")
		f.seedAdmin(t, "a2@example.com")

		w := postJSON(t, f.h.BulkDelete, "/api/v1/admin/users/bulk-delete",
			BulkDeleteRequest{UserIDs: []string{a1.String()}})

		assert.Equal(t, http.StatusOK, w.Code)

		var report provisioning.DeleteReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.True(t, report.Success)
		assert.Equal(t, []shared.ID{a1}, report.Results.Deleted)
	})
}

func TestAdminUserHandler_BulkResend(t *testing.T) {
	f := newAdminUserFixture()
	known := f.seedAdmin(t, "admin@example.com")
	ghost := shared.NewID()

	w := postJSON(t, f.h.BulkResend, "/api/v1/admin/users/bulk-resend",
		BulkResendRequest{UserIDs: []string{known.String(), ghost.String()}})

	assert.Equal(t, http.StatusOK, w.Code)

	var report provisioning.ResendReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.True(t, report.Success)
	assert.Equal(t, 2, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Sent)
	assert.Equal(t, 1, report.Summary.Failed)
	require.Len(t, report.Results.Failed, 1)
	assert.Equal(t, ghost, report.Results.Failed[0].UserID)
	assert.Equal(t, "user not found", report.Results.Failed[0].Error)

	require.Len(t, f.enqueuer.invitations, 1)
	assert.Equal(t, "admin@example.com", f.enqueuer.invitations[0].RecipientEmail)
}

func TestAdminUserHandler_BulkCreate_NormalizesInvitations(t *testing.T) {
	f := newAdminUserFixture()

	w := postJSON(t, f.h.BulkCreate, "/api/v1/admin/users/bulk", BulkCreateRequest{
		Users: []BulkCreateItem{
			{Email: "  MiXeD@Example.COM ", FullName: "Mixed Case", Processes: []string{"1"}},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var report provisioning.CreateReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Results.Created, 1)
	assert.Equal(t, "mixed@example.com", report.Results.Created[0].Email)

	// The invitation is addressed to the stored form of the email and still
	// carries the submitted display name.
	require.Len(t, f.enqueuer.invitations, 1)
	job := f.enqueuer.invitations[0]
	assert.Equal(t, "mixed@example.com", job.RecipientEmail)
	assert.Equal(t, "Mixed Case", job.FullName)
	assert.NotEmpty(t, job.Password)
}
