package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/laborhours/api/pkg/domain/access"
	"github.com/laborhours/api/pkg/domain/process"
	"github.com/laborhours/api/pkg/domain/profile"
	"github.com/laborhours/api/pkg/domain/response"
	"github.com/laborhours/api/pkg/domain/role"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/domain/user"
)

// In-memory repository fakes. Error hooks let tests fail a specific step.

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*user.User
	createErr error
	deleteErr error
	deleted   []shared.ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.users[u.ID().String()]; ok {
		return user.AlreadyExistsError(u.Email())
	}
	r.users[u.ID().String()] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id shared.ID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id.String()]
	if !ok {
		return nil, user.NotFoundError(id)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email(), email) {
			return u, nil
		}
	}
	return nil, user.NotFoundByEmailError(email)
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID().String()]; !ok {
		return user.NotFoundError(u.ID())
	}
	r.users[u.ID().String()] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id shared.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.users[id.String()]; !ok {
		return user.NotFoundError(id)
	}
	delete(r.users, id.String())
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email(), email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ListEmails(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.Email())
	}
	return out, nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []shared.ID) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*user.User
	for _, id := range ids {
		if u, ok := r.users[id.String()]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) List(_ context.Context, filter user.Filter, limit, offset int) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*user.User
	for _, u := range r.users {
		if filter.Status != nil && u.Status() != *filter.Status {
			continue
		}
		all = append(all, u)
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeUserRepo) Count(_ context.Context, filter user.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if filter.Status != nil && u.Status() != *filter.Status {
			continue
		}
		n++
	}
	return n, nil
}

type fakeProfileRepo struct {
	mu        sync.Mutex
	profiles  map[string]*profile.Profile
	createErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*profile.Profile)}
}

func (r *fakeProfileRepo) Create(_ context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.profiles[p.UserID().String()] = p
	return nil
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID shared.ID) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID.String()]
	if !ok {
		return nil, profile.NotFoundError(userID)
	}
	return p, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID().String()] = p
	return nil
}

func (r *fakeProfileRepo) Delete(_ context.Context, userID shared.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, userID.String())
	return nil
}

func (r *fakeProfileRepo) CountCompleted(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.profiles {
		if p.QuestionnaireCompleted() {
			n++
		}
	}
	return n, nil
}

type fakeRoleRepo struct {
	mu        sync.Mutex
	roles     map[string]*role.Assignment
	createErr error
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[string]*role.Assignment)}
}

func (r *fakeRoleRepo) Create(_ context.Context, a *role.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.roles[a.UserID().String()] = a
	return nil
}

func (r *fakeRoleRepo) GetByUserID(_ context.Context, userID shared.ID) (*role.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.roles[userID.String()]
	if !ok {
		return nil, role.ErrRoleNotFound
	}
	return a, nil
}

func (r *fakeRoleRepo) Update(_ context.Context, a *role.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[a.UserID().String()] = a
	return nil
}

func (r *fakeRoleRepo) Delete(_ context.Context, userID shared.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.roles, userID.String())
	return nil
}

func (r *fakeRoleRepo) CountAdmins(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.roles {
		if a.Role().IsAdmin() {
			n++
		}
	}
	return n, nil
}

func (r *fakeRoleRepo) ListAdminIDs(_ context.Context) ([]shared.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []shared.ID
	for _, a := range r.roles {
		if a.Role().IsAdmin() {
			out = append(out, a.UserID())
		}
	}
	return out, nil
}

type fakeAccessRepo struct {
	mu        sync.Mutex
	grants    map[string][]*access.Grant
	createErr error
}

func newFakeAccessRepo() *fakeAccessRepo {
	return &fakeAccessRepo{grants: make(map[string][]*access.Grant)}
}

func (r *fakeAccessRepo) Create(_ context.Context, g *access.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grants[g.UserID().String()] = append(r.grants[g.UserID().String()], g)
	return nil
}

func (r *fakeAccessRepo) CreateBatch(_ context.Context, grants []*access.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, g := range grants {
		r.grants[g.UserID().String()] = append(r.grants[g.UserID().String()], g)
	}
	return nil
}

func (r *fakeAccessRepo) ListByUserID(_ context.Context, userID shared.ID) ([]*access.Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.grants[userID.String()], nil
}

func (r *fakeAccessRepo) DeleteByUserID(_ context.Context, userID shared.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.grants, userID.String())
	return nil
}

func (r *fakeAccessRepo) ReplaceForUser(_ context.Context, userID shared.ID, categoryIndexes []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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

type fakeResponseRepo struct {
	mu        sync.Mutex
	rows      map[string]map[process.Path]*response.Response
	submitted map[string]bool
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{
		rows:      make(map[string]map[process.Path]*response.Response),
		submitted: make(map[string]bool),
	}
}

func (r *fakeResponseRepo) Upsert(_ context.Context, resp *response.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := resp.UserID().String()
	if r.rows[key] == nil {
		r.rows[key] = make(map[process.Path]*response.Response)
	}
	r.rows[key][resp.Path()] = resp
	return nil
}

func (r *fakeResponseRepo) ListByUserID(_ context.Context, userID shared.ID) ([]*response.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*response.Response
	for _, resp := range r.rows[userID.String()] {
		out = append(out, resp)
	}
	return out, nil
}

func (r *fakeResponseRepo) DeleteByUserID(_ context.Context, userID shared.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, userID.String())
	return nil
}

func (r *fakeResponseRepo) MarkSubmitted(_ context.Context, userID shared.ID, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitted[userID.String()] = true
	return nil
}

func (r *fakeResponseRepo) SumHours(_ context.Context, userID shared.ID) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, resp := range r.rows[userID.String()] {
		total += resp.Hours()
	}
	return total, nil
}

func (r *fakeResponseRepo) CountSubmittedUsers(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.submitted {
		if s {
			n++
		}
	}
	return n, nil
}

type fakeEnqueuer struct {
	mu          sync.Mutex
	invitations []InvitationEmailJob
	reminders   []ReminderEmailJob
	err         error
}

func (f *fakeEnqueuer) EnqueueInvitationEmail(_ context.Context, payload InvitationEmailJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.invitations = append(f.invitations, payload)
	return nil
}

func (f *fakeEnqueuer) EnqueueReminderEmail(_ context.Context, payload ReminderEmailJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.reminders = append(f.reminders, payload)
	return nil
}

func testTree() process.Tree {
	return process.Tree{
		Categories: []process.Category{
			{ID: shared.NewID(), Index: "1", Name: "Operations", Active: true, SortOrder: 1},
			{ID: shared.NewID(), Index: "2", Name: "Reporting", Active: true, SortOrder: 2},
			{ID: shared.NewID(), Index: "3", Name: "Legacy", Active: false, SortOrder: 3},
		},
		Groups: []process.Group{
			{ID: shared.NewID(), CategoryIndex: "1", Index: "1.1", Name: "Intake", Active: true},
		},
		Activities: []process.Activity{
			{ID: shared.NewID(), CategoryIndex: "1", GroupIndex: "1.1", Index: "1.1.1", Name: "Review", Active: true},
		},
		Tasks: []process.Task{
			{ID: shared.NewID(), CategoryIndex: "1", GroupIndex: "1.1", ActivityIndex: "1.1.1", Index: "1.1.1.1", Name: "Check forms", Active: true},
		},
		Systems: []process.System{
			{ID: shared.NewID(), Code: "erp", Name: "ERP", Active: true},
		},
	}
}
