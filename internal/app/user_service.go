package app

import (
	"context"
	"fmt"

	"github.com/laborhours/api/pkg/domain/access"
	"github.com/laborhours/api/pkg/domain/process"
	"github.com/laborhours/api/pkg/domain/profile"
	"github.com/laborhours/api/pkg/domain/role"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/domain/user"
	"github.com/laborhours/api/pkg/logger"
	"github.com/laborhours/api/pkg/pagination"
)

// UserService serves the admin user list and mutations on existing
// accounts: profile rename, role change and grant replacement.
type UserService struct {
	users     user.Repository
	profiles  profile.Repository
	roles     role.Repository
	grants    access.Repository
	processes *ProcessService
	logger    *logger.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	users user.Repository,
	profiles profile.Repository,
	roles role.Repository,
	grants access.Repository,
	processes *ProcessService,
	log *logger.Logger,
) *UserService {
	return &UserService{
		users:     users,
		profiles:  profiles,
		roles:     roles,
		grants:    grants,
		processes: processes,
		logger:    log.With("service", "user"),
	}
}

// UserView is the admin-facing aggregate of one account.
type UserView struct {
	ID                     string   `json:"id"`
	Email                  string   `json:"email"`
	FullName               string   `json:"full_name"`
	Role                   string   `json:"role"`
	Status                 string   `json:"status"`
	Processes              []string `json:"processes"`
	MustChangePassword     bool     `json:"must_change_password"`
	QuestionnaireCompleted bool     `json:"questionnaire_completed"`
	InvitationSentAt       *string  `json:"invitation_sent_at,omitempty"`
	CreatedAt              string   `json:"created_at"`
}

// List returns a page of accounts with their profile, role and grants.
func (s *UserService) List(ctx context.Context, filter user.Filter, page pagination.Pagination) (*pagination.Result[UserView], error) {
	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	users, err := s.users.List(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	views := make([]UserView, 0, len(users))
	for _, u := range users {
		view, err := s.buildView(ctx, u)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	result := pagination.NewResult(views, total, page)
	return &result, nil
}

// Get returns one account aggregate.
func (s *UserService) Get(ctx context.Context, id shared.ID) (*UserView, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view, err := s.buildView(ctx, u)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Rename updates the account's display name.
func (s *UserService) Rename(ctx context.Context, id shared.ID, fullName string) error {
	p, err := s.profiles.GetByUserID(ctx, id)
	if err != nil {
		return err
	}
	if err := p.Rename(fullName); err != nil {
		return err
	}
	return s.profiles.Update(ctx, p)
}

// SetStatus activates or deactivates the account.
func (s *UserService) SetStatus(ctx context.Context, id shared.ID, status user.Status) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch status {
	case user.StatusActive:
		err = u.Activate()
	case user.StatusInactive:
		err = u.Deactivate()
	default:
		return fmt.Errorf("%w: invalid status %q", shared.ErrValidation, status)
	}
	if err != nil {
		return err
	}
	return s.users.Update(ctx, u)
}

// ChangeRole changes the account's role. Demoting is refused when it would
// leave the system without an administrator. Promotion to admin grants
// every active process category.
func (s *UserService) ChangeRole(ctx context.Context, id shared.ID, newRole role.Role) error {
	if !newRole.IsValid() {
		return role.ErrInvalidRole
	}

	assignment, err := s.roles.GetByUserID(ctx, id)
	if err != nil {
		return err
	}
	if assignment.Role() == newRole {
		return nil
	}

	if assignment.Role().IsAdmin() && !newRole.IsAdmin() {
		admins, err := s.roles.CountAdmins(ctx)
		if err != nil {
			return fmt.Errorf("failed to count administrators: %w", err)
		}
		if admins <= 1 {
			return role.ErrLastAdmin
		}
	}

	updated, err := role.NewAssignment(id, newRole)
	if err != nil {
		return err
	}
	if err := s.roles.Update(ctx, updated); err != nil {
		return err
	}

	if newRole.IsAdmin() {
		categories, err := s.processes.ActiveCategoryIndexes(ctx)
		if err != nil {
			return err
		}
		if err := s.grants.ReplaceForUser(ctx, id, categories); err != nil {
			return fmt.Errorf("failed to grant categories: %w", err)
		}
	}

	s.logger.Info("role changed", "user_id", id, "role", newRole)
	return nil
}

// ReplaceGrants swaps the account's process grants. Administrators keep
// every category regardless of the requested set. Every index must be an
// active category.
func (s *UserService) ReplaceGrants(ctx context.Context, id shared.ID, categoryIndexes []string) error {
	assignment, err := s.roles.GetByUserID(ctx, id)
	if err != nil {
		return err
	}

	categories, err := s.processes.ActiveCategoryIndexes(ctx)
	if err != nil {
		return err
	}

	if assignment.Role().IsAdmin() {
		categoryIndexes = categories
	} else {
		if len(categoryIndexes) == 0 {
			return access.ErrNoGrants
		}
		valid := make(map[string]struct{}, len(categories))
		for _, idx := range categories {
			valid[idx] = struct{}{}
		}
		for _, idx := range categoryIndexes {
			if _, ok := valid[idx]; !ok {
				return process.UnknownCategoryError(idx)
			}
		}
	}

	if err := s.grants.ReplaceForUser(ctx, id, categoryIndexes); err != nil {
		return fmt.Errorf("failed to replace grants: %w", err)
	}
	return nil
}

func (s *UserService) buildView(ctx context.Context, u *user.User) (UserView, error) {
	p, err := s.profiles.GetByUserID(ctx, u.ID())
	if err != nil {
		return UserView{}, fmt.Errorf("failed to load profile for %s: %w", u.ID(), err)
	}
	assignment, err := s.roles.GetByUserID(ctx, u.ID())
	if err != nil {
		return UserView{}, fmt.Errorf("failed to load role for %s: %w", u.ID(), err)
	}
	grants, err := s.grants.ListByUserID(ctx, u.ID())
	if err != nil {
		return UserView{}, fmt.Errorf("failed to load grants for %s: %w", u.ID(), err)
	}

	processes := make([]string, 0, len(grants))
	for _, g := range grants {
		processes = append(processes, g.CategoryIndex())
	}

	view := UserView{
		ID:                     u.ID().String(),
		Email:                  u.Email(),
		FullName:               p.FullName(),
		Role:                   assignment.Role().String(),
		Status:                 u.Status().String(),
		Processes:              processes,
		MustChangePassword:     u.MustChangePassword(),
		QuestionnaireCompleted: p.QuestionnaireCompleted(),
		CreatedAt:              u.CreatedAt().Format(timeFormat),
	}
	if sent := p.InvitationSentAt(); sent != nil {
		formatted := sent.Format(timeFormat)
		view.InvitationSentAt = &formatted
	}
	return view, nil
}

const timeFormat = "2006-01-02T15:04:05Z07:00"
