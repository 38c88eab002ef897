package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/laborhours/api/pkg/domain/profile"
	"github.com/laborhours/api/pkg/domain/response"
	"github.com/laborhours/api/pkg/domain/role"
	"github.com/laborhours/api/pkg/domain/user"
	"github.com/laborhours/api/pkg/logger"
)

// DashboardService aggregates the admin dashboard counters.
type DashboardService struct {
	users     user.Repository
	profiles  profile.Repository
	roles     role.Repository
	responses response.Repository
	logger    *logger.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	users user.Repository,
	profiles profile.Repository,
	roles role.Repository,
	responses response.Repository,
	log *logger.Logger,
) *DashboardService {
	return &DashboardService{
		users:     users,
		profiles:  profiles,
		roles:     roles,
		responses: responses,
		logger:    log.With("service", "dashboard"),
	}
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers     int64 `json:"total_users"`
	ActiveUsers    int64 `json:"active_users"`
	Admins         int64 `json:"admins"`
	Submitted      int64 `json:"submitted"`
	PendingUsers   int64 `json:"pending"`
	SubmittedUsers int64 `json:"submitted_users"`
}

// GetStats collects the counters. The queries are independent and run
// concurrently.
func (s *DashboardService) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.users.Count(ctx, user.Filter{})
		stats.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.users.Count(ctx, user.Filter{}.WithStatus(user.StatusActive))
		stats.ActiveUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.roles.CountAdmins(ctx)
		stats.Admins = n
		return err
	})
	g.Go(func() error {
		n, err := s.profiles.CountCompleted(ctx)
		stats.Submitted = n
		return err
	})
	g.Go(func() error {
		n, err := s.responses.CountSubmittedUsers(ctx)
		stats.SubmittedUsers = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.PendingUsers = stats.ActiveUsers - stats.Submitted
	if stats.PendingUsers < 0 {
		stats.PendingUsers = 0
	}
	return &stats, nil
}
