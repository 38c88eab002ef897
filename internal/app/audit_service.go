package app

import (
	"context"
	"fmt"

	"github.com/laborhours/api/pkg/domain/audit"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/logger"
	"github.com/laborhours/api/pkg/pagination"
)

// AuditService records and serves the admin action trail.
type AuditService struct {
	repo   audit.Repository
	logger *logger.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo audit.Repository, log *logger.Logger) *AuditService {
	return &AuditService{
		repo:   repo,
		logger: log.With("service", "audit"),
	}
}

// Record persists an audit entry. A persistence failure is logged but not
// returned: audit trouble must not fail the admin operation it describes.
func (s *AuditService) Record(ctx context.Context, actorID shared.ID, actorEmail string, action audit.Action, targetType, targetID string, details map[string]any) {
	entry, err := audit.NewEntry(actorID, actorEmail, action, targetType, targetID)
	if err != nil {
		s.logger.Error("failed to build audit entry", "action", action, "error", err)
		return
	}
	for k, v := range details {
		entry.WithDetail(k, v)
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to persist audit entry",
			"action", action,
			"actor_id", actorID,
			"target_id", targetID,
			"error", err,
		)
		return
	}

	s.logger.Info("audit",
		"action", action.String(),
		"actor_email", actorEmail,
		"target_type", targetType,
		"target_id", targetID,
	)
}

// EntryView is the JSON shape of one audit entry.
type EntryView struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actor_id"`
	ActorEmail string         `json:"actor_email"`
	Action     string         `json:"action"`
	TargetType string         `json:"target_type"`
	TargetID   string         `json:"target_id"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  string         `json:"created_at"`
}

// List returns a page of audit entries, newest first.
func (s *AuditService) List(ctx context.Context, filter audit.Filter, page pagination.Pagination) (*pagination.Result[EntryView], error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", err)
	}
	entries, err := s.repo.List(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, EntryView{
			ID:         e.ID().String(),
			ActorID:    e.ActorID().String(),
			ActorEmail: e.ActorEmail(),
			Action:     e.Action().String(),
			TargetType: e.TargetType(),
			TargetID:   e.TargetID(),
			Details:    e.Details(),
			CreatedAt:  e.CreatedAt().Format(timeFormat),
		})
	}

	result := pagination.NewResult(views, total, page)
	return &result, nil
}
