package app

import (
	"context"
	"fmt"
	"time"

	"github.com/laborhours/api/internal/metrics"
	"github.com/laborhours/api/pkg/domain/access"
	"github.com/laborhours/api/pkg/domain/process"
	"github.com/laborhours/api/pkg/domain/profile"
	"github.com/laborhours/api/pkg/domain/response"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/logger"
)

// ResponseService records labor hours and finalizes response sets.
type ResponseService struct {
	responses response.Repository
	profiles  profile.Repository
	grants    access.Repository
	processes *ProcessService
	logger    *logger.Logger
}

// NewResponseService creates a new ResponseService.
func NewResponseService(
	responses response.Repository,
	profiles profile.Repository,
	grants access.Repository,
	processes *ProcessService,
	log *logger.Logger,
) *ResponseService {
	return &ResponseService{
		responses: responses,
		profiles:  profiles,
		grants:    grants,
		processes: processes,
		logger:    log.With("service", "response"),
	}
}

// SaveInput is one hours entry to record.
type SaveInput struct {
	Path     process.Path
	SystemID *shared.ID
	Hours    float64
}

// Save records hours against one task, overwriting any previous value for
// the same task. Rejected once the user has submitted, when the path does
// not address an active task, or when the task's category is outside the
// user's grants.
func (s *ResponseService) Save(ctx context.Context, userID shared.ID, input SaveInput) error {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if p.QuestionnaireCompleted() {
		return response.ErrAlreadySubmitted
	}

	tree, err := s.processes.GetTree(ctx)
	if err != nil {
		return err
	}
	if !tree.HasTask(input.Path) {
		return process.UnknownTaskError(input.Path)
	}

	allowed, err := s.holdsGrant(ctx, userID, input.Path.Category)
	if err != nil {
		return err
	}
	if !allowed {
		return shared.ErrForbidden
	}

	r, err := response.New(userID, input.Path, input.SystemID, input.Hours)
	if err != nil {
		return err
	}
	if err := s.responses.Upsert(ctx, r); err != nil {
		return fmt.Errorf("failed to save response: %w", err)
	}

	metrics.ResponsesSavedTotal.Inc()
	return nil
}

// SaveBatch records several entries in one call. The first failure aborts
// the rest; saving is idempotent so the client can simply retry the page.
func (s *ResponseService) SaveBatch(ctx context.Context, userID shared.ID, inputs []SaveInput) error {
	for _, input := range inputs {
		if err := s.Save(ctx, userID, input); err != nil {
			return err
		}
	}
	return nil
}

// ListMine returns the user's recorded responses.
func (s *ResponseService) ListMine(ctx context.Context, userID shared.ID) ([]*response.Response, error) {
	return s.responses.ListByUserID(ctx, userID)
}

// TotalHours returns the user's recorded total.
func (s *ResponseService) TotalHours(ctx context.Context, userID shared.ID) (float64, error) {
	return s.responses.SumHours(ctx, userID)
}

// Submit finalizes the user's response set. Submission is one-shot:
// repeated submission is rejected, and a set with zero total hours cannot
// be submitted.
func (s *ResponseService) Submit(ctx context.Context, userID shared.ID) error {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if p.QuestionnaireCompleted() {
		return response.ErrAlreadySubmitted
	}

	total, err := s.responses.SumHours(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to total hours: %w", err)
	}
	if total <= 0 {
		return response.ErrNoHours
	}

	now := time.Now().UTC()
	if err := s.responses.MarkSubmitted(ctx, userID, now); err != nil {
		return fmt.Errorf("failed to finalize responses: %w", err)
	}

	p.MarkQuestionnaireCompleted()
	if err := s.profiles.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to mark questionnaire completed: %w", err)
	}

	metrics.QuestionnairesSubmittedTotal.Inc()
	s.logger.Info("questionnaire submitted", "user_id", userID, "total_hours", total)
	return nil
}

func (s *ResponseService) holdsGrant(ctx context.Context, userID shared.ID, categoryIndex string) (bool, error) {
	grants, err := s.grants.ListByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to load access grants: %w", err)
	}
	for _, g := range grants {
		if g.CategoryIndex() == categoryIndex {
			return true, nil
		}
	}
	return false, nil
}
