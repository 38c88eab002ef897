package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/laborhours/api/internal/infra/redis"
	"github.com/laborhours/api/pkg/domain/access"
	"github.com/laborhours/api/pkg/domain/process"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/logger"
)

// TreeCache caches the process reference tree.
type TreeCache interface {
	Get(ctx context.Context) (*process.Tree, error)
	Set(ctx context.Context, tree process.Tree) error
	Invalidate(ctx context.Context) error
}

// ProcessService serves the process reference tree and the IT system
// catalog. Reads go through the cache; the tree only changes on reseed.
type ProcessService struct {
	processes process.Repository
	grants    access.Repository
	cache     TreeCache
	logger    *logger.Logger
}

// NewProcessService creates a new ProcessService. cache may be nil, in
// which case every read hits the database.
func NewProcessService(
	processes process.Repository,
	grants access.Repository,
	cache TreeCache,
	log *logger.Logger,
) *ProcessService {
	return &ProcessService{
		processes: processes,
		grants:    grants,
		cache:     cache,
		logger:    log.With("service", "process"),
	}
}

// GetTree returns the full reference tree. Admin screens use this.
func (s *ProcessService) GetTree(ctx context.Context) (process.Tree, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err == nil {
			return *cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("tree cache read failed", "error", err)
		}
	}

	tree, err := s.processes.GetTree(ctx)
	if err != nil {
		return process.Tree{}, fmt.Errorf("failed to load process tree: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, tree); err != nil {
			s.logger.Warn("tree cache write failed", "error", err)
		}
	}
	return tree, nil
}

// GetTreeForUser returns the tree filtered down to the categories the user
// holds grants for. Administrators hold explicit grants for every category,
// so the same filter applies uniformly.
func (s *ProcessService) GetTreeForUser(ctx context.Context, userID shared.ID) (process.Tree, error) {
	tree, err := s.GetTree(ctx)
	if err != nil {
		return process.Tree{}, err
	}

	grants, err := s.grants.ListByUserID(ctx, userID)
	if err != nil {
		return process.Tree{}, fmt.Errorf("failed to load access grants: %w", err)
	}

	indexes := make([]string, 0, len(grants))
	for _, g := range grants {
		indexes = append(indexes, g.CategoryIndex())
	}
	return tree.FilterByCategories(indexes), nil
}

// ListSystems returns the IT system catalog.
func (s *ProcessService) ListSystems(ctx context.Context) ([]process.System, error) {
	tree, err := s.GetTree(ctx)
	if err != nil {
		return nil, err
	}
	return tree.Systems, nil
}

// ActiveCategoryIndexes returns the valid grant targets.
func (s *ProcessService) ActiveCategoryIndexes(ctx context.Context) ([]string, error) {
	tree, err := s.GetTree(ctx)
	if err != nil {
		return nil, err
	}
	return tree.ActiveCategoryIndexes(), nil
}

// ReplaceTree swaps the whole reference data set and drops the cache.
func (s *ProcessService) ReplaceTree(ctx context.Context, tree process.Tree) error {
	if err := s.processes.ReplaceTree(ctx, tree); err != nil {
		return fmt.Errorf("failed to replace process tree: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("tree cache invalidation failed", "error", err)
		}
	}
	s.logger.Info("process tree replaced",
		"categories", len(tree.Categories),
		"tasks", len(tree.Tasks),
		"systems", len(tree.Systems),
	)
	return nil
}
