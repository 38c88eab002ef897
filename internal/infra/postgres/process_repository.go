package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/laborhours/api/pkg/domain/process"
	"github.com/laborhours/api/pkg/domain/shared"
)

// ProcessRepository implements process.Repository using PostgreSQL. The
// four levels live in separate tables keyed by string indexes.
type ProcessRepository struct {
	db *DB
}

// NewProcessRepository creates a new ProcessRepository.
func NewProcessRepository(db *DB) *ProcessRepository {
	return &ProcessRepository{db: db}
}

// GetTree loads the full reference tree, inactive nodes included.
func (r *ProcessRepository) GetTree(ctx context.Context) (process.Tree, error) {
	var tree process.Tree

	categories, err := r.listCategories(ctx)
	if err != nil {
		return tree, err
	}
	groups, err := r.listGroups(ctx)
	if err != nil {
		return tree, err
	}
	activities, err := r.listActivities(ctx)
	if err != nil {
		return tree, err
	}
	tasks, err := r.listTasks(ctx)
	if err != nil {
		return tree, err
	}
	systems, err := r.ListSystems(ctx)
	if err != nil {
		return tree, err
	}

	tree.Categories = categories
	tree.Groups = groups
	tree.Activities = activities
	tree.Tasks = tasks
	tree.Systems = systems
	return tree, nil
}

// ListActiveCategoryIndexes returns the valid grant targets.
func (r *ProcessRepository) ListActiveCategoryIndexes(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT index FROM process_categories WHERE is_active = TRUE ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active categories: %w", err)
	}
	defer rows.Close()

	var indexes []string
	for rows.Next() {
		var idx string
		if err := rows.Scan(&idx); err != nil {
			return nil, fmt.Errorf("failed to scan category index: %w", err)
		}
		indexes = append(indexes, idx)
	}
	return indexes, rows.Err()
}

// ListSystems retrieves the IT system catalog.
func (r *ProcessRepository) ListSystems(ctx context.Context) ([]process.System, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, code, name, is_active, sort_order FROM it_systems ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to list systems: %w", err)
	}
	defer rows.Close()

	var systems []process.System
	for rows.Next() {
		var (
			s     process.System
			idStr string
		)
		if err := rows.Scan(&idStr, &s.Code, &s.Name, &s.Active, &s.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan system: %w", err)
		}
		id, err := shared.IDFromString(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid system id: %w", err)
		}
		s.ID = id
		systems = append(systems, s)
	}
	return systems, rows.Err()
}

// ReplaceTree replaces the whole reference data set in one transaction.
// Level tables are cleared children-first to satisfy foreign keys.
func (r *ProcessRepository) ReplaceTree(ctx context.Context, tree process.Tree) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"process_tasks", "process_activities", "process_groups", "process_categories", "it_systems"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		for _, c := range tree.Categories {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO process_categories (id, index, name, is_active, sort_order)
				VALUES ($1, $2, $3, $4, $5)`,
				c.ID.String(), c.Index, c.Name, c.Active, c.SortOrder); err != nil {
				return fmt.Errorf("failed to insert category %s: %w", c.Index, err)
			}
		}
		for _, g := range tree.Groups {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO process_groups (id, category_index, index, name, is_active, sort_order)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				g.ID.String(), g.CategoryIndex, g.Index, g.Name, g.Active, g.SortOrder); err != nil {
				return fmt.Errorf("failed to insert group %s.%s: %w", g.CategoryIndex, g.Index, err)
			}
		}
		for _, a := range tree.Activities {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO process_activities (id, category_index, group_index, index, name, is_active, sort_order)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				a.ID.String(), a.CategoryIndex, a.GroupIndex, a.Index, a.Name, a.Active, a.SortOrder); err != nil {
				return fmt.Errorf("failed to insert activity %s: %w", a.Index, err)
			}
		}
		for _, t := range tree.Tasks {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO process_tasks (id, category_index, group_index, activity_index, index, name, is_active, sort_order)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				t.ID.String(), t.CategoryIndex, t.GroupIndex, t.ActivityIndex, t.Index, t.Name, t.Active, t.SortOrder); err != nil {
				return fmt.Errorf("failed to insert task %s: %w", t.Index, err)
			}
		}
		for _, s := range tree.Systems {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO it_systems (id, code, name, is_active, sort_order)
				VALUES ($1, $2, $3, $4, $5)`,
				s.ID.String(), s.Code, s.Name, s.Active, s.SortOrder); err != nil {
				return fmt.Errorf("failed to insert system %s: %w", s.Code, err)
			}
		}
		return nil
	})
}

func (r *ProcessRepository) listCategories(ctx context.Context) ([]process.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, index, name, is_active, sort_order FROM process_categories ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var out []process.Category
	for rows.Next() {
		var (
			c     process.Category
			idStr string
		)
		if err := rows.Scan(&idStr, &c.Index, &c.Name, &c.Active, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		id, err := shared.IDFromString(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid category id: %w", err)
		}
		c.ID = id
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ProcessRepository) listGroups(ctx context.Context) ([]process.Group, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category_index, index, name, is_active, sort_order FROM process_groups ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var out []process.Group
	for rows.Next() {
		var (
			g     process.Group
			idStr string
		)
		if err := rows.Scan(&idStr, &g.CategoryIndex, &g.Index, &g.Name, &g.Active, &g.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		id, err := shared.IDFromString(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid group id: %w", err)
		}
		g.ID = id
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *ProcessRepository) listActivities(ctx context.Context) ([]process.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category_index, group_index, index, name, is_active, sort_order FROM process_activities ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var out []process.Activity
	for rows.Next() {
		var (
			a     process.Activity
			idStr string
		)
		if err := rows.Scan(&idStr, &a.CategoryIndex, &a.GroupIndex, &a.Index, &a.Name, &a.Active, &a.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		id, err := shared.IDFromString(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid activity id: %w", err)
		}
		a.ID = id
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ProcessRepository) listTasks(ctx context.Context) ([]process.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category_index, group_index, activity_index, index, name, is_active, sort_order FROM process_tasks ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var out []process.Task
	for rows.Next() {
		var (
			t     process.Task
			idStr string
		)
		if err := rows.Scan(&idStr, &t.CategoryIndex, &t.GroupIndex, &t.ActivityIndex, &t.Index, &t.Name, &t.Active, &t.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		id, err := shared.IDFromString(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid task id: %w", err)
		}
		t.ID = id
		out = append(out, t)
	}
	return out, rows.Err()
}
