// Package process provides the 4-level process reference tree and the IT
// system catalog.
//
// Levels are addressed by string indexes ("1", "2.3", ...): a category
// (level 1) contains groups (level 2), a group contains activities
// (level 3), an activity contains tasks (level 4). Labor hours are recorded
// against tasks. Access grants reference categories.
package process

import "github.com/laborhours/api/pkg/domain/shared"

// Category is a level-1 node.
type Category struct {
	ID        shared.ID `json:"id"`
	Index     string    `json:"index"`
	Name      string    `json:"name"`
	Active    bool      `json:"is_active"`
	SortOrder int       `json:"sort_order"`
}

// Group is a level-2 node.
type Group struct {
	ID            shared.ID `json:"id"`
	CategoryIndex string    `json:"category_index"`
	Index         string    `json:"index"`
	Name          string    `json:"name"`
	Active        bool      `json:"is_active"`
	SortOrder     int       `json:"sort_order"`
}

// Activity is a level-3 node.
type Activity struct {
	ID            shared.ID `json:"id"`
	CategoryIndex string    `json:"category_index"`
	GroupIndex    string    `json:"group_index"`
	Index         string    `json:"index"`
	Name          string    `json:"name"`
	Active        bool      `json:"is_active"`
	SortOrder     int       `json:"sort_order"`
}

// Task is a level-4 leaf node. Hours are recorded here.
type Task struct {
	ID            shared.ID `json:"id"`
	CategoryIndex string    `json:"category_index"`
	GroupIndex    string    `json:"group_index"`
	ActivityIndex string    `json:"activity_index"`
	Index         string    `json:"index"`
	Name          string    `json:"name"`
	Active        bool      `json:"is_active"`
	SortOrder     int       `json:"sort_order"`
}

// System is an IT system a task can be performed in.
type System struct {
	ID        shared.ID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Active    bool      `json:"is_active"`
	SortOrder int       `json:"sort_order"`
}

// Tree is the full reference data set.
type Tree struct {
	Categories []Category `json:"categories"`
	Groups     []Group    `json:"groups"`
	Activities []Activity `json:"activities"`
	Tasks      []Task     `json:"tasks"`
	Systems    []System   `json:"systems"`
}

// Path addresses one task through all four levels.
type Path struct {
	Category string `json:"category_index"`
	Group    string `json:"group_index"`
	Activity string `json:"activity_index"`
	Task     string `json:"task_index"`
}

// FilterByCategories returns a copy of the tree containing only the given
// categories and their descendants. Systems are not category-scoped and pass
// through unchanged.
func (t Tree) FilterByCategories(indexes []string) Tree {
	allowed := make(map[string]struct{}, len(indexes))
	for _, idx := range indexes {
		allowed[idx] = struct{}{}
	}

	out := Tree{Systems: t.Systems}
	for _, c := range t.Categories {
		if _, ok := allowed[c.Index]; ok {
			out.Categories = append(out.Categories, c)
		}
	}
	for _, g := range t.Groups {
		if _, ok := allowed[g.CategoryIndex]; ok {
			out.Groups = append(out.Groups, g)
		}
	}
	for _, a := range t.Activities {
		if _, ok := allowed[a.CategoryIndex]; ok {
			out.Activities = append(out.Activities, a)
		}
	}
	for _, task := range t.Tasks {
		if _, ok := allowed[task.CategoryIndex]; ok {
			out.Tasks = append(out.Tasks, task)
		}
	}
	return out
}

// ActiveCategoryIndexes returns the indexes of all active categories.
func (t Tree) ActiveCategoryIndexes() []string {
	var out []string
	for _, c := range t.Categories {
		if c.Active {
			out = append(out, c.Index)
		}
	}
	return out
}

// HasTask reports whether the path addresses a known active task.
func (t Tree) HasTask(p Path) bool {
	for _, task := range t.Tasks {
		if task.Active &&
			task.CategoryIndex == p.Category &&
			task.GroupIndex == p.Group &&
			task.ActivityIndex == p.Activity &&
			task.Index == p.Task {
			return true
		}
	}
	return false
}
