// Command seed loads the process reference tree from a YAML file and
// replaces the stored tree wholesale. The file nests the four levels the
// way people author them; flattening and ID assignment happen here.
//
// Usage:
//
//	./seed -file=seed/process_tree.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/laborhours/api/internal/config"
	"github.com/laborhours/api/internal/infra/postgres"
	"github.com/laborhours/api/pkg/domain/process"
	"github.com/laborhours/api/pkg/domain/shared"
)

type seedTask struct {
	Index string `yaml:"index"`
	Name  string `yaml:"name"`
}

type seedActivity struct {
	Index string     `yaml:"index"`
	Name  string     `yaml:"name"`
	Tasks []seedTask `yaml:"tasks"`
}

type seedGroup struct {
	Index      string         `yaml:"index"`
	Name       string         `yaml:"name"`
	Activities []seedActivity `yaml:"activities"`
}

type seedCategory struct {
	Index  string      `yaml:"index"`
	Name   string      `yaml:"name"`
	Active *bool       `yaml:"active"`
	Groups []seedGroup `yaml:"groups"`
}

type seedSystem struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type seedFile struct {
	Categories []seedCategory `yaml:"categories"`
	Systems    []seedSystem   `yaml:"systems"`
}

func main() {
	file := flag.String("file", "seed/process_tree.yaml", "Path to the process tree YAML file")
	flag.Parse()

	if err := run(*file); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(seed.Categories) == 0 {
		return fmt.Errorf("seed file %s contains no categories", path)
	}

	tree := flatten(seed)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := postgres.NewProcessRepository(db).ReplaceTree(ctx, tree); err != nil {
		return fmt.Errorf("failed to replace process tree: %w", err)
	}

	fmt.Printf("Seeded %d categories, %d groups, %d activities, %d tasks, %d systems\n",
		len(tree.Categories), len(tree.Groups), len(tree.Activities), len(tree.Tasks), len(tree.Systems))
	return nil
}

// flatten turns the nested seed layout into the flat tree the repository
// stores. Sort order follows file order; missing active flags default to
// true.
func flatten(seed seedFile) process.Tree {
	var tree process.Tree

	for ci, c := range seed.Categories {
		active := c.Active == nil || *c.Active
		tree.Categories = append(tree.Categories, process.Category{
			ID:        shared.NewID(),
			Index:     c.Index,
			Name:      c.Name,
			Active:    active,
			SortOrder: ci,
		})
		for gi, g := range c.Groups {
			tree.Groups = append(tree.Groups, process.Group{
				ID:            shared.NewID(),
				CategoryIndex: c.Index,
				Index:         g.Index,
				Name:          g.Name,
				Active:        active,
				SortOrder:     gi,
			})
			for ai, a := range g.Activities {
				tree.Activities = append(tree.Activities, process.Activity{
					ID:            shared.NewID(),
					CategoryIndex: c.Index,
					GroupIndex:    g.Index,
					Index:         a.Index,
					Name:          a.Name,
					Active:        active,
					SortOrder:     ai,
				})
				for ti, t := range a.Tasks {
					tree.Tasks = append(tree.Tasks, process.Task{
						ID:            shared.NewID(),
						CategoryIndex: c.Index,
						GroupIndex:    g.Index,
						ActivityIndex: a.Index,
						Index:         t.Index,
						Name:          t.Name,
						Active:        active,
						SortOrder:     ti,
					})
				}
			}
		}
	}

	for si, s := range seed.Systems {
		tree.Systems = append(tree.Systems, process.System{
			ID:        shared.NewID(),
			Code:      s.Code,
			Name:      s.Name,
			Active:    true,
			SortOrder: si,
		})
	}

	return tree
}
