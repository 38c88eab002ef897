package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/laborhours/api/internal/config"
	"github.com/laborhours/api/internal/infra/postgres"
	"github.com/laborhours/api/pkg/migrations"
)

var migrateDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(ctx context.Context, runner *migrations.Runner) error {
			n, err := runner.Up(ctx)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Println("No pending migrations")
				return nil
			}
			fmt.Printf("Applied %d migration(s)\n", n)
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(ctx context.Context, runner *migrations.Runner) error {
			version, err := runner.Down(ctx)
			if err != nil {
				return err
			}
			if version == "" {
				fmt.Println("Nothing to roll back")
				return nil
			}
			fmt.Printf("Rolled back %s\n", version)
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(ctx context.Context, runner *migrations.Runner) error {
			if err := runner.EnsureTable(ctx); err != nil {
				return err
			}
			applied, err := runner.Applied(ctx)
			if err != nil {
				return err
			}
			pending, err := runner.Pending(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Applied: %d\n", len(applied))
			for _, rec := range applied {
				fmt.Printf("  %s  (%s)\n", rec.Version, rec.AppliedAt.Format(time.RFC3339))
			}
			fmt.Printf("Pending: %d\n", len(pending))
			for _, m := range pending {
				fmt.Printf("  %s_%s\n", m.Version, m.Name)
			}
			return nil
		})
	},
}

func withRunner(fn func(ctx context.Context, runner *migrations.Runner) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dir := migrateDir
	if dir == "" {
		dir = cfg.Database.MigrationsDir
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	return fn(ctx, migrations.NewRunner(db.DB, dir))
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrateDir, "dir", "", "Migrations directory (defaults to DB_MIGRATIONS_DIR)")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}
