package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Runner executes database migrations against a Postgres database.
type Runner struct {
	db            *sql.DB
	migrationsDir string
}

// NewRunner creates a new migration runner.
func NewRunner(db *sql.DB, migrationsDir string) *Runner {
	return &Runner{db: db, migrationsDir: migrationsDir}
}

// Record represents a row in the schema_migrations table.
type Record struct {
	Version   string
	AppliedAt time.Time
}

// EnsureTable creates the schema_migrations table if it doesn't exist.
func (r *Runner) EnsureTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(14) PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

// Applied returns all applied migration records, oldest first.
func (r *Runner) Applied(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT version, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Version, &rec.AppliedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Pending returns migrations that have not been applied yet.
func (r *Runner) Pending(ctx context.Context) ([]Migration, error) {
	available, err := LoadFromDir(r.migrationsDir, "up")
	if err != nil {
		return nil, fmt.Errorf("failed to scan migrations: %w", err)
	}

	applied, err := r.Applied(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	appliedSet := make(map[string]bool, len(applied))
	for _, rec := range applied {
		appliedSet[rec.Version] = true
	}

	var pending []Migration
	for _, m := range available {
		if !appliedSet[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Up runs all pending migrations. Each migration runs inside its own
// transaction.
func (r *Runner) Up(ctx context.Context) (int, error) {
	if err := r.EnsureTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to ensure migration table: %w", err)
	}

	pending, err := r.Pending(ctx)
	if err != nil {
		return 0, err
	}

	for i, m := range pending {
		if err := r.run(ctx, m); err != nil {
			return i, fmt.Errorf("migration %s failed: %w", m.Version, err)
		}
	}
	return len(pending), nil
}

// Down rolls back the most recently applied migration.
func (r *Runner) Down(ctx context.Context) (string, error) {
	applied, err := r.Applied(ctx)
	if err != nil {
		return "", err
	}
	if len(applied) == 0 {
		return "", nil
	}

	last := applied[len(applied)-1]

	downs, err := LoadFromDir(r.migrationsDir, "down")
	if err != nil {
		return "", err
	}

	var target *Migration
	for i := range downs {
		if downs[i].Version == last.Version {
			target = &downs[i]
			break
		}
	}
	if target == nil {
		return "", fmt.Errorf("down migration not found for version %s", last.Version)
	}

	if err := r.run(ctx, *target); err != nil {
		return "", fmt.Errorf("rollback %s failed: %w", last.Version, err)
	}
	return last.Version, nil
}

func (r *Runner) run(ctx context.Context, m Migration) error {
	content, err := ReadContent(m)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return err
	}

	switch m.Direction {
	case "up":
		_, err = tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version) VALUES ($1)", m.Version)
	case "down":
		_, err = tx.ExecContext(ctx,
			"DELETE FROM schema_migrations WHERE version = $1", m.Version)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}
