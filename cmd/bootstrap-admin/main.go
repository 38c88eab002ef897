// Package main provides a CLI tool to create the first administrator.
// This is used during initial deployment, before any admin exists to use
// the user management API.
//
// Usage:
//
//	# Generate a new admin with a random temporary password
//	./bootstrap-admin -db=$DATABASE_URL -email=admin@example.com
//
//	# Or via environment variables
//	DATABASE_URL=postgres://... ADMIN_EMAIL=admin@example.com ./bootstrap-admin
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/laborhours/api/pkg/password"
)

func main() {
	dbURL := flag.String("db", "", "Database URL (or set DATABASE_URL env)")
	email := flag.String("email", "", "Admin email (or set ADMIN_EMAIL env)")
	name := flag.String("name", "", "Admin full name (defaults to email prefix)")
	force := flag.Bool("force", false, "Replace an existing account with the same email")
	flag.Parse()

	databaseURL := *dbURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	// Fallback: build the URL from individual DB_* environment variables,
	// which is how containerized deployments configure the server.
	if databaseURL == "" {
		dbHost := os.Getenv("DB_HOST")
		dbPort := os.Getenv("DB_PORT")
		dbUser := os.Getenv("DB_USER")
		dbPassword := os.Getenv("DB_PASSWORD")
		dbName := os.Getenv("DB_NAME")
		dbSSLMode := os.Getenv("DB_SSLMODE")

		if dbHost != "" && dbUser != "" && dbPassword != "" && dbName != "" {
			if dbPort == "" {
				dbPort = "5432"
			}
			if dbSSLMode == "" {
				dbSSLMode = "disable"
			}
			databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
				dbUser, dbPassword, dbHost, dbPort, dbName, dbSSLMode)
		}
	}
	if databaseURL == "" {
		fatal("Database URL required. Use -db flag, set DATABASE_URL, or set DB_HOST/DB_USER/DB_PASSWORD/DB_NAME env vars")
	}

	adminEmail := *email
	if adminEmail == "" {
		adminEmail = os.Getenv("ADMIN_EMAIL")
	}
	if adminEmail == "" {
		fatal("Admin email required. Use -email flag or set ADMIN_EMAIL env")
	}

	adminName := *name
	if adminName == "" {
		adminName = os.Getenv("ADMIN_NAME")
	}
	if adminName == "" {
		parts := strings.Split(adminEmail, "@")
		adminName = parts[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		fatal("Error connecting to database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatal("Error pinging database: %v", err)
	}

	var tableExists bool
	err = db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'users'
		)
	`).Scan(&tableExists)
	if err != nil {
		fatal("Error checking table: %v", err)
	}
	if !tableExists {
		fatal("users table does not exist. Run migrations first.")
	}

	var existingID string
	err = db.QueryRowContext(ctx, `
		SELECT id FROM users WHERE lower(email) = lower($1)
	`, adminEmail).Scan(&existingID)
	if err == nil {
		if !*force {
			fatal("Account with email %s already exists (ID: %s). Use -force to replace.", adminEmail, existingID)
		}
		// Profile, role and access rows cascade.
		if _, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, existingID); err != nil {
			fatal("Error deleting existing account: %v", err)
		}
		fmt.Printf("Deleted existing account: %s\n", existingID)
	} else if !errors.Is(err, sql.ErrNoRows) {
		fatal("Error checking existing account: %v", err)
	}

	plaintext, err := password.Generate()
	if err != nil {
		fatal("Error generating password: %v", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		fatal("Error hashing password: %v", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		fatal("Error starting transaction: %v", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	adminID := uuid.New().String()
	now := time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, status, must_change_password,
			failed_login_attempts, created_at, updated_at)
		VALUES ($1, $2, $3, 'active', TRUE, 0, $4, $4)
	`, adminID, adminEmail, string(hashed), now)
	if err != nil {
		fatal("Error creating user: %v", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (user_id, email, full_name, questionnaire_completed, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, $4, $4)
	`, adminID, adminEmail, adminName, now)
	if err != nil {
		fatal("Error creating profile: %v", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role, created_at)
		VALUES ($1, 'admin', $2)
	`, adminID, now)
	if err != nil {
		fatal("Error creating role: %v", err)
	}

	// Administrators hold access to every active category.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_access (id, user_id, category_index, created_at)
		SELECT gen_random_uuid(), $1, index, $2
		FROM process_categories WHERE is_active
		ON CONFLICT (user_id, category_index) DO NOTHING
	`, adminID, now)
	if err != nil {
		fatal("Error granting category access: %v", err)
	}

	if err := tx.Commit(); err != nil {
		fatal("Error committing: %v", err)
	}

	fmt.Println()
	fmt.Println("=== Bootstrap Admin Created ===")
	fmt.Printf("  ID:    %s\n", adminID)
	fmt.Printf("  Name:  %s\n", adminName)
	fmt.Printf("  Email: %s\n", adminEmail)
	fmt.Println()
	fmt.Println("Temporary password (save this, it won't be shown again):")
	fmt.Printf("  %s\n", plaintext)
	fmt.Println()
	fmt.Println("The password must be changed on first login.")
}

func fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(os.Stderr, "Error: "+msg)
	os.Exit(1)
}
