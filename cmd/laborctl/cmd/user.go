package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/laborhours/api/internal/app"
	"github.com/laborhours/api/internal/config"
	"github.com/laborhours/api/internal/infra/postgres"
	"github.com/laborhours/api/pkg/domain/role"
	"github.com/laborhours/api/pkg/logger"
	"github.com/laborhours/api/pkg/password"
)

var (
	userEmail     string
	userFullName  string
	userRole      string
	userProcesses []string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts outside the API",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Provision one account and print its temporary password",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := role.Role(userRole)
		if !r.IsValid() {
			return fmt.Errorf("%w: %q", role.ErrInvalidRole, userRole)
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		db, err := postgres.New(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		log := logger.NewNop()
		provisions := app.NewProvisionService(
			postgres.NewUserRepository(db),
			postgres.NewProfileRepository(db),
			postgres.NewRoleRepository(db),
			postgres.NewAccessRepository(db),
			postgres.NewProcessRepository(db),
			password.New(),
			log,
		)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		created, err := provisions.CreateUser(ctx, app.CreateUserInput{
			Email:     userEmail,
			FullName:  userFullName,
			Role:      r,
			Processes: userProcesses,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created %s (ID: %s)\n", created.Email, created.UserID)
		fmt.Println("Temporary password (save this, it won't be shown again):")
		fmt.Printf("  %s\n", created.Password)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Account email (required)")
	userCreateCmd.Flags().StringVar(&userFullName, "name", "", "Full name (required)")
	userCreateCmd.Flags().StringVar(&userRole, "role", "user", "Role: admin or user")
	userCreateCmd.Flags().StringSliceVar(&userProcesses, "processes", nil, "Category indexes to grant, e.g. --processes=1,3")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("name")

	userCmd.AddCommand(userCreateCmd)
}
