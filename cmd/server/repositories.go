package main

import (
	"github.com/laborhours/api/internal/infra/postgres"
)

// Repositories holds all persistence adapters.
type Repositories struct {
	Users     *postgres.UserRepository
	Profiles  *postgres.ProfileRepository
	Roles     *postgres.RoleRepository
	Access    *postgres.AccessRepository
	Processes *postgres.ProcessRepository
	Responses *postgres.ResponseRepository
	Settings  *postgres.SettingsRepository
	EmailLogs *postgres.EmailLogRepository
	Audit     *postgres.AuditRepository
}

// NewRepositories wires every repository to the shared connection pool.
func NewRepositories(db *postgres.DB) *Repositories {
	return &Repositories{
		Users:     postgres.NewUserRepository(db),
		Profiles:  postgres.NewProfileRepository(db),
		Roles:     postgres.NewRoleRepository(db),
		Access:    postgres.NewAccessRepository(db),
		Processes: postgres.NewProcessRepository(db),
		Responses: postgres.NewResponseRepository(db),
		Settings:  postgres.NewSettingsRepository(db),
		EmailLogs: postgres.NewEmailLogRepository(db),
		Audit:     postgres.NewAuditRepository(db),
	}
}
