package main

import (
	"github.com/laborhours/api/internal/config"
	"github.com/laborhours/api/internal/infra/http/handler"
	"github.com/laborhours/api/internal/infra/http/routes"
	"github.com/laborhours/api/internal/infra/postgres"
	"github.com/laborhours/api/internal/infra/redis"
	"github.com/laborhours/api/pkg/logger"
)

// NewHandlers wires the HTTP handlers for route registration.
func NewHandlers(
	cfg *config.Config,
	db *postgres.DB,
	redisClient *redis.Client,
	services *Services,
	log *logger.Logger,
) routes.Handlers {
	return routes.Handlers{
		Health: handler.NewHealthHandler(
			handler.WithDatabase(db),
			handler.WithRedis(redisClient),
		),
		Auth:      handler.NewAuthHandler(services.Auth, cfg.Auth, log),
		Process:   handler.NewProcessHandler(services.Processes, log),
		Response:  handler.NewResponseHandler(services.Responses, log),
		AdminUser: handler.NewAdminUserHandler(services.Users, services.Provisions, services.Invitations, services.Auth, services.Audit, log),
		Settings:  handler.NewSettingsHandler(services.Settings, log),
		Audit:     handler.NewAuditHandler(services.Audit, log),
		Dashboard: handler.NewDashboardHandler(services.Dashboard, log),
	}
}
