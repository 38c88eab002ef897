// Package routes registers all HTTP routes for the API.
// Routes are organized by domain for maintainability.
package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	infrahttp "github.com/laborhours/api/internal/infra/http"
	"github.com/laborhours/api/internal/infra/http/handler"
	"github.com/laborhours/api/internal/infra/http/middleware"
	"github.com/laborhours/api/pkg/jwt"
	"github.com/laborhours/api/pkg/logger"
)

// Middleware is an alias to the http package's Middleware type.
type Middleware = infrahttp.Middleware

// Router is an alias to the http package's Router interface.
type Router = infrahttp.Router

// Handlers holds all HTTP handlers for route registration.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Process   *handler.ProcessHandler
	Response  *handler.ResponseHandler
	AdminUser *handler.AdminUserHandler
	Settings  *handler.SettingsHandler
	Audit     *handler.AuditHandler
	Dashboard *handler.DashboardHandler
}

// Register registers all application routes.
// This keeps route definitions in the infrastructure layer, not in main.
//
// Routes are organized across multiple files by domain:
//   - auth.go: Authentication and the current-user surface
//   - reporting.go: Process tree, IT systems, labor-hours responses
//   - admin.go: User management, settings, audit trail, dashboard
func Register(
	router Router,
	h Handlers,
	tokens *jwt.Generator,
	cookieName string,
	log *logger.Logger,
) {
	authn := middleware.NewAuthenticator(tokens, cookieName, log)
	requireAuth := Middleware(authn.RequireAuth)
	requireAdmin := Middleware(func(next http.Handler) http.Handler {
		return authn.RequireAuth(authn.RequireAdmin(next))
	})

	registerHealthRoutes(router, h.Health)
	registerAuthRoutes(router, h, requireAuth)
	registerReportingRoutes(router, h, requireAuth)
	registerAdminRoutes(router, h, requireAdmin)
}

// registerHealthRoutes registers health check and metrics endpoints.
func registerHealthRoutes(router Router, h *handler.HealthHandler) {
	router.GET("/health", h.Health)
	router.GET("/live", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
}
