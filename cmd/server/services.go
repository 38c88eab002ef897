package main

import (
	"github.com/laborhours/api/internal/app"
	"github.com/laborhours/api/internal/config"
	"github.com/laborhours/api/internal/infra/jobs"
	"github.com/laborhours/api/internal/infra/redis"
	"github.com/laborhours/api/pkg/email"
	"github.com/laborhours/api/pkg/jwt"
	"github.com/laborhours/api/pkg/logger"
	"github.com/laborhours/api/pkg/password"
)

// Services holds all application services.
type Services struct {
	Tokens      *jwt.Generator
	Auth        *app.AuthService
	Users       *app.UserService
	Processes   *app.ProcessService
	Responses   *app.ResponseService
	Provisions  *app.ProvisionService
	Invitations *app.InvitationService
	Email       *app.EmailService
	Settings    *app.SettingsService
	Audit       *app.AuditService
	Dashboard   *app.DashboardService
}

// ServiceDeps carries everything the service layer needs.
type ServiceDeps struct {
	Config    *config.Config
	Log       *logger.Logger
	Repos     *Repositories
	TreeCache *redis.TreeCache

	// JobClient is nil when the worker is disabled; invitation mail then
	// goes out synchronously on the request path.
	JobClient *jobs.Client
}

// NewServices wires the application service layer.
func NewServices(deps *ServiceDeps) *Services {
	cfg := deps.Config
	log := deps.Log
	repos := deps.Repos

	tokens := jwt.NewGenerator(jwt.TokenConfig{
		Secret:               cfg.Auth.JWTSecret,
		Issuer:               cfg.Auth.JWTIssuer,
		AccessTokenDuration:  cfg.Auth.AccessTokenDuration,
		RefreshTokenDuration: cfg.Auth.RefreshTokenDuration,
	})
	hasher := password.New()

	senderFor := email.Factory(func(smtp email.Config) email.Sender {
		return email.NewSMTPSender(smtp)
	})

	emailSvc := app.NewEmailService(
		repos.Settings,
		repos.EmailLogs,
		repos.Users,
		repos.Profiles,
		senderFor,
		cfg.App.Name,
		cfg.App.LoginURL(),
		log,
	)

	var enqueuer app.EmailJobEnqueuer
	if deps.JobClient != nil {
		enqueuer = jobs.NewEmailEnqueuerAdapter(deps.JobClient)
	} else {
		enqueuer = jobs.NewSyncEmailEnqueuer(emailSvc)
	}

	processes := app.NewProcessService(repos.Processes, repos.Access, deps.TreeCache, log)

	return &Services{
		Tokens:      tokens,
		Auth:        app.NewAuthService(repos.Users, repos.Profiles, repos.Roles, tokens, hasher, &cfg.Auth, log),
		Users:       app.NewUserService(repos.Users, repos.Profiles, repos.Roles, repos.Access, processes, log),
		Processes:   processes,
		Responses:   app.NewResponseService(repos.Responses, repos.Profiles, repos.Access, processes, log),
		Provisions:  app.NewProvisionService(repos.Users, repos.Profiles, repos.Roles, repos.Access, repos.Processes, hasher, log),
		Invitations: app.NewInvitationService(repos.Users, repos.Profiles, enqueuer, hasher, log),
		Email:       emailSvc,
		Settings:    app.NewSettingsService(repos.Settings, repos.EmailLogs, emailSvc, log),
		Audit:       app.NewAuditService(repos.Audit, log),
		Dashboard:   app.NewDashboardService(repos.Users, repos.Profiles, repos.Roles, repos.Responses, log),
	}
}
