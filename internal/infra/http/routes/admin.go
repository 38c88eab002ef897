package routes

// registerAdminRoutes registers the administrator surface: user management,
// bulk provisioning, settings, the audit trail and the dashboard.
func registerAdminRoutes(router Router, h Handlers, requireAdmin Middleware) {
	router.Group("/api/v1/admin", func(r Router) {
		// User management and bulk provisioning.
		r.GET("/users", h.AdminUser.List)
		r.POST("/users", h.AdminUser.Create)
		r.POST("/users/bulk", h.AdminUser.BulkCreate)
		r.POST("/users/import", h.AdminUser.ImportCSV)
		r.GET("/users/import/template", h.AdminUser.ImportTemplate)
		r.POST("/users/bulk-delete", h.AdminUser.BulkDelete)
		r.POST("/users/bulk-resend", h.AdminUser.BulkResend)
		r.GET("/users/{id}", h.AdminUser.Get)
		r.DELETE("/users/{id}", h.AdminUser.Delete)
		r.PATCH("/users/{id}", h.AdminUser.Rename)
		r.PUT("/users/{id}/status", h.AdminUser.SetStatus)
		r.PUT("/users/{id}/role", h.AdminUser.ChangeRole)
		r.PUT("/users/{id}/processes", h.AdminUser.ReplaceGrants)
		r.POST("/users/{id}/resend-invitation", h.AdminUser.ResendInvitation)
		r.POST("/users/{id}/impersonate", h.AdminUser.Impersonate)

		// Process tree administration.
		r.GET("/processes/tree", h.Process.FullTree)
		r.PUT("/processes/tree", h.Process.ReplaceTree)

		// Settings.
		r.GET("/settings/smtp", h.Settings.GetSMTP)
		r.PUT("/settings/smtp", h.Settings.SaveSMTP)
		r.POST("/settings/smtp/test", h.Settings.TestSMTP)
		r.GET("/settings/templates", h.Settings.ListTemplates)
		r.PUT("/settings/templates", h.Settings.SaveTemplate)
		r.PUT("/settings/interface", h.Settings.SaveInterface)
		r.GET("/settings/email-log", h.Settings.ListEmailLog)

		// Audit trail and dashboard.
		r.GET("/audit", h.Audit.List)
		r.GET("/dashboard", h.Dashboard.Stats)
	}, requireAdmin)
}
