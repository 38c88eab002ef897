package routes

// registerAuthRoutes registers authentication and current-user endpoints.
func registerAuthRoutes(router Router, h Handlers, requireAuth Middleware) {
	router.Group("/api/v1/auth", func(r Router) {
		r.POST("/login", h.Auth.Login)
		r.POST("/refresh", h.Auth.Refresh)
		r.POST("/logout", h.Auth.Logout, requireAuth)
	})

	router.Group("/api/v1/users/me", func(r Router) {
		r.GET("/", h.Auth.Me)
		r.POST("/change-password", h.Auth.ChangePassword)
	}, requireAuth)

	// Branding is public: the login page needs it before authentication.
	router.GET("/api/v1/settings/interface", h.Settings.GetInterface)
}
