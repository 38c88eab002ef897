package routes

// registerReportingRoutes registers the process tree, IT system catalog and
// labor-hours response endpoints for authenticated users.
func registerReportingRoutes(router Router, h Handlers, requireAuth Middleware) {
	router.Group("/api/v1/processes", func(r Router) {
		r.GET("/tree", h.Process.MyTree)
		r.GET("/systems", h.Process.ListSystems)
	}, requireAuth)

	router.Group("/api/v1/responses", func(r Router) {
		r.GET("/", h.Response.ListMine)
		r.PUT("/", h.Response.Save)
		r.PUT("/batch", h.Response.SaveBatch)
		r.POST("/submit", h.Response.Submit)
	}, requireAuth)
}
