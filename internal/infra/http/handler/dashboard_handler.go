package handler

import (
	"net/http"

	"github.com/laborhours/api/internal/app"
	"github.com/laborhours/api/pkg/apierror"
	"github.com/laborhours/api/pkg/logger"
)

// DashboardHandler serves the admin dashboard counters.
type DashboardHandler struct {
	dashboard *app.DashboardService
	logger    *logger.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard *app.DashboardService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		logger:    log.With("handler", "dashboard"),
	}
}

// Stats returns the dashboard summary counters.
// @Summary      Dashboard statistics
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  app.Stats
// @Router       /admin/dashboard [get]
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.GetStats(r.Context())
	if err != nil {
		h.logger.Error("failed to collect dashboard stats", "error", err)
		apierror.InternalError(err).WriteJSON(w)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
