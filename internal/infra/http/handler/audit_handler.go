package handler

import (
	"net/http"
	"time"

	"github.com/laborhours/api/internal/app"
	"github.com/laborhours/api/pkg/apierror"
	"github.com/laborhours/api/pkg/domain/audit"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/logger"
)

// AuditHandler serves the admin action trail.
type AuditHandler struct {
	auditor *app.AuditService
	logger  *logger.Logger
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditor *app.AuditService, log *logger.Logger) *AuditHandler {
	return &AuditHandler{
		auditor: auditor,
		logger:  log.With("handler", "audit"),
	}
}

// List returns a page of audit entries, newest first.
// @Summary      List audit entries
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        page      query  int     false  "Page number"
// @Param        per_page  query  int     false  "Page size"
// @Param        actions   query  string  false  "Comma-separated actions"
// @Param        actor_id  query  string  false  "Actor user ID"
// @Param        since     query  string  false  "RFC3339 lower bound"
// @Param        until     query  string  false  "RFC3339 upper bound"
// @Success      200  {object}  ListResponse[app.EntryView]
// @Router       /admin/audit [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAuditFilter(r)
	if err != nil {
		apierror.BadRequest(err.Error()).WriteJSON(w)
		return
	}

	result, err := h.auditor.List(r.Context(), filter, parsePagination(r))
	if err != nil {
		h.logger.Error("failed to list audit entries", "error", err)
		apierror.InternalError(err).WriteJSON(w)
		return
	}

	writeJSON(w, http.StatusOK, NewListResponse(r, result))
}

func parseAuditFilter(r *http.Request) (audit.Filter, error) {
	var filter audit.Filter
	q := r.URL.Query()

	if names := parseQueryArray(q.Get("actions")); len(names) > 0 {
		actions := make([]audit.Action, 0, len(names))
		for _, name := range names {
			actions = append(actions, audit.Action(name))
		}
		filter = filter.WithActions(actions...)
	}
	if raw := q.Get("actor_id"); raw != "" {
		actorID, err := shared.IDFromString(raw)
		if err != nil {
			return audit.Filter{}, errInvalidParam("actor_id")
		}
		filter = filter.WithActorID(actorID)
	}
	if raw := q.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return audit.Filter{}, errInvalidParam("since")
		}
		filter = filter.WithSince(since)
	}
	if raw := q.Get("until"); raw != "" {
		until, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return audit.Filter{}, errInvalidParam("until")
		}
		filter = filter.WithUntil(until)
	}

	return filter, nil
}
