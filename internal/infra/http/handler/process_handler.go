package handler

import (
	"encoding/json"
	"net/http"

	"github.com/laborhours/api/internal/app"
	"github.com/laborhours/api/internal/infra/http/middleware"
	"github.com/laborhours/api/pkg/apierror"
	"github.com/laborhours/api/pkg/domain/process"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/logger"
)

// ProcessHandler serves the process reference tree and IT system catalog.
type ProcessHandler struct {
	processes *app.ProcessService
	logger    *logger.Logger
}

// NewProcessHandler creates a new ProcessHandler.
func NewProcessHandler(processes *app.ProcessService, log *logger.Logger) *ProcessHandler {
	return &ProcessHandler{
		processes: processes,
		logger:    log.With("handler", "process"),
	}
}

// MyTree returns the process tree filtered to the categories the
// authenticated user holds access to.
// @Summary      Get my process tree
// @Tags         Processes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  process.Tree
// @Router       /processes/tree [get]
func (h *ProcessHandler) MyTree(w http.ResponseWriter, r *http.Request) {
	userID, err := shared.IDFromString(middleware.GetUserID(r.Context()))
	if err != nil {
		apierror.Unauthorized("User not authenticated").WriteJSON(w)
		return
	}

	tree, err := h.processes.GetTreeForUser(r.Context(), userID)
	if err != nil {
		apierror.InternalError(err).WriteJSON(w)
		return
	}

	writeJSON(w, http.StatusOK, tree)
}

// FullTree returns the complete process tree, admin only.
// @Summary      Get full process tree
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  process.Tree
// @Router       /admin/processes/tree [get]
func (h *ProcessHandler) FullTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.processes.GetTree(r.Context())
	if err != nil {
		apierror.InternalError(err).WriteJSON(w)
		return
	}

	writeJSON(w, http.StatusOK, tree)
}

// ReplaceTree replaces the whole reference tree in one transaction.
// @Summary      Replace process tree
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      process.Tree  true  "New tree"
// @Success      200  {object}  map[string]string
// @Router       /admin/processes/tree [put]
func (h *ProcessHandler) ReplaceTree(w http.ResponseWriter, r *http.Request) {
	var tree process.Tree
	if err := json.NewDecoder(r.Body).Decode(&tree); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}
	if len(tree.Categories) == 0 {
		apierror.BadRequest("tree must contain at least one category").WriteJSON(w)
		return
	}

	if err := h.processes.ReplaceTree(r.Context(), tree); err != nil {
		if shared.IsValidation(err) {
			apierror.BadRequest(err.Error()).WriteJSON(w)
			return
		}
		apierror.InternalError(err).WriteJSON(w)
		return
	}

	writeMessage(w, http.StatusOK, "Process tree replaced")
}

// ListSystems returns the IT system catalog.
// @Summary      List IT systems
// @Tags         Processes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  process.System
// @Router       /processes/systems [get]
func (h *ProcessHandler) ListSystems(w http.ResponseWriter, r *http.Request) {
	systems, err := h.processes.ListSystems(r.Context())
	if err != nil {
		apierror.InternalError(err).WriteJSON(w)
		return
	}

	writeJSON(w, http.StatusOK, systems)
}
