package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/laborhours/api/internal/app"
	infrahttp "github.com/laborhours/api/internal/infra/http"
	"github.com/laborhours/api/internal/infra/http/middleware"
	"github.com/laborhours/api/pkg/apierror"
	"github.com/laborhours/api/pkg/domain/audit"
	"github.com/laborhours/api/pkg/domain/provisioning"
	"github.com/laborhours/api/pkg/domain/role"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/domain/user"
	"github.com/laborhours/api/pkg/logger"
	"github.com/laborhours/api/pkg/pagination"
	"github.com/laborhours/api/pkg/parsers/usercsv"
	"github.com/laborhours/api/pkg/validator"
)

// maxImportFileSize caps the uploaded CSV at 5MB.
const maxImportFileSize = 5 << 20

// AdminUserHandler handles admin user management endpoints.
type AdminUserHandler struct {
	users       *app.UserService
	provisions  *app.ProvisionService
	invitations *app.InvitationService
	authService *app.AuthService
	auditor     *app.AuditService
	validator   *validator.Validator
	logger      *logger.Logger
}

// NewAdminUserHandler creates a new AdminUserHandler.
func NewAdminUserHandler(
	users *app.UserService,
	provisions *app.ProvisionService,
	invitations *app.InvitationService,
	authService *app.AuthService,
	auditor *app.AuditService,
	log *logger.Logger,
) *AdminUserHandler {
	return &AdminUserHandler{
		users:       users,
		provisions:  provisions,
		invitations: invitations,
		authService: authService,
		auditor:     auditor,
		validator:   validator.New(),
		logger:      log.With("handler", "admin_user"),
	}
}

// List returns a page of users.
// @Summary      List users
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        page      query  int     false  "Page number"
// @Param        per_page  query  int     false  "Page size"
// @Param        status    query  string  false  "Filter by status (active|inactive)"
// @Param        email     query  string  false  "Filter by email"
// @Param        sort      query  string  false  "Sort fields, e.g. -created_at,email"
// @Success      200  {object}  ListResponse[app.UserView]
// @Router       /admin/users [get]
func (h *AdminUserHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := user.Filter{}
	if s := r.URL.Query().Get("status"); s != "" {
		status := user.Status(s)
		if !status.IsValid() {
			apierror.BadRequest("invalid status filter").WriteJSON(w)
			return
		}
		filter = filter.WithStatus(status)
	}
	if email := r.URL.Query().Get("email"); email != "" {
		filter = filter.WithEmail(email)
	}
	if sortStr := r.URL.Query().Get("sort"); sortStr != "" {
		filter = filter.WithSort(pagination.NewSortOption(user.AllowedSortFields()).Parse(sortStr))
	}

	result, err := h.users.List(r.Context(), filter, parsePagination(r))
	if err != nil {
		apierror.InternalError(err).WriteJSON(w)
		return
	}

	writeJSON(w, http.StatusOK, NewListResponse(r, result))
}

// Get returns one user.
// @Summary      Get user
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  app.UserView
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [get]
func (h *AdminUserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	view, err := h.users.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// CreateUserRequest is the request body for creating a single user.
type CreateUserRequest struct {
	Email     string   `json:"email" validate:"required,email,max=255"`
	FullName  string   `json:"full_name" validate:"required,max=255"`
	Role      string   `json:"role" validate:"omitempty,oneof=admin user"`
	Processes []string `json:"processes"`
}

// CreateUserResponse returns the new account with its one-time password.
type CreateUserResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Create provisions a single user and queues the invitation email.
// @Summary      Create user
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateUserRequest  true  "New user"
// @Success      201  {object}  CreateUserResponse
// @Failure      409  {object}  map[string]string
// @Router       /admin/users [post]
func (h *AdminUserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		apierror.ValidationFailed("Validation failed", err).WriteJSON(w)
		return
	}

	userRole := role.Role(req.Role)
	if req.Role == "" {
		userRole = role.RoleUser
	}

	created, err := h.provisions.CreateUser(r.Context(), app.CreateUserInput{
		Email:     req.Email,
		FullName:  req.FullName,
		Role:      userRole,
		Processes: req.Processes,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	if err := h.invitations.Send(r.Context(), created.UserID, req.FullName, created.Password); err != nil {
		// The account exists either way; the admin can resend later.
		h.logger.Error("failed to queue invitation", "email", created.Email, "error", err)
	}

	h.record(r, audit.ActionCreateUser, "user", created.UserID.String(), map[string]any{
		"email": created.Email,
		"role":  userRole.String(),
	})

	writeJSON(w, http.StatusCreated, CreateUserResponse{
		UserID:   created.UserID.String(),
		Email:    created.Email,
		Password: created.Password,
	})
}

// BulkCreateRequest is the request body for bulk provisioning.
type BulkCreateRequest struct {
	Users []BulkCreateItem `json:"users" validate:"required,min=1,max=1000,dive"`
}

// BulkCreateItem is one row of a bulk provisioning batch.
type BulkCreateItem struct {
	Email     string   `json:"email" validate:"required,max=255"`
	FullName  string   `json:"full_name" validate:"required,max=255"`
	Processes []string `json:"processes"`
}

// BulkCreate provisions a batch of users and queues their invitations.
// Per-row failures land in the report, not in the HTTP status.
// @Summary      Bulk create users
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      BulkCreateRequest  true  "Batch of users"
// @Success      200  {object}  provisioning.CreateReport
// @Router       /admin/users/bulk [post]
func (h *AdminUserHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var req BulkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		apierror.ValidationFailed("Validation failed", err).WriteJSON(w)
		return
	}

	items := make([]provisioning.BatchItem, 0, len(req.Users))
	for _, u := range req.Users {
		items = append(items, provisioning.BatchItem{
			Email:     u.Email,
			FullName:  u.FullName,
			Processes: u.Processes,
		})
	}

	h.runBatch(w, r, items, nil)
}

// ImportCSV provisions users from an uploaded CSV file. The file layout is
// email,full_name,processes with the processes column holding a
// comma-separated list of category indexes.
// @Summary      Import users from CSV
// @Tags         Admin
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "CSV file"
// @Success      200  {object}  provisioning.CreateReport
// @Router       /admin/users/import [post]
func (h *AdminUserHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportFileSize); err != nil {
		apierror.BadRequest("Invalid multipart form").WriteJSON(w)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		apierror.BadRequest("file field is required").WriteJSON(w)
		return
	}
	defer file.Close()

	parser := usercsv.NewParser(nil)
	items, rowErrors, err := parser.Parse(file)
	if err != nil {
		switch {
		case errors.Is(err, usercsv.ErrEmptyFile):
			apierror.BadRequest("File contains no data rows").WriteJSON(w)
		case errors.Is(err, usercsv.ErrInvalidHeader):
			apierror.BadRequest(err.Error()).WriteJSON(w)
		case errors.Is(err, usercsv.ErrTooManyRows):
			apierror.BadRequest(err.Error()).WriteJSON(w)
		default:
			apierror.BadRequest("Failed to parse CSV file").WriteJSON(w)
		}
		return
	}

	h.runBatch(w, r, items, rowErrors)
}

// runBatch executes the provisioning batch, folds unparsable rows into the
// report and queues invitations for every created account.
func (h *AdminUserHandler) runBatch(w http.ResponseWriter, r *http.Request, items []provisioning.BatchItem, rowErrors []usercsv.RowError) {
	report, err := h.provisions.BulkCreateUsers(r.Context(), items)
	if err != nil {
		apierror.InternalError(err).WriteJSON(w)
		return
	}

	for _, re := range rowErrors {
		report.AddError("", "line "+strconv.Itoa(re.Line)+": "+re.Message)
	}
	report.Finalize()

	// Created entries carry the normalized address, so the lookup key must
	// be normalized the same way.
	names := make(map[string]string, len(items))
	for _, item := range items {
		names[provisioning.NormalizeEmail(item.Email)] = item.FullName
	}
	h.invitations.SendBatch(r.Context(), report.Results.Created, names)

	h.record(r, audit.ActionBulkCreateUsers, "user_batch", "", map[string]any{
		"total":      report.Summary.Total,
		"created":    report.Summary.Created,
		"duplicates": report.Summary.Duplicates,
		"errors":     report.Summary.Errors,
	})

	writeJSON(w, http.StatusOK, report)
}

// ImportTemplate serves the CSV template for bulk import.
// @Summary      Download import template
// @Tags         Admin
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200
// @Router       /admin/users/import/template [get]
func (h *AdminUserHandler) ImportTemplate(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="users_import_template.csv"`)
	if err := usercsv.WriteTemplate(w); err != nil {
		h.logger.Error("failed to write import template", "error", err)
	}
}

// BulkDeleteRequest is the request body for bulk deletion.
type BulkDeleteRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,max=1000"`
}

// BulkDelete removes a batch of users. A batch that would leave the system
// without an administrator is rejected whole with HTTP 400, the blocking
// admin IDs listed in the report.
// @Summary      Bulk delete users
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      BulkDeleteRequest  true  "User IDs"
// @Success      200  {object}  provisioning.DeleteReport
// @Failure      400  {object}  provisioning.DeleteReport
// @Router       /admin/users/bulk-delete [post]
func (h *AdminUserHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		apierror.ValidationFailed("Validation failed", err).WriteJSON(w)
		return
	}

	ids := make([]shared.ID, 0, len(req.UserIDs))
	for _, raw := range req.UserIDs {
		id, err := shared.IDFromString(raw)
		if err != nil {
			apierror.BadRequest("invalid user id: " + raw).WriteJSON(w)
			return
		}
		ids = append(ids, id)
	}

	report, err := h.provisions.BulkDeleteUsers(r.Context(), ids)
	if err != nil {
		apierror.InternalError(err).WriteJSON(w)
		return
	}

	h.record(r, audit.ActionBulkDeleteUsers, "user_batch", "", map[string]any{
		"total":   report.Summary.Total,
		"deleted": report.Summary.Deleted,
		"failed":  report.Summary.Failed,
		"blocked": report.Summary.Blocked,
	})

	// A guard rejection is a client error, not a partial result.
	status := http.StatusOK
	if !report.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, report)
}

// BulkResendRequest is the request body for bulk invitation resend.
type BulkResendRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,max=1000"`
}

// BulkResend rotates the temporary password and queues a fresh invitation
// for each user in the batch. Per-user failures land in the report.
// @Summary      Bulk resend invitations
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      BulkResendRequest  true  "User IDs"
// @Success      200  {object}  provisioning.ResendReport
// @Router       /admin/users/bulk-resend [post]
func (h *AdminUserHandler) BulkResend(w http.ResponseWriter, r *http.Request) {
	var req BulkResendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		apierror.ValidationFailed("Validation failed", err).WriteJSON(w)
		return
	}

	ids := make([]shared.ID, 0, len(req.UserIDs))
	for _, raw := range req.UserIDs {
		id, err := shared.IDFromString(raw)
		if err != nil {
			apierror.BadRequest("invalid user id: " + raw).WriteJSON(w)
			return
		}
		ids = append(ids, id)
	}

	report := h.invitations.ResendBatch(r.Context(), ids)

	h.record(r, audit.ActionBulkResend, "user_batch", "", map[string]any{
		"total":  report.Summary.Total,
		"sent":   report.Summary.Sent,
		"failed": report.Summary.Failed,
	})

	writeJSON(w, http.StatusOK, report)
}

// Delete removes one user.
// @Summary      Delete user
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *AdminUserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.provisions.DeleteUser(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	h.record(r, audit.ActionDeleteUser, "user", id.String(), nil)
	writeMessage(w, http.StatusOK, "User deleted")
}

// ResendInvitation rotates the user's temporary password and queues a fresh
// invitation email carrying it.
// @Summary      Resend invitation
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  map[string]string
// @Router       /admin/users/{id}/resend-invitation [post]
func (h *AdminUserHandler) ResendInvitation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.invitations.Resend(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	h.record(r, audit.ActionResendInvite, "user", id.String(), nil)
	writeMessage(w, http.StatusOK, "Invitation queued")
}

// RenameRequest is the request body for renaming a user.
type RenameRequest struct {
	FullName string `json:"full_name" validate:"required,max=255"`
}

// Rename updates the user's display name.
// @Summary      Rename user
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  map[string]string
// @Router       /admin/users/{id} [patch]
func (h *AdminUserHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		apierror.ValidationFailed("Validation failed", err).WriteJSON(w)
		return
	}

	if err := h.users.Rename(r.Context(), id, req.FullName); err != nil {
		h.handleError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "User updated")
}

// SetStatusRequest is the request body for activating or deactivating.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// SetStatus activates or deactivates a user.
// @Summary      Set user status
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  map[string]string
// @Router       /admin/users/{id}/status [put]
func (h *AdminUserHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		apierror.ValidationFailed("Validation failed", err).WriteJSON(w)
		return
	}

	if err := h.users.SetStatus(r.Context(), id, user.Status(req.Status)); err != nil {
		h.handleError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Status updated")
}

// ChangeRoleRequest is the request body for changing a user's role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

// ChangeRole changes a user's role. Promoting to admin grants every active
// process category; demoting the last admin is rejected.
// @Summary      Change user role
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/users/{id}/role [put]
func (h *AdminUserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		apierror.ValidationFailed("Validation failed", err).WriteJSON(w)
		return
	}

	if err := h.users.ChangeRole(r.Context(), id, role.Role(req.Role)); err != nil {
		h.handleError(w, err)
		return
	}

	h.record(r, audit.ActionUpdateRole, "user", id.String(), map[string]any{"role": req.Role})
	writeMessage(w, http.StatusOK, "Role updated")
}

// ReplaceGrantsRequest is the request body for replacing process access.
type ReplaceGrantsRequest struct {
	Processes []string `json:"processes" validate:"required"`
}

// ReplaceGrants replaces the user's process category access.
// @Summary      Replace process access
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  map[string]string
// @Router       /admin/users/{id}/processes [put]
func (h *AdminUserHandler) ReplaceGrants(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req ReplaceGrantsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	if err := h.users.ReplaceGrants(r.Context(), id, req.Processes); err != nil {
		h.handleError(w, err)
		return
	}

	h.record(r, audit.ActionUpdateAccess, "user", id.String(), map[string]any{
		"processes": req.Processes,
	})
	writeMessage(w, http.StatusOK, "Access updated")
}

// ImpersonateResponse carries the short-lived token for acting as a user.
type ImpersonateResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
}

// Impersonate issues an access token for the target user, stamped with the
// acting admin's ID.
// @Summary      Impersonate user
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  ImpersonateResponse
// @Router       /admin/users/{id}/impersonate [post]
func (h *AdminUserHandler) Impersonate(w http.ResponseWriter, r *http.Request) {
	targetID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	adminID, err := shared.IDFromString(middleware.GetUserID(r.Context()))
	if err != nil {
		apierror.Unauthorized("User not authenticated").WriteJSON(w)
		return
	}

	token, expiresAt, err := h.authService.Impersonate(r.Context(), adminID, targetID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.record(r, audit.ActionImpersonate, "user", targetID.String(), nil)

	writeJSON(w, http.StatusOK, ImpersonateResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
	})
}

// pathID parses the {id} path parameter, writing the error response itself.
func (h *AdminUserHandler) pathID(w http.ResponseWriter, r *http.Request) (shared.ID, bool) {
	id, err := shared.IDFromString(infrahttp.PathParam(r, "id"))
	if err != nil {
		apierror.BadRequest("invalid user id").WriteJSON(w)
		return shared.ID{}, false
	}
	return id, true
}

// record writes an audit entry for the acting admin.
func (h *AdminUserHandler) record(r *http.Request, action audit.Action, targetType, targetID string, details map[string]any) {
	actorID, err := shared.IDFromString(middleware.GetUserID(r.Context()))
	if err != nil {
		return
	}
	h.auditor.Record(r.Context(), actorID, middleware.GetEmail(r.Context()), action, targetType, targetID, details)
}

// handleError maps domain errors onto HTTP responses.
func (h *AdminUserHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, role.ErrLastAdmin):
		apierror.Conflict("Operation would remove the last administrator").WriteJSON(w)
	case shared.IsAlreadyExists(err):
		apierror.Conflict(err.Error()).WriteJSON(w)
	case shared.IsNotFound(err):
		apierror.NotFound("user").WriteJSON(w)
	case shared.IsValidation(err):
		apierror.BadRequest(err.Error()).WriteJSON(w)
	case errors.Is(err, shared.ErrForbidden):
		apierror.Forbidden("Operation not permitted").WriteJSON(w)
	default:
		h.logger.Error("admin user operation failed", "error", err)
		apierror.InternalError(err).WriteJSON(w)
	}
}
