package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/laborhours/api/internal/app"
	"github.com/laborhours/api/internal/infra/http/middleware"
	"github.com/laborhours/api/pkg/apierror"
	"github.com/laborhours/api/pkg/domain/process"
	"github.com/laborhours/api/pkg/domain/response"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/logger"
	"github.com/laborhours/api/pkg/validator"
)

// ResponseHandler handles labor-hours recording and submission.
type ResponseHandler struct {
	responses *app.ResponseService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewResponseHandler creates a new ResponseHandler.
func NewResponseHandler(responses *app.ResponseService, log *logger.Logger) *ResponseHandler {
	return &ResponseHandler{
		responses: responses,
		validator: validator.New(),
		logger:    log.With("handler", "response"),
	}
}

// SaveResponseRequest is the request body for recording hours on one task.
type SaveResponseRequest struct {
	CategoryIndex string  `json:"category_index" validate:"required"`
	GroupIndex    string  `json:"group_index" validate:"required"`
	ActivityIndex string  `json:"activity_index" validate:"required"`
	TaskIndex     string  `json:"task_index" validate:"required"`
	SystemID      *string `json:"system_id"`
	Hours         float64 `json:"hours" validate:"gte=0"`
}

func (req SaveResponseRequest) toInput() (app.SaveInput, error) {
	input := app.SaveInput{
		Path: process.Path{
			Category: req.CategoryIndex,
			Group:    req.GroupIndex,
			Activity: req.ActivityIndex,
			Task:     req.TaskIndex,
		},
		Hours: req.Hours,
	}
	if req.SystemID != nil && *req.SystemID != "" {
		id, err := shared.IDFromString(*req.SystemID)
		if err != nil {
			return app.SaveInput{}, err
		}
		input.SystemID = &id
	}
	return input, nil
}

// Save records hours against one task, overwriting any previous value.
// @Summary      Save response
// @Tags         Responses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      SaveResponseRequest  true  "Hours for one task"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /responses [put]
func (h *ResponseHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req SaveResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		apierror.ValidationFailed("Validation failed", err).WriteJSON(w)
		return
	}

	input, err := req.toInput()
	if err != nil {
		apierror.BadRequest("invalid system id").WriteJSON(w)
		return
	}

	if err := h.responses.Save(r.Context(), userID, input); err != nil {
		h.handleError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Saved")
}

// SaveBatchRequest is the request body for saving several tasks at once.
type SaveBatchRequest struct {
	Responses []SaveResponseRequest `json:"responses" validate:"required,min=1,dive"`
}

// SaveBatch records hours for several tasks in one call.
// @Summary      Save responses in batch
// @Tags         Responses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      SaveBatchRequest  true  "Hours for several tasks"
// @Success      200  {object}  map[string]string
// @Router       /responses/batch [put]
func (h *ResponseHandler) SaveBatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req SaveBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		apierror.ValidationFailed("Validation failed", err).WriteJSON(w)
		return
	}

	inputs := make([]app.SaveInput, 0, len(req.Responses))
	for _, item := range req.Responses {
		input, err := item.toInput()
		if err != nil {
			apierror.BadRequest("invalid system id").WriteJSON(w)
			return
		}
		inputs = append(inputs, input)
	}

	if err := h.responses.SaveBatch(r.Context(), userID, inputs); err != nil {
		h.handleError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Saved")
}

// ResponseView is the JSON shape of one recorded response.
type ResponseView struct {
	CategoryIndex string  `json:"category_index"`
	GroupIndex    string  `json:"group_index"`
	ActivityIndex string  `json:"activity_index"`
	TaskIndex     string  `json:"task_index"`
	SystemID      *string `json:"system_id,omitempty"`
	Hours         float64 `json:"hours"`
	Submitted     bool    `json:"submitted"`
	SubmittedAt   *string `json:"submitted_at,omitempty"`
}

// MyResponsesResponse wraps the user's responses with the running total.
type MyResponsesResponse struct {
	Responses  []ResponseView `json:"responses"`
	TotalHours float64        `json:"total_hours"`
}

// ListMine returns the authenticated user's recorded responses.
// @Summary      List my responses
// @Tags         Responses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MyResponsesResponse
// @Router       /responses [get]
func (h *ResponseHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	rows, err := h.responses.ListMine(r.Context(), userID)
	if err != nil {
		apierror.InternalError(err).WriteJSON(w)
		return
	}

	views := make([]ResponseView, 0, len(rows))
	var total float64
	for _, row := range rows {
		view := ResponseView{
			CategoryIndex: row.Path().Category,
			GroupIndex:    row.Path().Group,
			ActivityIndex: row.Path().Activity,
			TaskIndex:     row.Path().Task,
			Hours:         row.Hours(),
			Submitted:     row.Submitted(),
		}
		if sid := row.SystemID(); sid != nil {
			s := sid.String()
			view.SystemID = &s
		}
		if at := row.SubmittedAt(); at != nil {
			s := at.UTC().Format(time.RFC3339)
			view.SubmittedAt = &s
		}
		views = append(views, view)
		total += row.Hours()
	}

	writeJSON(w, http.StatusOK, MyResponsesResponse{Responses: views, TotalHours: total})
}

// Submit finalizes the questionnaire. One-shot: once submitted, responses
// become read-only.
// @Summary      Submit questionnaire
// @Tags         Responses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /responses/submit [post]
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.responses.Submit(r.Context(), userID); err != nil {
		h.handleError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Questionnaire submitted")
}

func (h *ResponseHandler) currentUser(w http.ResponseWriter, r *http.Request) (shared.ID, bool) {
	userID, err := shared.IDFromString(middleware.GetUserID(r.Context()))
	if err != nil {
		apierror.Unauthorized("User not authenticated").WriteJSON(w)
		return shared.ID{}, false
	}
	return userID, true
}

func (h *ResponseHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, response.ErrAlreadySubmitted):
		apierror.Conflict("Responses have already been submitted").WriteJSON(w)
	case errors.Is(err, response.ErrNoHours):
		apierror.BadRequest("Total labor hours must be greater than zero").WriteJSON(w)
	case errors.Is(err, shared.ErrForbidden):
		apierror.Forbidden("Task is outside your process access").WriteJSON(w)
	case shared.IsValidation(err):
		apierror.BadRequest(err.Error()).WriteJSON(w)
	case shared.IsNotFound(err):
		apierror.NotFound("response").WriteJSON(w)
	default:
		h.logger.Error("response operation failed", "error", err)
		apierror.InternalError(err).WriteJSON(w)
	}
}
