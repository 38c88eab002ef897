package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/laborhours/api/internal/app"
	"github.com/laborhours/api/pkg/apierror"
	"github.com/laborhours/api/pkg/domain/settings"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/logger"
	"github.com/laborhours/api/pkg/validator"
)

// SettingsHandler handles admin-managed configuration: SMTP, email
// templates, interface branding and the email dispatch log.
type SettingsHandler struct {
	settings  *app.SettingsService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(svc *app.SettingsService, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		settings:  svc,
		validator: validator.New(),
		logger:    log.With("handler", "settings"),
	}
}

// SMTPRequest is the request body for saving or testing SMTP settings.
// An empty password keeps the stored one.
type SMTPRequest struct {
	Host      string `json:"host" validate:"required,max=255"`
	Port      int    `json:"port" validate:"required,min=1,max=65535"`
	Username  string `json:"username" validate:"max=255"`
	Password  string `json:"password" validate:"max=255"`
	FromEmail string `json:"from_email" validate:"required,email"`
	FromName  string `json:"from_name" validate:"max=255"`
	UseTLS    bool   `json:"use_tls"`
}

func (req SMTPRequest) toSettings() settings.SMTPSettings {
	return settings.SMTPSettings{
		Host:      req.Host,
		Port:      req.Port,
		Username:  req.Username,
		Password:  req.Password,
		FromEmail: req.FromEmail,
		FromName:  req.FromName,
		UseTLS:    req.UseTLS,
	}
}

// GetSMTP returns the mail delivery configuration. The password is never
// echoed back.
// @Summary      Get SMTP settings
// @Tags         Settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  settings.SMTPSettings
// @Router       /admin/settings/smtp [get]
func (h *SettingsHandler) GetSMTP(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settings.GetSMTP(r.Context())
	if err != nil {
		apierror.InternalError(err).WriteJSON(w)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// SaveSMTP stores the mail delivery configuration.
// @Summary      Save SMTP settings
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      SMTPRequest  true  "SMTP configuration"
// @Success      200  {object}  map[string]string
// @Router       /admin/settings/smtp [put]
func (h *SettingsHandler) SaveSMTP(w http.ResponseWriter, r *http.Request) {
	var req SMTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		apierror.ValidationFailed("Validation failed", err).WriteJSON(w)
		return
	}

	if err := h.settings.SaveSMTP(r.Context(), req.toSettings()); err != nil {
		h.handleError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "SMTP settings saved")
}

// TestSMTP verifies the given configuration by connecting to the server.
// @Summary      Test SMTP settings
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      SMTPRequest  true  "SMTP configuration"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /admin/settings/smtp/test [post]
func (h *SettingsHandler) TestSMTP(w http.ResponseWriter, r *http.Request) {
	var req SMTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		apierror.ValidationFailed("Validation failed", err).WriteJSON(w)
		return
	}

	if err := h.settings.TestSMTP(r.Context(), req.toSettings()); err != nil {
		apierror.New(http.StatusBadRequest, "SMTP_TEST_FAILED", err.Error()).WriteJSON(w)
		return
	}

	writeMessage(w, http.StatusOK, "SMTP connection verified")
}

// ListTemplates returns the email templates.
// @Summary      List email templates
// @Tags         Settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  settings.EmailTemplate
// @Router       /admin/settings/templates [get]
func (h *SettingsHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.settings.ListTemplates(r.Context())
	if err != nil {
		apierror.InternalError(err).WriteJSON(w)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

// TemplateRequest is the request body for saving an email template.
type TemplateRequest struct {
	ID      string `json:"id"`
	Type    string `json:"type" validate:"required,oneof=invitation reminder"`
	Subject string `json:"subject" validate:"required,max=500"`
	Body    string `json:"body" validate:"required"`
	Active  bool   `json:"is_active"`
}

// SaveTemplate creates or updates an email template.
// @Summary      Save email template
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      TemplateRequest  true  "Template"
// @Success      200  {object}  map[string]string
// @Router       /admin/settings/templates [put]
func (h *SettingsHandler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req TemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		apierror.ValidationFailed("Validation failed", err).WriteJSON(w)
		return
	}

	tmpl := settings.EmailTemplate{
		Type:    settings.TemplateType(req.Type),
		Subject: req.Subject,
		Body:    req.Body,
		Active:  req.Active,
	}
	if req.ID != "" {
		id, err := shared.IDFromString(req.ID)
		if err != nil {
			apierror.BadRequest("invalid template id").WriteJSON(w)
			return
		}
		tmpl.ID = id
	}

	if err := h.settings.SaveTemplate(r.Context(), tmpl); err != nil {
		h.handleError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Template saved")
}

// GetInterface returns the branding configuration. This endpoint is public:
// the login page needs it before authentication.
// @Summary      Get interface settings
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  settings.InterfaceSettings
// @Router       /settings/interface [get]
func (h *SettingsHandler) GetInterface(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settings.GetInterface(r.Context())
	if err != nil {
		apierror.InternalError(err).WriteJSON(w)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// InterfaceRequest is the request body for saving interface settings.
type InterfaceRequest struct {
	Title          string `json:"title" validate:"required,max=255"`
	PrimaryColor   string `json:"primary_color" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondary_color" validate:"omitempty,hexcolor"`
	LoginText      string `json:"login_text" validate:"max=2000"`
}

// SaveInterface stores the branding configuration.
// @Summary      Save interface settings
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      InterfaceRequest  true  "Branding"
// @Success      200  {object}  map[string]string
// @Router       /admin/settings/interface [put]
func (h *SettingsHandler) SaveInterface(w http.ResponseWriter, r *http.Request) {
	var req InterfaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		apierror.ValidationFailed("Validation failed", err).WriteJSON(w)
		return
	}

	if err := h.settings.SaveInterface(r.Context(), settings.InterfaceSettings{
		Title:          req.Title,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		LoginText:      req.LoginText,
	}); err != nil {
		h.handleError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Interface settings saved")
}

// ListEmailLog returns a page of the email dispatch log, newest first.
// @Summary      List email log
// @Tags         Settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ListResponse[settings.EmailLog]
// @Router       /admin/settings/email-log [get]
func (h *SettingsHandler) ListEmailLog(w http.ResponseWriter, r *http.Request) {
	result, err := h.settings.ListEmailLog(r.Context(), parsePagination(r))
	if err != nil {
		apierror.InternalError(err).WriteJSON(w)
		return
	}
	writeJSON(w, http.StatusOK, NewListResponse(r, result))
}

func (h *SettingsHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, settings.ErrSMTPNotConfigured):
		apierror.BadRequest("SMTP settings are not configured").WriteJSON(w)
	case shared.IsValidation(err):
		apierror.BadRequest(err.Error()).WriteJSON(w)
	case shared.IsNotFound(err):
		apierror.NotFound("settings").WriteJSON(w)
	default:
		h.logger.Error("settings operation failed", "error", err)
		apierror.InternalError(err).WriteJSON(w)
	}
}
