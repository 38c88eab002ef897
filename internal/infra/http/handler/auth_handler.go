package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/laborhours/api/internal/app"
	"github.com/laborhours/api/internal/config"
	"github.com/laborhours/api/internal/infra/http/middleware"
	"github.com/laborhours/api/pkg/apierror"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/domain/user"
	"github.com/laborhours/api/pkg/logger"
	"github.com/laborhours/api/pkg/validator"
)

// AuthHandler handles authentication requests.
type AuthHandler struct {
	authService  *app.AuthService
	authConfig   config.AuthConfig
	cookieConfig CookieConfig
	validator    *validator.Validator
	logger       *logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *app.AuthService, authConfig config.AuthConfig, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		authConfig:   authConfig,
		cookieConfig: NewCookieConfig(authConfig),
		validator:    validator.New(),
		logger:       log.With("handler", "auth"),
	}
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the response body for login and refresh.
// Both tokens are also set as httpOnly cookies for browser clients.
type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"`
	User         app.SessionUser `json:"user"`
}

// Login handles user login.
// @Summary      User login
// @Description  Authenticates a user and returns an access/refresh token pair
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Login credentials"
// @Success      200  {object}  LoginResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	if err := h.validator.Validate(req); err != nil {
		apierror.ValidationFailed("Validation failed", err).WriteJSON(w)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("login rejected", "email", req.Email, "ip", getClientIP(r))
		h.handleAuthError(w, err)
		return
	}

	h.writeTokens(w, result)
}

// RefreshRequest is the request body for token refresh.
// refresh_token can be omitted if sent via httpOnly cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a refresh token for a fresh pair.
// @Summary      Refresh token
// @Description  Issues a new access/refresh token pair
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Success      200  {object}  LoginResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	// Body is optional when the cookie is present.
	_ = json.NewDecoder(r.Body).Decode(&req)

	refreshToken := GetRefreshTokenFromCookie(r, h.cookieConfig)
	if refreshToken == "" {
		refreshToken = req.RefreshToken
	}
	if refreshToken == "" {
		apierror.BadRequest("refresh_token is required (in body or cookie)").WriteJSON(w)
		return
	}

	result, err := h.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.writeTokens(w, result)
}

// Logout clears the auth cookies. Tokens are stateless, so logout is a
// client-side affair; the endpoint exists so browsers lose their cookies.
// @Summary      User logout
// @Tags         Authentication
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ClearAuthCookies(w, h.cookieConfig)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// Me returns the authenticated user's profile.
// @Summary      Current user
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  app.SessionUser
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := shared.IDFromString(middleware.GetUserID(r.Context()))
	if err != nil {
		apierror.Unauthorized("User not authenticated").WriteJSON(w)
		return
	}

	session, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		if shared.IsNotFound(err) {
			apierror.Unauthorized("User no longer exists").WriteJSON(w)
			return
		}
		apierror.InternalError(err).WriteJSON(w)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// ChangePasswordRequest is the request body for changing password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// ChangePassword handles password change for authenticated users.
// @Summary      Change password
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ChangePasswordRequest  true  "Current and new password"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /users/me/change-password [post]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := shared.IDFromString(middleware.GetUserID(r.Context()))
	if err != nil {
		apierror.Unauthorized("User not authenticated").WriteJSON(w)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	if err := h.validator.Validate(req); err != nil {
		apierror.ValidationFailed("Validation failed", err).WriteJSON(w)
		return
	}

	if err := h.authService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.handleAuthError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Password changed successfully")
}

// writeTokens sets the token cookies and writes the login response.
func (h *AuthHandler) writeTokens(w http.ResponseWriter, result *app.LoginResult) {
	SetAccessTokenCookie(w, result.Tokens.AccessToken, result.Tokens.ExpiresAt, h.cookieConfig)

	refreshExpiresAt := time.Now().Add(h.authConfig.RefreshTokenDuration)
	SetRefreshTokenCookie(w, result.Tokens.RefreshToken, refreshExpiresAt, h.cookieConfig)

	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(h.authConfig.AccessTokenDuration.Seconds()),
		User:         result.User,
	})
}

// handleAuthError maps authentication errors onto HTTP responses.
func (h *AuthHandler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		apierror.Unauthorized("Invalid email or password").WriteJSON(w)
	case errors.Is(err, user.ErrAccountLocked):
		apierror.Forbidden("Account is locked due to too many failed attempts").WriteJSON(w)
	case errors.Is(err, user.ErrUserInactive):
		apierror.Forbidden("Account is deactivated").WriteJSON(w)
	case errors.Is(err, user.ErrPasswordTooWeak):
		apierror.BadRequest(err.Error()).WriteJSON(w)
	case shared.IsValidation(err):
		apierror.BadRequest(err.Error()).WriteJSON(w)
	case shared.IsNotFound(err):
		apierror.Unauthorized("Invalid email or password").WriteJSON(w)
	default:
		h.logger.Error("auth error", "error", err)
		apierror.InternalError(err).WriteJSON(w)
	}
}
