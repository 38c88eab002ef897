package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/laborhours/api/pkg/apierror"
	"github.com/laborhours/api/pkg/jwt"
	"github.com/laborhours/api/pkg/logger"
)

type contextKey string

// claimsKey holds the validated token claims for the current request.
const claimsKey contextKey = "auth_claims"

// Authenticator validates access tokens from the Authorization header or the
// auth cookie and stores the claims in the request context.
type Authenticator struct {
	tokens     *jwt.Generator
	cookieName string
	logger     *logger.Logger
}

// NewAuthenticator creates an Authenticator. cookieName is the httpOnly
// cookie carrying the access token for browser clients; the Authorization
// header always wins when both are present.
func NewAuthenticator(tokens *jwt.Generator, cookieName string, log *logger.Logger) *Authenticator {
	if cookieName == "" {
		cookieName = "auth_token"
	}
	return &Authenticator{
		tokens:     tokens,
		cookieName: cookieName,
		logger:     log.With("middleware", "auth"),
	}
}

// RequireAuth rejects requests without a valid access token.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := a.extractToken(r)
		if token == "" {
			apierror.Unauthorized("missing credentials").WriteJSON(w)
			return
		}

		claims, err := a.tokens.ValidateAccessToken(token)
		if err != nil {
			a.logger.Debug("token rejected", "error", err, "path", r.URL.Path)
			apierror.Unauthorized("invalid or expired token").WriteJSON(w)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests whose token does not carry the admin role.
// Must be mounted after RequireAuth.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		if claims == nil {
			apierror.Unauthorized("missing credentials").WriteJSON(w)
			return
		}
		if !claims.IsAdmin {
			apierror.Forbidden("administrator role required").WriteJSON(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(a.cookieName); err == nil {
		return c.Value
	}
	return ""
}

// GetClaims returns the validated token claims, or nil outside RequireAuth.
func GetClaims(ctx context.Context) *jwt.Claims {
	claims, _ := ctx.Value(claimsKey).(*jwt.Claims)
	return claims
}

// GetUserID returns the authenticated user's ID, or "" when anonymous.
func GetUserID(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

// GetEmail returns the authenticated user's email, or "".
func GetEmail(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.Email
	}
	return ""
}

// IsAdmin reports whether the current token carries the admin role.
func IsAdmin(ctx context.Context) bool {
	claims := GetClaims(ctx)
	return claims != nil && claims.IsAdmin
}
