package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/laborhours/api/internal/config"
)

// CookieConfig holds cookie configuration for authentication.
type CookieConfig struct {
	Secure                 bool
	Domain                 string
	SameSite               http.SameSite
	Path                   string
	AccessTokenCookieName  string
	RefreshTokenCookieName string
}

// NewCookieConfig creates a CookieConfig from AuthConfig.
func NewCookieConfig(cfg config.AuthConfig) CookieConfig {
	sameSite := http.SameSiteLaxMode
	switch strings.ToLower(cfg.CookieSameSite) {
	case "strict":
		sameSite = http.SameSiteStrictMode
	case "none":
		sameSite = http.SameSiteNoneMode
	case "lax":
		sameSite = http.SameSiteLaxMode
	}

	accessTokenCookieName := cfg.AccessTokenCookieName
	if accessTokenCookieName == "" {
		accessTokenCookieName = "auth_token"
	}

	refreshTokenCookieName := cfg.RefreshTokenCookieName
	if refreshTokenCookieName == "" {
		refreshTokenCookieName = "refresh_token"
	}

	return CookieConfig{
		Secure:                 cfg.CookieSecure,
		Domain:                 cfg.CookieDomain,
		SameSite:               sameSite,
		Path:                   "/", // root so the frontend can clear cookies
		AccessTokenCookieName:  accessTokenCookieName,
		RefreshTokenCookieName: refreshTokenCookieName,
	}
}

// SetAccessTokenCookie sets the access token in an httpOnly cookie for
// browser clients.
func SetAccessTokenCookie(w http.ResponseWriter, token string, expiresAt time.Time, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.AccessTokenCookieName,
		Value:    token,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: cfg.SameSite,
	})
}

// SetRefreshTokenCookie sets the refresh token in an httpOnly cookie.
// httpOnly keeps it out of reach of injected scripts.
func SetRefreshTokenCookie(w http.ResponseWriter, token string, expiresAt time.Time, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.RefreshTokenCookieName,
		Value:    token,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: cfg.SameSite,
	})
}

// ClearAuthCookies removes both token cookies.
func ClearAuthCookies(w http.ResponseWriter, cfg CookieConfig) {
	for _, name := range []string{cfg.AccessTokenCookieName, cfg.RefreshTokenCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     cfg.Path,
			Domain:   cfg.Domain,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			Secure:   cfg.Secure,
			HttpOnly: true,
			SameSite: cfg.SameSite,
		})
	}
}

// GetRefreshTokenFromCookie extracts the refresh token from the httpOnly
// cookie. Returns "" when the cookie is absent.
func GetRefreshTokenFromCookie(r *http.Request, cfg CookieConfig) string {
	cookie, err := r.Cookie(cfg.RefreshTokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
