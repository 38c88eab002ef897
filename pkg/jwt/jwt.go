// Package jwt provides token generation and validation for local auth.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when the token is invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
	// ErrEmptyUserID is returned when user_id is empty.
	ErrEmptyUserID = errors.New("user_id cannot be empty")
	// ErrInvalidTokenType is returned when token type is invalid.
	ErrInvalidTokenType = errors.New("invalid token type")
)

// TokenType represents the type of JWT token.
type TokenType string

const (
	// TokenTypeAccess is a short-lived access token.
	TokenTypeAccess TokenType = "access"
	// TokenTypeRefresh is a long-lived refresh token.
	TokenTypeRefresh TokenType = "refresh"
)

// Claims represents the JWT claims structure.
type Claims struct {
	UserID    string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role,omitempty"`
	IsAdmin   bool      `json:"admin,omitempty"`
	TokenType TokenType `json:"token_type,omitempty"`

	// ImpersonatorID is set when an administrator acts as another user;
	// it carries the real admin identity through the session for auditing.
	ImpersonatorID string `json:"impersonator_id,omitempty"`

	jwt.RegisteredClaims
}

// IsImpersonated reports whether the session was started by an admin on
// behalf of the user.
func (c *Claims) IsImpersonated() bool {
	return c.ImpersonatorID != ""
}

// TokenConfig holds configuration for token generation.
type TokenConfig struct {
	Secret               string
	Issuer               string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// TokenPair contains both access and refresh tokens.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Generator handles JWT token generation and validation.
type Generator struct {
	config TokenConfig
}

// NewGenerator creates a new token generator.
func NewGenerator(config TokenConfig) *Generator {
	return &Generator{config: config}
}

// Identity carries the user attributes embedded in tokens.
type Identity struct {
	UserID  string
	Email   string
	Name    string
	Role    string
	IsAdmin bool
}

// GenerateAccessToken creates a new access token.
func (g *Generator) GenerateAccessToken(id Identity) (string, time.Time, error) {
	return g.generateAccessToken(id, "")
}

// GenerateImpersonationToken creates an access token for the target user,
// stamped with the acting admin's ID.
func (g *Generator) GenerateImpersonationToken(target Identity, impersonatorID string) (string, time.Time, error) {
	if impersonatorID == "" {
		return "", time.Time{}, fmt.Errorf("%w: impersonator id is required", ErrInvalidToken)
	}
	return g.generateAccessToken(target, impersonatorID)
}

func (g *Generator) generateAccessToken(id Identity, impersonatorID string) (string, time.Time, error) {
	if id.UserID == "" {
		return "", time.Time{}, ErrEmptyUserID
	}

	now := time.Now()
	expiresAt := now.Add(g.config.AccessTokenDuration)

	claims := Claims{
		UserID:         id.UserID,
		Email:          id.Email,
		Name:           id.Name,
		Role:           id.Role,
		IsAdmin:        id.IsAdmin,
		TokenType:      TokenTypeAccess,
		ImpersonatorID: impersonatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.config.Issuer,
			Subject:   id.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(g.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signedToken, expiresAt, nil
}

// GenerateRefreshToken creates a new refresh token.
func (g *Generator) GenerateRefreshToken(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, ErrEmptyUserID
	}

	now := time.Now()
	expiresAt := now.Add(g.config.RefreshTokenDuration)

	claims := Claims{
		UserID:    userID,
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique jti so two refresh tokens for the same user never collide.
			ID:        uuid.New().String(),
			Issuer:    g.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(g.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signedToken, expiresAt, nil
}

// GenerateTokenPair creates both access and refresh tokens.
func (g *Generator) GenerateTokenPair(id Identity) (*TokenPair, error) {
	accessToken, expiresAt, err := g.GenerateAccessToken(id)
	if err != nil {
		return nil, err
	}

	refreshToken, _, err := g.GenerateRefreshToken(id.UserID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// ValidateToken validates the token and returns the claims.
func (g *Generator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(g.config.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateAccessToken validates an access token specifically.
func (g *Generator) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := g.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess && claims.TokenType != "" {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}

// ValidateRefreshToken validates a refresh token specifically.
func (g *Generator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	claims, err := g.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}
