package app

import (
	"context"
	"fmt"
	"time"

	"github.com/laborhours/api/internal/config"
	"github.com/laborhours/api/internal/metrics"
	"github.com/laborhours/api/pkg/domain/profile"
	"github.com/laborhours/api/pkg/domain/role"
	"github.com/laborhours/api/pkg/domain/shared"
	"github.com/laborhours/api/pkg/domain/user"
	"github.com/laborhours/api/pkg/jwt"
	"github.com/laborhours/api/pkg/logger"
)

// CredentialVerifier verifies and validates passwords.
type CredentialVerifier interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
	Validate(password string) error
}

// AuthService handles login, token refresh, password changes and admin
// impersonation.
type AuthService struct {
	users    user.Repository
	profiles profile.Repository
	roles    role.Repository
	tokens   *jwt.Generator
	hasher   CredentialVerifier
	cfg      *config.AuthConfig
	logger   *logger.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users user.Repository,
	profiles profile.Repository,
	roles role.Repository,
	tokens *jwt.Generator,
	hasher CredentialVerifier,
	cfg *config.AuthConfig,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		profiles: profiles,
		roles:    roles,
		tokens:   tokens,
		hasher:   hasher,
		cfg:      cfg,
		logger:   log.With("service", "auth"),
	}
}

// SessionUser is the authenticated account as exposed to clients.
type SessionUser struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	FullName           string `json:"full_name"`
	Role               string `json:"role"`
	IsAdmin            bool   `json:"is_admin"`
	MustChangePassword bool   `json:"must_change_password"`
}

// LoginResult carries the issued tokens and the session user.
type LoginResult struct {
	Tokens *jwt.TokenPair
	User   SessionUser
}

// Login authenticates by email and password. Failed attempts are counted
// per account and lock it out past the configured threshold; the lockout
// clears itself after the configured duration.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if shared.IsNotFound(err) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	if u.IsLocked() {
		metrics.LoginsTotal.WithLabelValues("locked").Inc()
		return nil, user.ErrAccountLocked
	}
	if !u.IsActive() {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, user.ErrUserInactive
	}

	if err := s.hasher.Verify(plaintext, u.PasswordHash()); err != nil {
		u.RecordFailedLogin(s.cfg.MaxLoginAttempts, s.cfg.LockoutDuration)
		if updateErr := s.users.Update(ctx, u); updateErr != nil {
			s.logger.Error("failed to record login failure", "user_id", u.ID(), "error", updateErr)
		}
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, user.ErrInvalidCredentials
	}

	u.RecordSuccessfulLogin()
	if err := s.users.Update(ctx, u); err != nil {
		s.logger.Error("failed to record login", "user_id", u.ID(), "error", err)
	}

	session, err := s.sessionUser(ctx, u)
	if err != nil {
		return nil, err
	}

	pair, err := s.tokens.GenerateTokenPair(identityOf(session))
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info("login", "user_id", u.ID(), "role", session.Role)
	return &LoginResult{Tokens: pair, User: session}, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := shared.IDFromString(claims.UserID)
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.CanLogin() {
		return nil, user.ErrUserInactive
	}

	session, err := s.sessionUser(ctx, u)
	if err != nil {
		return nil, err
	}

	pair, err := s.tokens.GenerateTokenPair(identityOf(session))
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return &LoginResult{Tokens: pair, User: session}, nil
}

// ChangePassword replaces the account password after verifying the current
// one. The new password must satisfy the policy; on success the
// change-on-first-login flag clears.
func (s *AuthService) ChangePassword(ctx context.Context, userID shared.ID, current, next string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.hasher.Verify(current, u.PasswordHash()); err != nil {
		return user.ErrInvalidCredentials
	}
	if err := s.hasher.Validate(next); err != nil {
		return fmt.Errorf("%w: %s", user.ErrPasswordTooWeak, err.Error())
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := u.SetPassword(hash); err != nil {
		return err
	}
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// Impersonate issues an access token for the target account, stamped with
// the administrator's identity. The token is short-lived and carries no
// refresh token.
func (s *AuthService) Impersonate(ctx context.Context, adminID, targetID shared.ID) (string, time.Time, error) {
	adminRole, err := s.roles.GetByUserID(ctx, adminID)
	if err != nil {
		return "", time.Time{}, err
	}
	if !adminRole.Role().IsAdmin() {
		return "", time.Time{}, shared.ErrForbidden
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return "", time.Time{}, err
	}

	session, err := s.sessionUser(ctx, target)
	if err != nil {
		return "", time.Time{}, err
	}

	token, expiresAt, err := s.tokens.GenerateImpersonationToken(identityOf(session), adminID.String())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to issue impersonation token: %w", err)
	}

	s.logger.Info("impersonation token issued", "admin_id", adminID, "target_id", targetID)
	return token, expiresAt, nil
}

// CurrentUser loads the session view of an account.
func (s *AuthService) CurrentUser(ctx context.Context, userID shared.ID) (*SessionUser, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	session, err := s.sessionUser(ctx, u)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *AuthService) sessionUser(ctx context.Context, u *user.User) (SessionUser, error) {
	p, err := s.profiles.GetByUserID(ctx, u.ID())
	if err != nil {
		return SessionUser{}, fmt.Errorf("failed to load profile: %w", err)
	}
	assignment, err := s.roles.GetByUserID(ctx, u.ID())
	if err != nil {
		return SessionUser{}, fmt.Errorf("failed to load role: %w", err)
	}

	return SessionUser{
		ID:                 u.ID().String(),
		Email:              u.Email(),
		FullName:           p.FullName(),
		Role:               assignment.Role().String(),
		IsAdmin:            assignment.Role().IsAdmin(),
		MustChangePassword: u.MustChangePassword(),
	}, nil
}

func identityOf(s SessionUser) jwt.Identity {
	return jwt.Identity{
		UserID:  s.ID,
		Email:   s.Email,
		Name:    s.FullName,
		Role:    s.Role,
		IsAdmin: s.IsAdmin,
	}
}
