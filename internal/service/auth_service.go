package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/helpline-ops/support-desk/internal/auth"
	"github.com/helpline-ops/support-desk/internal/config"
	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/repository"
	apperrors "github.com/helpline-ops/support-desk/pkg/util/errorutil"
)

// AuthService coordinates login and password flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Login authenticates a user by email. team is the team a representative works under
// for this session; other roles may leave it empty.
func (s *AuthService) Login(ctx context.Context, email, password, team string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if auth.NeedsRehash(user.PasswordHash, s.bcryptCost) {
		// best effort; the old hash keeps working
		if hash, err := auth.HashPassword(password, s.bcryptCost); err == nil {
			user.PasswordHash = hash
			user.UpdatedAt = time.Now()
			_ = s.users.Update(ctx, user)
		}
	}
	team = strings.TrimSpace(team)
	if user.Role.IsManager() {
		team = user.TeamName()
	}
	token, exp, err := s.tokenMgr.GenerateToken(user, team)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, user *domain.User, currentPassword, newPassword string) error {
	if user == nil {
		return ErrSessionInvalid
	}
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password too short", map[string]any{"min_length": minPasswordLength})
	}
	stored, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return mapNotFound(err, "user", map[string]any{"user_id": user.ID})
	}
	if err := auth.ComparePassword(stored.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	stored.PasswordHash = hash
	stored.UpdatedAt = time.Now()
	return apperrors.MapError(s.users.Update(ctx, stored))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
