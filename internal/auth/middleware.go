package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/repository"
	apperrors "github.com/helpline-ops/support-desk/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// TeamHeader lets a representative switch the active team without re-login.
const TeamHeader = "X-Team"

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
	// Team is the session-selected team, from the team header or the token.
	Team string
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.ErrSessionInvalid
	}

	user, err := m.users.GetByID(c.UserContext(), claims.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrSessionInvalid
		}
		return apperrors.MapError(err)
	}

	team := strings.TrimSpace(c.Get(TeamHeader))
	if team == "" {
		team = claims.Team
	}
	c.Locals(principalKey, &Principal{User: user, Team: team})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
