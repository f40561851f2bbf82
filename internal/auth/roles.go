package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/helpline-ops/support-desk/internal/domain"
)

// RequireRole ensures the principal has one of the allowed roles. No roles means any
// authenticated user.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// RequireReviewer admits the admin and data reviewer audience.
func RequireReviewer() fiber.Handler {
	return RequireRole(domain.RoleAdmin, domain.RoleDataReviewer)
}

// RequireManager admits branch and area managers.
func RequireManager() fiber.Handler {
	return RequireRole(domain.RoleBranchManager, domain.RoleAreaManager)
}
