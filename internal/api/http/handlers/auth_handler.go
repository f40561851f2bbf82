package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpline-ops/support-desk/internal/api/dto"
	"github.com/helpline-ops/support-desk/internal/service"
	apperrors "github.com/helpline-ops/support-desk/pkg/util/errorutil"
)

// AuthHandler exposes login and password endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	user, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password, req.Team)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{Token: token, ExpiresAt: exp, User: dto.NewUserResponse(user)}})
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor := actorFrom(c)
	if actor.User == nil {
		return service.ErrSessionInvalid
	}
	team, _ := actor.ResolveTeam()
	return c.JSON(fiber.Map{"data": fiber.Map{"user": dto.NewUserResponse(actor.User), "team": team}})
}

// ChangePassword POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.auth.ChangePassword(c.UserContext(), actorFrom(c).User, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
