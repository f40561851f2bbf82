package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpline-ops/support-desk/internal/api/dto"
	"github.com/helpline-ops/support-desk/internal/service"
	apperrors "github.com/helpline-ops/support-desk/pkg/util/errorutil"
)

// AdminHandler exposes reference-data management.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{service: adminService}
}

// CreateUser POST /admin/users.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.CreateUser(c.UserContext(), actorFrom(c).User, userInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext(), actorFrom(c).User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// GetUser GET /admin/users/:id.
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.UserContext(), actorFrom(c).User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateUser PUT /admin/users/:id.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.UpdateUser(c.UserContext(), actorFrom(c).User, c.Params("id"), userInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// DeleteUser DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.UserContext(), actorFrom(c).User, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListErrorTypes GET /error-types.
func (h *AdminHandler) ListErrorTypes(c *fiber.Ctx) error {
	types, err := h.service.ListErrorTypes(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.ErrorTypeResponse, 0, len(types))
	for i := range types {
		resp = append(resp, dto.NewErrorTypeResponse(&types[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateErrorType POST /admin/error-types.
func (h *AdminHandler) CreateErrorType(c *fiber.Ctx) error {
	var req dto.ErrorTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	et, err := h.service.CreateErrorType(c.UserContext(), actorFrom(c).User, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewErrorTypeResponse(et)})
}

// UpdateErrorType PUT /admin/error-types/:id.
func (h *AdminHandler) UpdateErrorType(c *fiber.Ctx) error {
	var req dto.ErrorTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	et, err := h.service.UpdateErrorType(c.UserContext(), actorFrom(c).User, c.Params("id"), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewErrorTypeResponse(et)})
}

// DeleteErrorType DELETE /admin/error-types/:id.
func (h *AdminHandler) DeleteErrorType(c *fiber.Ctx) error {
	if err := h.service.DeleteErrorType(c.UserContext(), actorFrom(c).User, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAutomatedMessages GET /admin/automated-messages.
func (h *AdminHandler) ListAutomatedMessages(c *fiber.Ctx) error {
	msgs, err := h.service.ListAutomatedMessages(c.UserContext(), actorFrom(c).User)
	if err != nil {
		return err
	}
	resp := make([]dto.AutomatedMessageResponse, 0, len(msgs))
	for i := range msgs {
		resp = append(resp, dto.NewAutomatedMessageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateAutomatedMessage POST /admin/automated-messages.
func (h *AdminHandler) CreateAutomatedMessage(c *fiber.Ctx) error {
	var req dto.AutomatedMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.service.CreateAutomatedMessage(c.UserContext(), actorFrom(c).User, req.ErrorTypeID, req.Message)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAutomatedMessageResponse(msg)})
}

// UpdateAutomatedMessage PUT /admin/automated-messages/:id.
func (h *AdminHandler) UpdateAutomatedMessage(c *fiber.Ctx) error {
	var req dto.AutomatedMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.service.UpdateAutomatedMessage(c.UserContext(), actorFrom(c).User, c.Params("id"), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAutomatedMessageResponse(msg)})
}

// DeleteAutomatedMessage DELETE /admin/automated-messages/:id.
func (h *AdminHandler) DeleteAutomatedMessage(c *fiber.Ctx) error {
	if err := h.service.DeleteAutomatedMessage(c.UserContext(), actorFrom(c).User, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func userInput(req dto.UserRequest) service.UserInput {
	return service.UserInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Team:      req.Team,
		ManagerID: req.ManagerID,
	}
}
