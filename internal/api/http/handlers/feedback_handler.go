package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpline-ops/support-desk/internal/api/dto"
	"github.com/helpline-ops/support-desk/internal/service"
	apperrors "github.com/helpline-ops/support-desk/pkg/util/errorutil"
)

// FeedbackHandler collects and lists feedback.
type FeedbackHandler struct {
	service *service.FeedbackService
}

// NewFeedbackHandler constructs handler.
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: feedbackService}
}

// Submit POST /feedback.
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	fb, err := h.service.Submit(c.UserContext(), actorFrom(c).User, req.Message)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewFeedbackResponse(fb)})
}

// List GET /admin/feedback.
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.FeedbackResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.NewFeedbackResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}
