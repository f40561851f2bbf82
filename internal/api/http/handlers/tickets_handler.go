package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/helpline-ops/support-desk/internal/api/dto"
	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/service"
	apperrors "github.com/helpline-ops/support-desk/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), actorFrom(c), service.TicketDraft{
		UID:         req.UID,
		ErrorTypeID: req.ErrorTypeID,
		Description: req.Description,
		Comment:     req.Comment,
		Subject:     req.Subject,
		Attachment:  req.Attachment.ToAttachment(),
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.UserContext(), actorFrom(c), parseTicketQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	detail, err := h.service.GetTicket(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketDetailResponse{
		TicketResponse: dto.NewTicketResponse(detail.Ticket),
		AuditTrail:     dto.NewAuditLogResponses(detail.AuditTrail),
	}})
}

// UpdateTicket PATCH /tickets/:id. Unknown tickets are reported in the result, not as errors.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, ticket, err := h.service.UpdateTicket(c.UserContext(), actorFrom(c), c.Params("id"), domain.TicketPatch{
		Status:      req.Status,
		Comment:     req.Comment,
		Description: req.Description,
		Subject:     req.Subject,
		Attachment:  req.Attachment.ToAttachment(),
	})
	if err != nil {
		return err
	}
	resp := dto.UpdateTicketResponse{Result: string(result)}
	if ticket != nil {
		t := dto.NewTicketResponse(ticket)
		resp.Ticket = &t
	}
	return c.JSON(fiber.Map{"data": resp})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketQuery {
	query := service.TicketQuery{
		UID:         optionalQuery(c, "uid"),
		ErrorTypeID: optionalQuery(c, "error_type_id"),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			query.Statuses = append(query.Statuses, domain.TicketStatus(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	query.Limit, query.Offset = pageWindow(parseInt(c.Query("page"), 1), parseInt(c.Query("page_size"), defaultPageSize))
	return query
}
