package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/helpline-ops/support-desk/internal/api/dto"
	"github.com/helpline-ops/support-desk/internal/service"
)

// DashboardHandler serves KPI and reporting-line views.
type DashboardHandler struct {
	tickets *service.TicketService
	audit   *service.AuditService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(tickets *service.TicketService, audit *service.AuditService) *DashboardHandler {
	return &DashboardHandler{tickets: tickets, audit: audit}
}

// KPIs GET /dashboard/kpis?scope=global|me|team.
func (h *DashboardHandler) KPIs(c *fiber.Ctx) error {
	scope := service.KPIScope(strings.ToLower(strings.TrimSpace(c.Query("scope", string(service.KPIScopeGlobal)))))
	kpi, err := h.tickets.KPIs(c.UserContext(), actorFrom(c), scope)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": kpi, "scope": scope})
}

// Descendants GET /org/descendants.
func (h *DashboardHandler) Descendants(c *fiber.Ctx) error {
	users, err := h.tickets.Descendants(c.UserContext(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// RecentAudit GET /admin/audit-logs.
func (h *DashboardHandler) RecentAudit(c *fiber.Ctx) error {
	entries, err := h.audit.ListRecent(c.UserContext(), min(parseInt(c.Query("limit"), 50), 500))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAuditLogResponses(entries)})
}
