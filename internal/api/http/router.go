package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpline-ops/support-desk/internal/api/http/handlers"
	"github.com/helpline-ops/support-desk/internal/auth"
	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Notifications  *handlers.NotificationsHandler
	Dashboard      *handlers.DashboardHandler
	Feedback       *handlers.FeedbackHandler
	Admin          *handlers.AdminHandler
	Metrics        *observability.Metrics
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())
	protected.Get("/auth/me", cfg.Auth.Me)
	protected.Post("/auth/password/change", cfg.Auth.ChangePassword)

	protected.Post("/tickets", cfg.Tickets.CreateTicket)
	protected.Get("/tickets", cfg.Tickets.ListTickets)
	protected.Get("/tickets/:id", cfg.Tickets.GetTicket)
	protected.Patch("/tickets/:id", auth.RequireReviewer(), cfg.Tickets.UpdateTicket)

	protected.Get("/notifications", cfg.Notifications.ListMine)
	protected.Post("/notifications/:id/read", cfg.Notifications.MarkMineRead)

	protected.Get("/dashboard/kpis", cfg.Dashboard.KPIs)
	protected.Get("/org/descendants", auth.RequireManager(), cfg.Dashboard.Descendants)

	protected.Post("/feedback", cfg.Feedback.Submit)
	protected.Get("/error-types", cfg.Admin.ListErrorTypes)

	reviewer := protected.Group("/admin", auth.RequireReviewer())
	reviewer.Get("/notifications", cfg.Notifications.ListAdmin)
	reviewer.Post("/notifications/:id/read", cfg.Notifications.MarkAdminRead)
	reviewer.Get("/feedback", cfg.Feedback.List)
	reviewer.Get("/audit-logs", cfg.Dashboard.RecentAudit)
	reviewer.Get("/metrics", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": cfg.Metrics.Snapshot()})
	})

	admin := reviewer.Group("", auth.RequireRole(domain.RoleAdmin))
	admin.Post("/users", cfg.Admin.CreateUser)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Get("/users/:id", cfg.Admin.GetUser)
	admin.Put("/users/:id", cfg.Admin.UpdateUser)
	admin.Delete("/users/:id", cfg.Admin.DeleteUser)
	admin.Post("/error-types", cfg.Admin.CreateErrorType)
	admin.Put("/error-types/:id", cfg.Admin.UpdateErrorType)
	admin.Delete("/error-types/:id", cfg.Admin.DeleteErrorType)
	admin.Get("/automated-messages", cfg.Admin.ListAutomatedMessages)
	admin.Post("/automated-messages", cfg.Admin.CreateAutomatedMessage)
	admin.Put("/automated-messages/:id", cfg.Admin.UpdateAutomatedMessage)
	admin.Delete("/automated-messages/:id", cfg.Admin.DeleteAutomatedMessage)
}
