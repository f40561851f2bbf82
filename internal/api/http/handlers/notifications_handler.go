package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpline-ops/support-desk/internal/api/dto"
	"github.com/helpline-ops/support-desk/internal/service"
)

// NotificationsHandler serves the representative feed and the reviewer feed.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// ListMine GET /notifications.
func (h *NotificationsHandler) ListMine(c *fiber.Ctx) error {
	actor := actorFrom(c)
	if actor.User == nil {
		return service.ErrSessionInvalid
	}
	rows, unread, err := h.service.ListForUser(c.UserContext(), actor.User.ID, parseBool(c.Query("unread")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NotificationListResponse{
		Items:  dto.NewSystemNotificationResponses(rows),
		Unread: unread,
	}})
}

// MarkMineRead POST /notifications/:id/read. Notifications owned by someone else read as not found.
func (h *NotificationsHandler) MarkMineRead(c *fiber.Ctx) error {
	actor := actorFrom(c)
	if actor.User == nil {
		return service.ErrSessionInvalid
	}
	id := c.Params("id")
	owns, err := h.service.OwnsSystemNotification(c.UserContext(), actor.User.ID, id)
	if err != nil {
		return err
	}
	result := service.MarkReadNotFound
	if owns {
		if result, err = h.service.MarkSystemNotificationRead(c.UserContext(), id); err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"data": dto.MarkReadResponse{Result: string(result)}})
}

// ListAdmin GET /admin/notifications.
func (h *NotificationsHandler) ListAdmin(c *fiber.Ctx) error {
	rows, unread, err := h.service.ListAdmin(c.UserContext(), parseBool(c.Query("unread")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NotificationListResponse{
		Items:  dto.NewAdminNotificationResponses(rows),
		Unread: unread,
	}})
}

// MarkAdminRead POST /admin/notifications/:id/read.
func (h *NotificationsHandler) MarkAdminRead(c *fiber.Ctx) error {
	result, err := h.service.MarkAdminNotificationRead(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.MarkReadResponse{Result: string(result)}})
}
