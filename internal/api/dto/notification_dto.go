package dto

import (
	"time"

	"github.com/helpline-ops/support-desk/internal/domain"
)

// NotificationResponse covers both system and admin notifications.
type NotificationResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	UserID    string    `json:"user_id,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListResponse is a newest-first page plus the unread badge count.
type NotificationListResponse struct {
	Items  []NotificationResponse `json:"items"`
	Unread int                    `json:"unread"`
}

// MarkReadResponse reports the mark-read outcome.
type MarkReadResponse struct {
	Result string `json:"result"`
}

// NewSystemNotificationResponses maps system notifications.
func NewSystemNotificationResponses(rows []domain.SystemNotification) []NotificationResponse {
	resp := make([]NotificationResponse, 0, len(rows))
	for _, n := range rows {
		resp = append(resp, NotificationResponse{
			ID:        n.ID,
			TicketID:  n.TicketID,
			UserID:    n.UserID,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return resp
}

// NewAdminNotificationResponses maps admin notifications.
func NewAdminNotificationResponses(rows []domain.AdminNotification) []NotificationResponse {
	resp := make([]NotificationResponse, 0, len(rows))
	for _, n := range rows {
		resp = append(resp, NotificationResponse{
			ID:        n.ID,
			TicketID:  n.TicketID,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return resp
}
