package domain

import "time"

// SystemNotification is addressed to a single representative.
type SystemNotification struct {
	ID        string
	UserID    string
	TicketID  string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

// AdminNotification is addressed to the admin/reviewer audience as a whole.
type AdminNotification struct {
	ID        string
	TicketID  string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
