package domain

import "time"

// AuditAction captures the kind of lifecycle transition recorded.
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
)

// AuditLog is an immutable audit trail entry.
type AuditLog struct {
	ID        string
	TicketID  string
	UserID    string
	Action    AuditAction
	Detail    string
	CreatedAt time.Time
}
