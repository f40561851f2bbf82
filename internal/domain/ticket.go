package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusEscalated  TicketStatus = "ESCALATED"
	TicketStatusClosed     TicketStatus = "CLOSED"
	TicketStatusCompleted  TicketStatus = "COMPLETED"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusInProgress, TicketStatusEscalated, TicketStatusClosed, TicketStatusCompleted:
		return true
	}
	return false
}

// IsActive reports whether the ticket still needs attention.
func (s TicketStatus) IsActive() bool {
	return s == TicketStatusInProgress || s == TicketStatusEscalated
}

// IsResolved reports whether the ticket is closed or completed.
func (s TicketStatus) IsResolved() bool {
	return s == TicketStatusClosed || s == TicketStatusCompleted
}

// Label returns the human readable form used in notification text.
func (s TicketStatus) Label() string {
	switch s {
	case TicketStatusInProgress:
		return "In Progress"
	case TicketStatusEscalated:
		return "Escalated"
	case TicketStatusClosed:
		return "Closed"
	case TicketStatusCompleted:
		return "Completed"
	}
	return string(s)
}

// Attachment is file metadata only; content lives outside the system.
type Attachment struct {
	Name      string
	MimeType  string
	SizeBytes int64
}

// Ticket is the aggregate for a reported issue.
type Ticket struct {
	ID               string
	UID              string
	RepresentativeID string
	Team             string
	ErrorTypeID      string
	Description      string
	Comment          *string
	Subject          *string
	Attachment       *Attachment
	Status           TicketStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TicketPatch carries optional field changes. Present fields overwrite, nil fields are untouched.
type TicketPatch struct {
	Status      *TicketStatus
	Comment     *string
	Description *string
	Subject     *string
	Attachment  *Attachment
}

// Apply merges the patch into t.
func (p TicketPatch) Apply(t *Ticket) {
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Comment != nil {
		comment := *p.Comment
		t.Comment = &comment
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Subject != nil {
		subject := *p.Subject
		t.Subject = &subject
	}
	if p.Attachment != nil {
		att := *p.Attachment
		t.Attachment = &att
	}
}
