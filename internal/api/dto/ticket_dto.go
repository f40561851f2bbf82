package dto

import (
	"time"

	"github.com/helpline-ops/support-desk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	UID         string             `json:"uid"`
	ErrorTypeID string             `json:"error_type_id"`
	Description string             `json:"description"`
	Comment     *string            `json:"comment"`
	Subject     *string            `json:"subject"`
	Attachment  *AttachmentPayload `json:"attachment"`
	OwnerID     string             `json:"owner_id"`
}

// UpdateTicketRequest payload. Absent fields are left unchanged.
type UpdateTicketRequest struct {
	Status      *domain.TicketStatus `json:"status"`
	Comment     *string              `json:"comment"`
	Description *string              `json:"description"`
	Subject     *string              `json:"subject"`
	Attachment  *AttachmentPayload   `json:"attachment"`
}

// AttachmentPayload is attachment metadata; content is stored elsewhere.
type AttachmentPayload struct {
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// TicketResponse represents a ticket.
type TicketResponse struct {
	ID               string              `json:"id"`
	UID              string              `json:"uid"`
	RepresentativeID string              `json:"representative_id"`
	Team             string              `json:"team"`
	ErrorTypeID      string              `json:"error_type_id"`
	Description      string              `json:"description"`
	Comment          *string             `json:"comment"`
	Subject          *string             `json:"subject"`
	Attachment       *AttachmentPayload  `json:"attachment"`
	Status           domain.TicketStatus `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// TicketDetailResponse adds the audit trail.
type TicketDetailResponse struct {
	TicketResponse
	AuditTrail []AuditLogResponse `json:"audit_trail"`
}

// UpdateTicketResponse reports what the update did.
type UpdateTicketResponse struct {
	Result string          `json:"result"`
	Ticket *TicketResponse `json:"ticket,omitempty"`
}

// AuditLogResponse is one audit entry.
type AuditLogResponse struct {
	ID        string             `json:"id"`
	TicketID  string             `json:"ticket_id"`
	UserID    string             `json:"user_id"`
	Action    domain.AuditAction `json:"action"`
	Detail    string             `json:"detail"`
	CreatedAt time.Time          `json:"created_at"`
}

// NewTicketResponse maps a ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:               t.ID,
		UID:              t.UID,
		RepresentativeID: t.RepresentativeID,
		Team:             t.Team,
		ErrorTypeID:      t.ErrorTypeID,
		Description:      t.Description,
		Comment:          t.Comment,
		Subject:          t.Subject,
		Status:           t.Status,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if t.Attachment != nil {
		resp.Attachment = &AttachmentPayload{Name: t.Attachment.Name, MimeType: t.Attachment.MimeType, SizeBytes: t.Attachment.SizeBytes}
	}
	return resp
}

// NewAuditLogResponses maps audit entries.
func NewAuditLogResponses(entries []domain.AuditLog) []AuditLogResponse {
	resp := make([]AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, AuditLogResponse{
			ID:        e.ID,
			TicketID:  e.TicketID,
			UserID:    e.UserID,
			Action:    e.Action,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt,
		})
	}
	return resp
}

// ToAttachment converts the payload into domain metadata.
func (a *AttachmentPayload) ToAttachment() *domain.Attachment {
	if a == nil {
		return nil
	}
	return &domain.Attachment{Name: a.Name, MimeType: a.MimeType, SizeBytes: a.SizeBytes}
}
