package dto

import (
	"time"

	"github.com/helpline-ops/support-desk/internal/domain"
)

// ErrorTypeRequest payload.
type ErrorTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorTypeResponse represents a catalog entry.
type ErrorTypeResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	RequiresSubject bool      `json:"requires_subject"`
	CreatedAt       time.Time `json:"created_at"`
}

// AutomatedMessageRequest payload.
type AutomatedMessageRequest struct {
	ErrorTypeID string `json:"error_type_id"`
	Message     string `json:"message"`
}

// AutomatedMessageResponse represents an automated message.
type AutomatedMessageResponse struct {
	ID          string    `json:"id"`
	ErrorTypeID string    `json:"error_type_id"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	Message string `json:"message"`
}

// FeedbackResponse represents stored feedback.
type FeedbackResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewErrorTypeResponse maps an error type.
func NewErrorTypeResponse(et *domain.ErrorType) ErrorTypeResponse {
	return ErrorTypeResponse{
		ID:              et.ID,
		Name:            et.Name,
		Description:     et.Description,
		RequiresSubject: et.RequiresSubject(),
		CreatedAt:       et.CreatedAt,
	}
}

// NewAutomatedMessageResponse maps an automated message.
func NewAutomatedMessageResponse(m *domain.AutomatedMessage) AutomatedMessageResponse {
	return AutomatedMessageResponse{
		ID:          m.ID,
		ErrorTypeID: m.ErrorTypeID,
		Message:     m.Message,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// NewFeedbackResponse maps feedback.
func NewFeedbackResponse(fb *domain.Feedback) FeedbackResponse {
	return FeedbackResponse{ID: fb.ID, UserID: fb.UserID, Message: fb.Message, CreatedAt: fb.CreatedAt}
}
