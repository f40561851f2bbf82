package domain

import (
	"strings"
	"time"
)

// EmailCategory names the error type whose tickets require a subject line.
const EmailCategory = "Email"

// ErrorType is a catalog entry tickets are classified under.
type ErrorType struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RequiresSubject reports whether tickets of this type need a subject line.
func (e *ErrorType) RequiresSubject() bool {
	return e != nil && strings.EqualFold(strings.TrimSpace(e.Name), EmailCategory)
}

// AutomatedMessage is the canned resolution sent for first-time tickets of an error type.
type AutomatedMessage struct {
	ID          string
	ErrorTypeID string
	Message     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
