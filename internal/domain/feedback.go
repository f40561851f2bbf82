package domain

import "time"

// Feedback is free text submitted by a representative.
type Feedback struct {
	ID        string
	UserID    string
	Message   string
	CreatedAt time.Time
}
