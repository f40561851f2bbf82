package dto

import (
	"time"

	"github.com/helpline-ops/support-desk/internal/domain"
)

// LoginRequest payload for login. Team is the working team a representative picks.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Team     string `json:"team"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserRequest is the admin create/update payload.
type UserRequest struct {
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      domain.Role `json:"role"`
	Team      *string     `json:"team"`
	ManagerID *string     `json:"manager_id"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Team      *string     `json:"team"`
	ManagerID *string     `json:"manager_id"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewUserResponse maps a user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Team:      u.Team,
		ManagerID: u.ManagerID,
		CreatedAt: u.CreatedAt,
	}
}

// NewUserResponses maps a user slice.
func NewUserResponses(users []domain.User) []UserResponse {
	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, NewUserResponse(&users[i]))
	}
	return resp
}
