package domain

import "time"

// Role enumerates the organizational roles a user can hold.
type Role string

const (
	RoleRepresentative Role = "REPRESENTATIVE"
	RoleAdmin          Role = "ADMIN"
	RoleDataReviewer   Role = "DATA_REVIEWER"
	RoleBranchManager  Role = "BRANCH_MANAGER"
	RoleAreaManager    Role = "AREA_MANAGER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleRepresentative, RoleAdmin, RoleDataReviewer, RoleBranchManager, RoleAreaManager:
		return true
	}
	return false
}

// IsManager reports whether the role owns a fixed team and subordinate reports.
func (r Role) IsManager() bool {
	return r == RoleBranchManager || r == RoleAreaManager
}

// IsReviewer reports whether the role belongs to the admin/reviewer audience.
func (r Role) IsReviewer() bool {
	return r == RoleAdmin || r == RoleDataReviewer
}

// User is an organization member. ManagerID is a weak reference forming reporting lines.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Team         *string
	ManagerID    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TeamName returns the profile team or an empty string.
func (u *User) TeamName() string {
	if u == nil || u.Team == nil {
		return ""
	}
	return *u.Team
}
