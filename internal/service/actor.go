package service

import (
	"strings"

	"github.com/helpline-ops/support-desk/internal/domain"
)

// Actor is the resolved session: the acting user plus the team chosen after login.
type Actor struct {
	User *domain.User
	// Team is the session-selected team. Only representatives pick a team after login.
	Team string
}

// UserID returns the acting user's id or an empty string.
func (a Actor) UserID() string {
	if a.User == nil {
		return ""
	}
	return a.User.ID
}

// ResolveTeam returns the team a ticket filed by this actor belongs to.
// Managers are pinned to their profile team; representatives prefer the session team.
func (a Actor) ResolveTeam() (string, error) {
	if a.User == nil {
		return "", ErrSessionInvalid
	}
	team := ""
	switch {
	case a.User.Role.IsManager():
		team = a.User.TeamName()
	case a.User.Role == domain.RoleRepresentative:
		team = strings.TrimSpace(a.Team)
		if team == "" {
			team = a.User.TeamName()
		}
	default:
		team = a.User.TeamName()
	}
	team = strings.TrimSpace(team)
	if team == "" {
		return "", ErrTeamUnresolved
	}
	return team, nil
}
