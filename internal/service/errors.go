package service

import (
	"errors"
	"net/http"

	"github.com/helpline-ops/support-desk/internal/repository"
	apperrors "github.com/helpline-ops/support-desk/pkg/util/errorutil"
)

var (
	// ErrSessionInvalid means no acting identity could be resolved.
	ErrSessionInvalid = apperrors.ErrSessionInvalid
	// ErrTeamUnresolved means the acting user has no team to file the ticket under.
	ErrTeamUnresolved = apperrors.NewDomainError("TEAM_UNRESOLVED", "team could not be determined; select a team first", http.StatusUnprocessableEntity, nil)
)

func mapNotFound(err error, resource string, details map[string]any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, details)
	}
	return apperrors.MapError(err)
}
