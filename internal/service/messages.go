package service

import (
	"fmt"
	"strings"

	"github.com/helpline-ops/support-desk/internal/domain"
)

const noResolutionComment = "No additional comments were provided."

func newTicketAdminMessage(ticket *domain.Ticket, errorType *domain.ErrorType) string {
	return fmt.Sprintf("New %s ticket for UID %s submitted by team %s. Status: %s.",
		errorType.Name, ticket.UID, ticket.Team, ticket.Status.Label())
}

func resubmittedAdminMessage(ticket *domain.Ticket, errorType *domain.ErrorType) string {
	return fmt.Sprintf("Ticket for UID %s (%s) was re-submitted after an automated response and has been escalated.",
		ticket.UID, errorType.Name)
}

func resubmittedSystemMessage(ticket *domain.Ticket) string {
	return fmt.Sprintf("Your ticket for UID %s was re-submitted, so it has been escalated to the review team.", ticket.UID)
}

func manualEscalationAdminMessage(ticket *domain.Ticket, actor *domain.User) string {
	return fmt.Sprintf("Ticket for UID %s was manually escalated by %s.", ticket.UID, actor.Name)
}

func manualEscalationSystemMessage(ticket *domain.Ticket) string {
	return fmt.Sprintf("Your ticket for UID %s has been escalated for further review.", ticket.UID)
}

func resolutionSystemMessage(ticket *domain.Ticket) string {
	resolution := noResolutionComment
	if ticket.Comment != nil && strings.TrimSpace(*ticket.Comment) != "" {
		resolution = strings.TrimSpace(*ticket.Comment)
	}
	return fmt.Sprintf("Your ticket for UID %s has been marked %s. Resolution: %s",
		ticket.UID, ticket.Status.Label(), resolution)
}

func createAuditDetail(ticket *domain.Ticket) string {
	return fmt.Sprintf("Ticket created for UID %s with status %s", ticket.UID, ticket.Status.Label())
}

func updateAuditDetail(oldStatus, newStatus domain.TicketStatus) string {
	if oldStatus != newStatus {
		return fmt.Sprintf("Status changed to %s", newStatus.Label())
	}
	return "Ticket details updated"
}
