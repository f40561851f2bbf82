package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/events"
	"github.com/helpline-ops/support-desk/internal/persistence"
	"github.com/helpline-ops/support-desk/internal/repository"
	apperrors "github.com/helpline-ops/support-desk/pkg/util/errorutil"
)

// UpdateResult reports what an update call did. Missing sessions and tickets are
// tolerated no-ops rather than errors.
type UpdateResult string

const (
	UpdateApplied        UpdateResult = "applied"
	UpdateSessionMissing UpdateResult = "session_missing"
	UpdateTicketNotFound UpdateResult = "ticket_not_found"
)

// TicketService runs the ticket lifecycle: initial status rules, update side effects,
// and scoped queries.
type TicketService struct {
	store         repository.Store
	locker        persistence.Locker
	dispatcher    events.Dispatcher
	notifications *NotificationService
	audit         *AuditService
	logger        *zap.Logger
	nowFn         func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store         repository.Store
	Locker        persistence.Locker
	Dispatcher    events.Dispatcher
	Notifications *NotificationService
	Audit         *AuditService
	Logger        *zap.Logger
}

// TicketDraft describes ticket creation payload.
type TicketDraft struct {
	UID         string
	ErrorTypeID string
	Description string
	Comment     *string
	Subject     *string
	Attachment  *domain.Attachment
	// OwnerID lets a manager file on behalf of one of their reports.
	OwnerID string
}

// TicketQuery describes listing filters applied inside the caller's scope.
type TicketQuery struct {
	Statuses    []domain.TicketStatus
	UID         *string
	ErrorTypeID *string
	Limit       int
	Offset      int
}

// TicketDetail is a ticket with its audit trail.
type TicketDetail struct {
	Ticket     *domain.Ticket
	AuditTrail []domain.AuditLog
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	s := &TicketService{
		store:         deps.Store,
		locker:        deps.Locker,
		dispatcher:    deps.Dispatcher,
		notifications: deps.Notifications,
		audit:         deps.Audit,
		logger:        deps.Logger,
		nowFn:         time.Now,
	}
	if s.locker == nil {
		s.locker = persistence.NewLocalLocker()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.notifications == nil {
		s.notifications = NewNotificationService(deps.Store, s.logger)
	}
	if s.audit == nil {
		s.audit = NewAuditService(deps.Store)
	}
	return s
}

// CreateTicket files a new ticket and decides its initial status from the automated
// message catalog and the ticket history of the same uid and error type.
func (s *TicketService) CreateTicket(ctx context.Context, actor Actor, draft TicketDraft) (*domain.Ticket, error) {
	if actor.User == nil {
		return nil, ErrSessionInvalid
	}
	team, err := actor.ResolveTeam()
	if err != nil {
		return nil, err
	}

	uid := strings.TrimSpace(draft.UID)
	errorTypeID := strings.TrimSpace(draft.ErrorTypeID)
	description := strings.TrimSpace(draft.Description)
	if uid == "" || errorTypeID == "" || description == "" {
		return nil, apperrors.NewValidationError("uid, error_type_id and description required", nil)
	}
	errorType, err := s.store.ErrorTypes().GetByID(ctx, errorTypeID)
	if err != nil {
		return nil, mapNotFound(err, "error type", map[string]any{"error_type_id": errorTypeID})
	}
	if errorType.RequiresSubject() && (draft.Subject == nil || strings.TrimSpace(*draft.Subject) == "") {
		return nil, apperrors.NewValidationError("subject required for Email tickets", map[string]any{"error_type_id": errorTypeID})
	}
	ownerID, err := s.resolveOwner(ctx, actor, strings.TrimSpace(draft.OwnerID))
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, subjectLockKey(uid, errorTypeID))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	defer unlock()

	var ticket *domain.Ticket
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		status, automated, err := initialStatus(ctx, tx, uid, errorTypeID)
		if err != nil {
			return err
		}
		now := s.nowFn()
		ticket = &domain.Ticket{
			ID:               uuid.NewString(),
			UID:              uid,
			RepresentativeID: ownerID,
			Team:             team,
			ErrorTypeID:      errorTypeID,
			Description:      description,
			Comment:          trimmedOrNil(draft.Comment),
			Subject:          trimmedOrNil(draft.Subject),
			Attachment:       draft.Attachment,
			Status:           status,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := tx.Tickets().Create(ctx, ticket); err != nil {
			return err
		}

		switch status {
		case domain.TicketStatusEscalated:
			if err := s.emitAdmin(ctx, tx, ticket, resubmittedAdminMessage(ticket, errorType)); err != nil {
				return err
			}
			if err := s.emitSystem(ctx, tx, ticket, resubmittedSystemMessage(ticket)); err != nil {
				return err
			}
		case domain.TicketStatusClosed:
			if err := s.emitAdmin(ctx, tx, ticket, newTicketAdminMessage(ticket, errorType)); err != nil {
				return err
			}
			if err := s.emitSystem(ctx, tx, ticket, automated.Message); err != nil {
				return err
			}
		default:
			if err := s.emitAdmin(ctx, tx, ticket, newTicketAdminMessage(ticket, errorType)); err != nil {
				return err
			}
		}

		_, err = s.audit.Record(ctx, tx.AuditLogs(), ticket.ID, actor.UserID(), domain.AuditActionCreate, createAuditDetail(ticket))
		return err
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("uid", ticket.UID),
		zap.String("status", string(ticket.Status)),
		zap.String("actor_id", actor.UserID()))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.TicketCreatedPayload{
			UID:              ticket.UID,
			ErrorTypeID:      ticket.ErrorTypeID,
			RepresentativeID: ticket.RepresentativeID,
			Team:             ticket.Team,
			Status:           ticket.Status,
		},
	})
	return ticket, nil
}

// UpdateTicket applies patch to a ticket. At most one notification rule fires:
// a move into Escalated first, otherwise a move into Closed or Completed.
// Every applied update records exactly one audit entry.
func (s *TicketService) UpdateTicket(ctx context.Context, actor Actor, ticketID string, patch domain.TicketPatch) (UpdateResult, *domain.Ticket, error) {
	if actor.User == nil {
		return UpdateSessionMissing, nil, nil
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return "", nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *patch.Status})
	}
	ticketID = strings.TrimSpace(ticketID)

	unlock, err := s.locker.Lock(ctx, ticketLockKey(ticketID))
	if err != nil {
		return "", nil, apperrors.MapError(err)
	}
	defer unlock()

	result := UpdateApplied
	var (
		updated   *domain.Ticket
		oldStatus domain.TicketStatus
	)
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		ticket, err := tx.Tickets().GetByID(ctx, ticketID)
		if errors.Is(err, repository.ErrNotFound) {
			result = UpdateTicketNotFound
			return nil
		}
		if err != nil {
			return err
		}

		oldStatus = ticket.Status
		patch.Apply(ticket)
		now := s.nowFn()
		if now.Before(ticket.CreatedAt) {
			now = ticket.CreatedAt
		}
		ticket.UpdatedAt = now
		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return err
		}

		switch {
		case ticket.Status == domain.TicketStatusEscalated && oldStatus != domain.TicketStatusEscalated:
			if err := s.emitAdmin(ctx, tx, ticket, manualEscalationAdminMessage(ticket, actor.User)); err != nil {
				return err
			}
			if err := s.emitSystem(ctx, tx, ticket, manualEscalationSystemMessage(ticket)); err != nil {
				return err
			}
		case ticket.Status.IsResolved() && ticket.Status != oldStatus:
			if err := s.emitSystem(ctx, tx, ticket, resolutionSystemMessage(ticket)); err != nil {
				return err
			}
		}

		if _, err := s.audit.Record(ctx, tx.AuditLogs(), ticket.ID, actor.UserID(), domain.AuditActionUpdate, updateAuditDetail(oldStatus, ticket.Status)); err != nil {
			return err
		}
		updated = ticket
		return nil
	})
	if err != nil {
		return "", nil, apperrors.MapError(err)
	}
	if result != UpdateApplied {
		s.logger.Debug("ticket update skipped", zap.String("ticket_id", ticketID), zap.String("result", string(result)))
		return result, nil, nil
	}

	s.logger.Info("ticket updated",
		zap.String("ticket_id", updated.ID),
		zap.String("old_status", string(oldStatus)),
		zap.String("status", string(updated.Status)),
		zap.String("actor_id", actor.UserID()))
	payload := events.TicketUpdatedPayload{
		OldStatus:     oldStatus,
		NewStatus:     updated.Status,
		StatusChanged: oldStatus != updated.Status,
	}
	if updated.Comment != nil {
		payload.Comment = *updated.Comment
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: updated.ID,
		Actor:    eventActor(actor),
		Payload:  payload,
	})
	return UpdateApplied, updated, nil
}

// ListTickets returns tickets visible to the actor, newest first.
func (s *TicketService) ListTickets(ctx context.Context, actor Actor, query TicketQuery) ([]domain.Ticket, error) {
	owners, err := s.scopeOwnerIDs(ctx, actor)
	if err != nil {
		return nil, err
	}
	tickets, err := s.store.Tickets().List(ctx, repository.TicketFilter{
		RepresentativeIDs: owners,
		UID:               query.UID,
		ErrorTypeID:       query.ErrorTypeID,
		Statuses:          query.Statuses,
		Limit:             query.Limit,
		Offset:            query.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket returns a ticket visible to the actor together with its audit trail.
func (s *TicketService) GetTicket(ctx context.Context, actor Actor, ticketID string) (*TicketDetail, error) {
	owners, err := s.scopeOwnerIDs(ctx, actor)
	if err != nil {
		return nil, err
	}
	ticket, err := s.store.Tickets().GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapNotFound(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	if owners != nil && !contains(owners, ticket.RepresentativeID) {
		return nil, apperrors.NewForbidden("ticket outside your scope")
	}
	trail, err := s.audit.ListForTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	return &TicketDetail{Ticket: ticket, AuditTrail: trail}, nil
}

// KPIScope selects the ticket set a KPI is computed over.
type KPIScope string

const (
	KPIScopeGlobal KPIScope = "global"
	KPIScopeMine   KPIScope = "me"
	KPIScopeTeam   KPIScope = "team"
)

// KPIs computes dashboard figures for the requested scope.
func (s *TicketService) KPIs(ctx context.Context, actor Actor, scope KPIScope) (KPI, error) {
	if actor.User == nil {
		return KPI{}, ErrSessionInvalid
	}
	filter := repository.TicketFilter{}
	switch scope {
	case KPIScopeGlobal, "":
	case KPIScopeMine:
		filter.RepresentativeIDs = []string{actor.User.ID}
	case KPIScopeTeam:
		if !actor.User.Role.IsManager() {
			team, err := actor.ResolveTeam()
			if err != nil {
				return KPI{}, err
			}
			filter.Team = &team
			break
		}
		users, err := s.store.Users().List(ctx)
		if err != nil {
			return KPI{}, apperrors.MapError(err)
		}
		filter.RepresentativeIDs = managedOwnerIDs(actor.User.ID, users)
	default:
		return KPI{}, apperrors.NewValidationError("unknown KPI scope", map[string]any{"scope": scope})
	}
	tickets, err := s.store.Tickets().List(ctx, filter)
	if err != nil {
		return KPI{}, apperrors.MapError(err)
	}
	return ComputeKPIs(tickets), nil
}

// Descendants lists every user reporting to the actor.
func (s *TicketService) Descendants(ctx context.Context, actor Actor) ([]domain.User, error) {
	if actor.User == nil {
		return nil, ErrSessionInvalid
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ids := DescendantsOf(actor.User.ID, users)
	result := make([]domain.User, 0, len(ids))
	for _, u := range users {
		if _, ok := ids[u.ID]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

// managedOwnerIDs is the manager plus everyone reporting to them.
func managedOwnerIDs(managerID string, users []domain.User) []string {
	return append(SortedIDs(DescendantsOf(managerID, users)), managerID)
}

// scopeOwnerIDs returns the ticket owners the actor may see; nil means every owner.
func (s *TicketService) scopeOwnerIDs(ctx context.Context, actor Actor) ([]string, error) {
	if actor.User == nil {
		return nil, ErrSessionInvalid
	}
	switch {
	case actor.User.Role.IsReviewer():
		return nil, nil
	case actor.User.Role.IsManager():
		users, err := s.store.Users().List(ctx)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		return managedOwnerIDs(actor.User.ID, users), nil
	default:
		return []string{actor.User.ID}, nil
	}
}

func (s *TicketService) resolveOwner(ctx context.Context, actor Actor, ownerID string) (string, error) {
	if ownerID == "" || ownerID == actor.User.ID {
		return actor.User.ID, nil
	}
	if !actor.User.Role.IsManager() {
		return "", apperrors.NewForbidden("only managers may file tickets for another user")
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	if _, ok := DescendantsOf(actor.User.ID, users)[ownerID]; !ok {
		return "", apperrors.NewForbidden("owner does not report to you")
	}
	return ownerID, nil
}

func initialStatus(ctx context.Context, tx repository.Store, uid, errorTypeID string) (domain.TicketStatus, *domain.AutomatedMessage, error) {
	automated, err := tx.AutomatedMessages().FindByErrorType(ctx, errorTypeID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.TicketStatusInProgress, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	resubmitted, err := tx.Tickets().ExistsForSubject(ctx, uid, errorTypeID)
	if err != nil {
		return "", nil, err
	}
	if resubmitted {
		return domain.TicketStatusEscalated, automated, nil
	}
	return domain.TicketStatusClosed, automated, nil
}

func (s *TicketService) emitSystem(ctx context.Context, tx repository.Store, ticket *domain.Ticket, message string) error {
	n := s.notifications.MakeSystemNotification(ticket, message)
	return tx.SystemNotifications().Create(ctx, &n)
}

func (s *TicketService) emitAdmin(ctx context.Context, tx repository.Store, ticket *domain.Ticket, message string) error {
	n := s.notifications.MakeAdminNotification(ticket, message)
	return tx.AdminNotifications().Create(ctx, &n)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.nowFn()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func eventActor(actor Actor) events.Actor {
	if actor.User == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: actor.User.ID, Role: actor.User.Role}
}

func subjectLockKey(uid, errorTypeID string) string {
	return fmt.Sprintf("subject:%s:%s", uid, errorTypeID)
}

func ticketLockKey(ticketID string) string {
	return "ticket:" + ticketID
}

func trimmedOrNil(val *string) *string {
	if val == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
