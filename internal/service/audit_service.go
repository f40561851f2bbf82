package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/repository"
	apperrors "github.com/helpline-ops/support-desk/pkg/util/errorutil"
)

// AuditService appends immutable audit entries. There is no update or delete.
type AuditService struct {
	store repository.Store
	nowFn func() time.Time
}

// NewAuditService creates the service.
func NewAuditService(store repository.Store) *AuditService {
	return &AuditService{store: store, nowFn: time.Now}
}

// Record appends one entry through logs, which is normally the audit repository of the
// transaction the audited write runs in.
func (a *AuditService) Record(ctx context.Context, logs repository.AuditLogRepository, ticketID, userID string, action domain.AuditAction, detail string) (*domain.AuditLog, error) {
	entry := &domain.AuditLog{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		CreatedAt: a.nowFn(),
	}
	if err := logs.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListForTicket returns a ticket's audit trail, oldest first.
func (a *AuditService) ListForTicket(ctx context.Context, ticketID string) ([]domain.AuditLog, error) {
	entries, err := a.store.AuditLogs().ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// ListRecent returns the most recent audit entries across all tickets.
func (a *AuditService) ListRecent(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	entries, err := a.store.AuditLogs().List(ctx, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}
