package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helpline-ops/support-desk/internal/domain"
	"github.com/helpline-ops/support-desk/internal/repository"
	apperrors "github.com/helpline-ops/support-desk/pkg/util/errorutil"
)

// MarkReadResult reports what a mark-read call did.
type MarkReadResult string

const (
	MarkReadMarked      MarkReadResult = "marked"
	MarkReadAlreadyRead MarkReadResult = "already_read"
	MarkReadNotFound    MarkReadResult = "not_found"
)

// NotificationService builds notification records and manages their read state.
type NotificationService struct {
	store  repository.Store
	logger *zap.Logger
	nowFn  func() time.Time
}

// NewNotificationService creates the service.
func NewNotificationService(store repository.Store, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{store: store, logger: logger, nowFn: time.Now}
}

// MakeSystemNotification returns a new unread notification for the ticket owner.
func (n *NotificationService) MakeSystemNotification(ticket *domain.Ticket, message string) domain.SystemNotification {
	return domain.SystemNotification{
		ID:        uuid.NewString(),
		UserID:    ticket.RepresentativeID,
		TicketID:  ticket.ID,
		Message:   message,
		CreatedAt: n.nowFn(),
	}
}

// MakeAdminNotification returns a new unread notification for the reviewer audience.
func (n *NotificationService) MakeAdminNotification(ticket *domain.Ticket, message string) domain.AdminNotification {
	return domain.AdminNotification{
		ID:        uuid.NewString(),
		TicketID:  ticket.ID,
		Message:   message,
		CreatedAt: n.nowFn(),
	}
}

// MarkSystemNotificationRead marks a notification read. Unknown ids and repeated calls are no-ops.
func (n *NotificationService) MarkSystemNotificationRead(ctx context.Context, id string) (MarkReadResult, error) {
	id = strings.TrimSpace(id)
	changed, err := n.store.SystemNotifications().MarkRead(ctx, id)
	if err != nil {
		return n.missing(err)
	}
	if !changed {
		return MarkReadAlreadyRead, nil
	}
	return MarkReadMarked, nil
}

// MarkAdminNotificationRead marks an admin notification read with the same tolerance.
func (n *NotificationService) MarkAdminNotificationRead(ctx context.Context, id string) (MarkReadResult, error) {
	id = strings.TrimSpace(id)
	changed, err := n.store.AdminNotifications().MarkRead(ctx, id)
	if err != nil {
		return n.missing(err)
	}
	if !changed {
		return MarkReadAlreadyRead, nil
	}
	return MarkReadMarked, nil
}

// OwnsSystemNotification reports whether the notification is addressed to userID.
func (n *NotificationService) OwnsSystemNotification(ctx context.Context, userID, id string) (bool, error) {
	row, err := n.store.SystemNotifications().GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.MapError(err)
	}
	return row.UserID == userID, nil
}

// ListForUser returns a representative's notifications, newest first, plus the unread count.
func (n *NotificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.SystemNotification, int, error) {
	rows, err := n.store.SystemNotifications().ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	unread, err := n.store.SystemNotifications().CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return rows, unread, nil
}

// ListAdmin returns admin notifications, newest first, plus the unread count.
func (n *NotificationService) ListAdmin(ctx context.Context, unreadOnly bool) ([]domain.AdminNotification, int, error) {
	rows, err := n.store.AdminNotifications().List(ctx, unreadOnly)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	unread, err := n.store.AdminNotifications().CountUnread(ctx)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return rows, unread, nil
}

func (n *NotificationService) missing(err error) (MarkReadResult, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return MarkReadNotFound, nil
	}
	return "", apperrors.MapError(err)
}
