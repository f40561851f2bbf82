package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store groups the repositories the core depends on.
type Store interface {
	Tickets() TicketRepository
	Users() UserRepository
	ErrorTypes() ErrorTypeRepository
	AutomatedMessages() AutomatedMessageRepository
	SystemNotifications() SystemNotificationRepository
	AdminNotifications() AdminNotificationRepository
	AuditLogs() AuditLogRepository
	Feedback() FeedbackRepository

	// WithinTx runs fn against a transactional view of the store. Writes made
	// through the view commit together when fn returns nil and are discarded otherwise.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func requireAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// markRead flips is_read with a guarded update so only one caller observes the change.
// table is always one of the notification table names above.
func markRead(ctx context.Context, db DBTX, table, id string) (bool, error) {
	tag, err := db.Exec(ctx, `UPDATE `+table+` SET is_read=TRUE WHERE id=$1 AND is_read=FALSE`, id)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	var exists bool
	if err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id=$1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, ErrNotFound
	}
	return false, nil
}
