package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresStore struct {
	pool *pgxpool.Pool
	db   DBTX
}

// NewPostgresStore returns a Store backed by a pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool, db: pool}
}

func (s *postgresStore) Tickets() TicketRepository { return &ticketRepository{db: s.db} }
func (s *postgresStore) Users() UserRepository     { return &userRepository{db: s.db} }
func (s *postgresStore) ErrorTypes() ErrorTypeRepository {
	return &errorTypeRepository{db: s.db}
}
func (s *postgresStore) AutomatedMessages() AutomatedMessageRepository {
	return &automatedMessageRepository{db: s.db}
}
func (s *postgresStore) SystemNotifications() SystemNotificationRepository {
	return &systemNotificationRepository{db: s.db}
}
func (s *postgresStore) AdminNotifications() AdminNotificationRepository {
	return &adminNotificationRepository{db: s.db}
}
func (s *postgresStore) AuditLogs() AuditLogRepository { return &auditLogRepository{db: s.db} }
func (s *postgresStore) Feedback() FeedbackRepository  { return &feedbackRepository{db: s.db} }

func (s *postgresStore) WithinTx(ctx context.Context, fn func(Store) error) (err error) {
	if s.pool == nil {
		// already inside a transaction
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				err = errors.Join(err, rbErr)
			}
		}
	}()
	if err = fn(&postgresStore{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
