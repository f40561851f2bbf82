package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/helpline-ops/support-desk/internal/domain"
)

// SystemNotificationRepository stores notifications addressed to one representative.
// Listings are newest-first.
type SystemNotificationRepository interface {
	Create(ctx context.Context, n *domain.SystemNotification) error
	GetByID(ctx context.Context, id string) (*domain.SystemNotification, error)
	// MarkRead sets the read flag and reports whether this call changed it.
	MarkRead(ctx context.Context, id string) (bool, error)
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.SystemNotification, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.SystemNotification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}

// AdminNotificationRepository stores notifications for the admin/reviewer audience.
// Listings are newest-first.
type AdminNotificationRepository interface {
	Create(ctx context.Context, n *domain.AdminNotification) error
	GetByID(ctx context.Context, id string) (*domain.AdminNotification, error)
	MarkRead(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, unreadOnly bool) ([]domain.AdminNotification, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.AdminNotification, error)
	CountUnread(ctx context.Context) (int, error)
}

type systemNotificationRepository struct {
	db DBTX
}

const systemNotificationColumns = `id, user_id, ticket_id, message, is_read, created_at`

func (r *systemNotificationRepository) Create(ctx context.Context, n *domain.SystemNotification) error {
	const query = `
        INSERT INTO system_notifications (` + systemNotificationColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.db.Exec(ctx, query, n.ID, n.UserID, n.TicketID, n.Message, n.IsRead, n.CreatedAt)
	return err
}

func (r *systemNotificationRepository) GetByID(ctx context.Context, id string) (*domain.SystemNotification, error) {
	query := `SELECT ` + systemNotificationColumns + ` FROM system_notifications WHERE id=$1`
	n, err := scanSystemNotification(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

func (r *systemNotificationRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	return markRead(ctx, r.db, "system_notifications", id)
}

func (r *systemNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.SystemNotification, error) {
	query := `SELECT ` + systemNotificationColumns + ` FROM system_notifications WHERE user_id=$1`
	if unreadOnly {
		query += ` AND is_read=FALSE`
	}
	query += ` ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *systemNotificationRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.SystemNotification, error) {
	query := `SELECT ` + systemNotificationColumns + ` FROM system_notifications WHERE ticket_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, ticketID)
}

func (r *systemNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM system_notifications WHERE user_id=$1 AND is_read=FALSE`, userID).Scan(&count)
	return count, err
}

func (r *systemNotificationRepository) list(ctx context.Context, query string, arg any) ([]domain.SystemNotification, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.SystemNotification{}
	for rows.Next() {
		n, err := scanSystemNotification(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *n)
	}
	return result, rows.Err()
}

func scanSystemNotification(row pgx.Row) (*domain.SystemNotification, error) {
	var n domain.SystemNotification
	if err := row.Scan(&n.ID, &n.UserID, &n.TicketID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

type adminNotificationRepository struct {
	db DBTX
}

const adminNotificationColumns = `id, ticket_id, message, is_read, created_at`

func (r *adminNotificationRepository) Create(ctx context.Context, n *domain.AdminNotification) error {
	const query = `
        INSERT INTO admin_notifications (` + adminNotificationColumns + `)
        VALUES ($1,$2,$3,$4,$5)`
	_, err := r.db.Exec(ctx, query, n.ID, n.TicketID, n.Message, n.IsRead, n.CreatedAt)
	return err
}

func (r *adminNotificationRepository) GetByID(ctx context.Context, id string) (*domain.AdminNotification, error) {
	query := `SELECT ` + adminNotificationColumns + ` FROM admin_notifications WHERE id=$1`
	n, err := scanAdminNotification(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

func (r *adminNotificationRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	return markRead(ctx, r.db, "admin_notifications", id)
}

func (r *adminNotificationRepository) List(ctx context.Context, unreadOnly bool) ([]domain.AdminNotification, error) {
	query := `SELECT ` + adminNotificationColumns + ` FROM admin_notifications`
	if unreadOnly {
		query += ` WHERE is_read=FALSE`
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectAdminNotifications(rows)
}

func (r *adminNotificationRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.AdminNotification, error) {
	query := `SELECT ` + adminNotificationColumns + ` FROM admin_notifications WHERE ticket_id=$1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	return collectAdminNotifications(rows)
}

func (r *adminNotificationRepository) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admin_notifications WHERE is_read=FALSE`).Scan(&count)
	return count, err
}

func collectAdminNotifications(rows pgx.Rows) ([]domain.AdminNotification, error) {
	defer rows.Close()
	result := []domain.AdminNotification{}
	for rows.Next() {
		n, err := scanAdminNotification(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *n)
	}
	return result, rows.Err()
}

func scanAdminNotification(row pgx.Row) (*domain.AdminNotification, error) {
	var n domain.AdminNotification
	if err := row.Scan(&n.ID, &n.TicketID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}
