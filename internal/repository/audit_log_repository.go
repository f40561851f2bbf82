package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/helpline-ops/support-desk/internal/domain"
)

// AuditLogRepository is append-only.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *domain.AuditLog) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditLog, error)
	List(ctx context.Context, limit int) ([]domain.AuditLog, error)
}

type auditLogRepository struct {
	db DBTX
}

const auditLogColumns = `id, ticket_id, user_id, action, detail, created_at`

func (r *auditLogRepository) Append(ctx context.Context, entry *domain.AuditLog) error {
	const query = `
        INSERT INTO audit_logs (` + auditLogColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.TicketID,
		entry.UserID,
		entry.Action,
		entry.Detail,
		entry.CreatedAt,
	)
	return err
}

func (r *auditLogRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditLog, error) {
	query := `SELECT ` + auditLogColumns + ` FROM audit_logs WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	return collectAuditLogs(rows)
}

func (r *auditLogRepository) List(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`SELECT %s FROM audit_logs ORDER BY created_at DESC LIMIT %d`, auditLogColumns, limit)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectAuditLogs(rows)
}

func collectAuditLogs(rows pgx.Rows) ([]domain.AuditLog, error) {
	defer rows.Close()
	result := []domain.AuditLog{}
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.UserID,
			&entry.Action,
			&entry.Detail,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
