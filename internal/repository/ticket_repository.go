package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/helpline-ops/support-desk/internal/domain"
)

// TicketFilter narrows ticket listings. A non-nil empty RepresentativeIDs matches nothing.
type TicketFilter struct {
	RepresentativeIDs []string
	Team              *string
	UID               *string
	ErrorTypeID       *string
	Statuses          []domain.TicketStatus
	Limit             int
	Offset            int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	ExistsForSubject(ctx context.Context, uid, errorTypeID string) (bool, error)
}

type ticketRepository struct {
	db DBTX
}

const ticketColumns = `id, uid, representative_id, team, error_type_id, description, comment, subject,
               attachment_name, attachment_type, attachment_size, status, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (` + ticketColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	name, mime, size := attachmentColumns(ticket.Attachment)
	_, err := r.db.Exec(ctx, query,
		ticket.ID,
		ticket.UID,
		ticket.RepresentativeID,
		ticket.Team,
		ticket.ErrorTypeID,
		ticket.Description,
		ticket.Comment,
		ticket.Subject,
		name,
		mime,
		size,
		ticket.Status,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	return err
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET description=$1, comment=$2, subject=$3, attachment_name=$4,
            attachment_type=$5, attachment_size=$6, status=$7, updated_at=$8
        WHERE id=$9`
	name, mime, size := attachmentColumns(ticket.Attachment)
	return requireAffected(r.db.Exec(ctx, query,
		ticket.Description,
		ticket.Comment,
		ticket.Subject,
		name,
		mime,
		size,
		ticket.Status,
		ticket.UpdatedAt,
		ticket.ID,
	))
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	ticket, err := scanTicket(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return ticket, nil
}

func (r *ticketRepository) ExistsForSubject(ctx context.Context, uid, errorTypeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tickets WHERE uid=$1 AND error_type_id=$2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, uid, errorTypeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RepresentativeIDs != nil {
		if len(filter.RepresentativeIDs) == 0 {
			return []domain.Ticket{}, nil
		}
		args = append(args, filter.RepresentativeIDs)
		clauses = append(clauses, fmt.Sprintf("representative_id = ANY($%d)", len(args)))
	}
	if filter.Team != nil {
		args = append(args, *filter.Team)
		clauses = append(clauses, fmt.Sprintf("team=$%d", len(args)))
	}
	if filter.UID != nil {
		args = append(args, *filter.UID)
		clauses = append(clauses, fmt.Sprintf("uid=$%d", len(args)))
	}
	if filter.ErrorTypeID != nil {
		args = append(args, *filter.ErrorTypeID)
		clauses = append(clauses, fmt.Sprintf("error_type_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC`,
		ticketColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket domain.Ticket
		name   *string
		mime   *string
		size   *int64
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.UID,
		&ticket.RepresentativeID,
		&ticket.Team,
		&ticket.ErrorTypeID,
		&ticket.Description,
		&ticket.Comment,
		&ticket.Subject,
		&name,
		&mime,
		&size,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if name != nil {
		ticket.Attachment = &domain.Attachment{Name: *name}
		if mime != nil {
			ticket.Attachment.MimeType = *mime
		}
		if size != nil {
			ticket.Attachment.SizeBytes = *size
		}
	}
	return &ticket, nil
}

func attachmentColumns(att *domain.Attachment) (*string, *string, *int64) {
	if att == nil {
		return nil, nil, nil
	}
	return &att.Name, &att.MimeType, &att.SizeBytes
}
