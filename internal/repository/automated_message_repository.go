package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/helpline-ops/support-desk/internal/domain"
)

// AutomatedMessageRepository manages automated resolution messages.
type AutomatedMessageRepository interface {
	Create(ctx context.Context, msg *domain.AutomatedMessage) error
	Update(ctx context.Context, msg *domain.AutomatedMessage) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.AutomatedMessage, error)
	// FindByErrorType returns the oldest message configured for the error type.
	FindByErrorType(ctx context.Context, errorTypeID string) (*domain.AutomatedMessage, error)
	List(ctx context.Context) ([]domain.AutomatedMessage, error)
}

type automatedMessageRepository struct {
	db DBTX
}

const automatedMessageColumns = `id, error_type_id, message, created_at, updated_at`

func (r *automatedMessageRepository) Create(ctx context.Context, msg *domain.AutomatedMessage) error {
	const query = `
        INSERT INTO automated_messages (` + automatedMessageColumns + `)
        VALUES ($1,$2,$3,$4,$5)`
	_, err := r.db.Exec(ctx, query, msg.ID, msg.ErrorTypeID, msg.Message, msg.CreatedAt, msg.UpdatedAt)
	return err
}

func (r *automatedMessageRepository) Update(ctx context.Context, msg *domain.AutomatedMessage) error {
	const query = `UPDATE automated_messages SET error_type_id=$1, message=$2, updated_at=$3 WHERE id=$4`
	return requireAffected(r.db.Exec(ctx, query, msg.ErrorTypeID, msg.Message, msg.UpdatedAt, msg.ID))
}

func (r *automatedMessageRepository) Delete(ctx context.Context, id string) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM automated_messages WHERE id=$1`, id))
}

func (r *automatedMessageRepository) GetByID(ctx context.Context, id string) (*domain.AutomatedMessage, error) {
	query := `SELECT ` + automatedMessageColumns + ` FROM automated_messages WHERE id=$1`
	msg, err := scanAutomatedMessage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return msg, nil
}

func (r *automatedMessageRepository) FindByErrorType(ctx context.Context, errorTypeID string) (*domain.AutomatedMessage, error) {
	query := `SELECT ` + automatedMessageColumns + ` FROM automated_messages
        WHERE error_type_id=$1 ORDER BY created_at ASC LIMIT 1`
	msg, err := scanAutomatedMessage(r.db.QueryRow(ctx, query, errorTypeID))
	if err != nil {
		return nil, notFound(err)
	}
	return msg, nil
}

func (r *automatedMessageRepository) List(ctx context.Context) ([]domain.AutomatedMessage, error) {
	rows, err := r.db.Query(ctx, `SELECT `+automatedMessageColumns+` FROM automated_messages ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.AutomatedMessage{}
	for rows.Next() {
		msg, err := scanAutomatedMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *msg)
	}
	return result, rows.Err()
}

func scanAutomatedMessage(row pgx.Row) (*domain.AutomatedMessage, error) {
	var msg domain.AutomatedMessage
	if err := row.Scan(&msg.ID, &msg.ErrorTypeID, &msg.Message, &msg.CreatedAt, &msg.UpdatedAt); err != nil {
		return nil, err
	}
	return &msg, nil
}
