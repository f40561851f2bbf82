package repository

import (
	"context"

	"github.com/helpline-ops/support-desk/internal/domain"
)

// FeedbackRepository stores representative feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *domain.Feedback) error
	List(ctx context.Context) ([]domain.Feedback, error)
}

type feedbackRepository struct {
	db DBTX
}

func (r *feedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	const query = `INSERT INTO feedback (id, user_id, message, created_at) VALUES ($1,$2,$3,$4)`
	_, err := r.db.Exec(ctx, query, fb.ID, fb.UserID, fb.Message, fb.CreatedAt)
	return err
}

func (r *feedbackRepository) List(ctx context.Context) ([]domain.Feedback, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, message, created_at FROM feedback ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Feedback{}
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(&fb.ID, &fb.UserID, &fb.Message, &fb.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, fb)
	}
	return result, rows.Err()
}
