package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/helpline-ops/support-desk/internal/domain"
)

// ErrorTypeRepository manages the error type catalog.
type ErrorTypeRepository interface {
	Create(ctx context.Context, errorType *domain.ErrorType) error
	Update(ctx context.Context, errorType *domain.ErrorType) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.ErrorType, error)
	List(ctx context.Context) ([]domain.ErrorType, error)
}

type errorTypeRepository struct {
	db DBTX
}

func (r *errorTypeRepository) Create(ctx context.Context, et *domain.ErrorType) error {
	const query = `
        INSERT INTO error_types (id, name, description, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5)`
	_, err := r.db.Exec(ctx, query, et.ID, et.Name, et.Description, et.CreatedAt, et.UpdatedAt)
	return err
}

func (r *errorTypeRepository) Update(ctx context.Context, et *domain.ErrorType) error {
	const query = `UPDATE error_types SET name=$1, description=$2, updated_at=$3 WHERE id=$4`
	return requireAffected(r.db.Exec(ctx, query, et.Name, et.Description, et.UpdatedAt, et.ID))
}

func (r *errorTypeRepository) Delete(ctx context.Context, id string) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM error_types WHERE id=$1`, id))
}

func (r *errorTypeRepository) GetByID(ctx context.Context, id string) (*domain.ErrorType, error) {
	const query = `SELECT id, name, description, created_at, updated_at FROM error_types WHERE id=$1`
	et, err := scanErrorType(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return et, nil
}

func (r *errorTypeRepository) List(ctx context.Context) ([]domain.ErrorType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM error_types ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ErrorType{}
	for rows.Next() {
		et, err := scanErrorType(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *et)
	}
	return result, rows.Err()
}

func scanErrorType(row pgx.Row) (*domain.ErrorType, error) {
	var et domain.ErrorType
	if err := row.Scan(&et.ID, &et.Name, &et.Description, &et.CreatedAt, &et.UpdatedAt); err != nil {
		return nil, err
	}
	return &et, nil
}
