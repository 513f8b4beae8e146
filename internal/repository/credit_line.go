package repository

import (
	"context"
	"database/sql"
	"errors"

	"audicob/internal/domain"
)

type CreditLineRepository struct {
	db *sql.DB
}

func NewCreditLineRepository(db *sql.DB) *CreditLineRepository {
	return &CreditLineRepository{db: db}
}

func (r *CreditLineRepository) GetByClient(ctx context.Context, clientID int64) (*domain.CreditLine, error) {
	var cl domain.CreditLine
	err := r.db.QueryRowContext(ctx, `
		SELECT id, client_id, amount, assigned_by, assigned_at
		FROM credit_lines
		WHERE client_id = $1`,
		clientID,
	).Scan(&cl.ID, &cl.ClientID, &cl.Amount, &cl.AssignedBy, &cl.AssignedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

func (r *CreditLineRepository) Insert(ctx context.Context, cl *domain.CreditLine) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO credit_lines (client_id, amount, assigned_by, assigned_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		cl.ClientID, cl.Amount, cl.AssignedBy, cl.AssignedAt,
	).Scan(&cl.ID)
}
