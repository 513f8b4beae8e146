package repository

import (
	"context"
	"database/sql"
	"errors"

	"audicob/internal/domain"
)

type DebtRepository struct {
	db *sql.DB
}

func NewDebtRepository(db *sql.DB) *DebtRepository {
	return &DebtRepository{db: db}
}

const debtColumns = `d.id, d.client_id, d.principal, d.due_date, d.accrued_penalty, d.total_due, d.classification, d.created_at, d.updated_at, d.version`

func scanDebt(row interface{ Scan(...any) error }) (*domain.Debt, error) {
	var d domain.Debt
	if err := row.Scan(
		&d.ID,
		&d.ClientID,
		&d.Principal,
		&d.DueDate,
		&d.AccruedPenalty,
		&d.TotalDue,
		&d.Classification,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.Version,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DebtRepository) GetByClientID(ctx context.Context, clientID int64) (*domain.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts d WHERE d.client_id = $1`
	return scanDebt(r.db.QueryRowContext(ctx, query, clientID))
}

// SaveSnapshot persists a recomputed penalty snapshot. The version check
// rejects lost updates; callers may retry on ErrConcurrencyConflict.
func (r *DebtRepository) SaveSnapshot(ctx context.Context, d *domain.Debt) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE debts
		SET accrued_penalty = $1,
		    total_due       = $2,
		    classification  = $3,
		    updated_at      = $4,
		    version         = version + 1
		WHERE id = $5 AND version = $6`,
		d.AccruedPenalty, d.TotalDue, d.Classification, d.UpdatedAt, d.ID, d.Version,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrConcurrencyConflict
	}
	d.Version++
	return nil
}
