package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"audicob/internal/domain"

	"github.com/shopspring/decimal"
)

// StatementFilter narrows a client's statement view. All conditions are
// AND-combined; bounds are inclusive and the end date covers its whole day.
type StatementFilter struct {
	SearchTerm *string
	AmountMin  *decimal.Decimal
	AmountMax  *decimal.Decimal
	DateFrom   *time.Time
	DateTo     *time.Time
}

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) ListByClient(ctx context.Context, clientID int64, f StatementFilter) ([]domain.Transaction, error) {
	base := `
		SELECT t.id, t.client_id, t.number, t.date, t.description, t.amount, t.method, t.status
		FROM transactions t
	`

	where := []string{"t.client_id = $1"}
	args := []any{clientID}
	i := 2

	if f.SearchTerm != nil && strings.TrimSpace(*f.SearchTerm) != "" {
		where = append(where, fmt.Sprintf("(t.description ILIKE $%d OR t.number ILIKE $%d)", i, i))
		args = append(args, "%"+strings.TrimSpace(*f.SearchTerm)+"%")
		i++
	}
	if f.AmountMin != nil {
		where = append(where, fmt.Sprintf("t.amount >= $%d", i))
		args = append(args, *f.AmountMin)
		i++
	}
	if f.AmountMax != nil {
		where = append(where, fmt.Sprintf("t.amount <= $%d", i))
		args = append(args, *f.AmountMax)
		i++
	}
	if f.DateFrom != nil {
		where = append(where, fmt.Sprintf("t.date >= $%d", i))
		args = append(args, truncateDay(*f.DateFrom))
		i++
	}
	if f.DateTo != nil {
		// inclusive: extend the bound to the last instant of the day
		where = append(where, fmt.Sprintf("t.date < $%d", i))
		args = append(args, truncateDay(*f.DateTo).AddDate(0, 0, 1))
		i++
	}

	query := base + " WHERE " + strings.Join(where, " AND ") + " ORDER BY t.date DESC, t.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.ClientID,
			&t.Number,
			&t.Date,
			&t.Description,
			&t.Amount,
			&t.Method,
			&t.Status,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
