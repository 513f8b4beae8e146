package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"audicob/internal/domain"

	"github.com/shopspring/decimal"
)

type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `c.id, c.document, c.name, c.monthly_income, c.total_debt, c.delinquency_state, c.user_id, c.updated_at, c.version`

func scanClient(row interface{ Scan(...any) error }) (*domain.Client, error) {
	var (
		c     domain.Client
		state string
	)
	if err := row.Scan(
		&c.ID,
		&c.Document,
		&c.Name,
		&c.MonthlyIncome,
		&c.TotalDebt,
		&state,
		&c.UserID,
		&c.UpdatedAt,
		&c.Version,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	st, ok := domain.ParseDelinquencyState(state)
	if !ok {
		return nil, fmt.Errorf("client %d: unknown delinquency state %q", c.ID, state)
	}
	c.State = st
	return &c, nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients c WHERE c.id = $1`
	return scanClient(r.db.QueryRowContext(ctx, query, id))
}

func (r *ClientRepository) GetByDocument(ctx context.Context, document string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients c WHERE c.document = $1`
	return scanClient(r.db.QueryRowContext(ctx, query, document))
}

func (r *ClientRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients c WHERE c.user_id = $1`
	return scanClient(r.db.QueryRowContext(ctx, query, userID))
}

// SummaryRow is the raw worklist material: one client with its debt figures.
// Days late and tiers are derived by the caller from due_date.
type SummaryRow struct {
	ClientID  int64
	Name      string
	Document  string
	State     domain.DelinquencyState
	Principal decimal.Decimal
	DueDate   time.Time
}

// SummariesFilter narrows the worklist query. Derived filters (days late,
// tier) are applied by the service after classification.
type SummariesFilter struct {
	SearchTerm *string
	AmountMin  *decimal.Decimal
	AmountMax  *decimal.Decimal
	AdvisorID  *int64
}

func (r *ClientRepository) ListSummaries(ctx context.Context, f SummariesFilter) ([]SummaryRow, error) {
	base := `
		SELECT
			c.id,
			c.name,
			c.document,
			c.delinquency_state,
			d.principal,
			d.due_date
		FROM clients c
		JOIN debts d ON d.client_id = c.id
	`

	where := []string{"1=1"}
	args := []any{}
	i := 1

	if f.SearchTerm != nil && *f.SearchTerm != "" {
		where = append(where, fmt.Sprintf("(c.name ILIKE $%d OR c.document ILIKE $%d)", i, i))
		args = append(args, "%"+strings.TrimSpace(*f.SearchTerm)+"%")
		i++
	}
	if f.AmountMin != nil {
		where = append(where, fmt.Sprintf("d.principal >= $%d", i))
		args = append(args, *f.AmountMin)
		i++
	}
	if f.AmountMax != nil {
		where = append(where, fmt.Sprintf("d.principal <= $%d", i))
		args = append(args, *f.AmountMax)
		i++
	}
	if f.AdvisorID != nil {
		where = append(where, fmt.Sprintf(`
			EXISTS (
				SELECT 1 FROM advisor_assignments aa
				WHERE aa.client_id = c.id AND aa.advisor_id = $%d
			)`, i))
		args = append(args, *f.AdvisorID)
		i++
	}

	query := base + " WHERE " + strings.Join(where, " AND ")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var (
			row   SummaryRow
			state string
		)
		if err := rows.Scan(&row.ClientID, &row.Name, &row.Document, &state, &row.Principal, &row.DueDate); err != nil {
			return nil, err
		}
		st, ok := domain.ParseDelinquencyState(state)
		if !ok {
			return nil, fmt.Errorf("client %d: unknown delinquency state %q", row.ClientID, state)
		}
		row.State = st
		out = append(out, row)
	}
	return out, rows.Err()
}

// TopDebtors returns the n clients with the largest outstanding totals.
func (r *ClientRepository) TopDebtors(ctx context.Context, n int) ([]domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients c ORDER BY c.total_debt DESC, c.id ASC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *ClientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n)
	return n, err
}

func (r *ClientRepository) TotalOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_debt), 0) FROM clients`).Scan(&total)
	return total, err
}
