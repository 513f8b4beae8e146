package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"audicob/internal/domain"

	"github.com/shopspring/decimal"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `p.id, p.client_id, p.debt_id, p.amount, p.date, p.method, p.status, p.note, p.validated, p.validated_by, p.validated_at, p.approval_note, p.created_at`

func scanPayment(row interface{ Scan(...any) error }) (*domain.Payment, error) {
	var (
		p      domain.Payment
		status string
	)
	if err := row.Scan(
		&p.ID,
		&p.ClientID,
		&p.DebtID,
		&p.Amount,
		&p.Date,
		&p.Method,
		&status,
		&p.Note,
		&p.Validated,
		&p.ValidatedBy,
		&p.ValidatedAt,
		&p.ApprovalNote,
		&p.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Status = domain.PaymentStatus(status)
	return &p, nil
}

// Apply settles p.Amount against the client's debt and records the payment,
// all in one transaction. The debt row is locked for the duration so two
// concurrent payments cannot both read the same principal. The resulting
// coverage status and ids are written back into p.
func (r *PaymentRepository) Apply(ctx context.Context, p *domain.Payment, statementNumber string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var (
			debtID    int64
			principal decimal.Decimal
			version   int64
		)
		// a client holds one debt; ORDER BY keeps the pick deterministic
		// should that ever stop being true
		err := tx.QueryRowContext(ctx,
			`SELECT id, principal, version FROM debts WHERE client_id = $1 ORDER BY id LIMIT 1 FOR UPDATE`,
			p.ClientID,
		).Scan(&debtID, &principal, &version)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		newPrincipal, status, err := domain.SettleAgainstPrincipal(principal, p.Amount)
		if err != nil {
			return err
		}
		p.DebtID = debtID
		p.Status = status

		res, err := tx.ExecContext(ctx, `
			UPDATE debts
			SET principal = $1, updated_at = $2, version = version + 1
			WHERE id = $3 AND version = $4`,
			newPrincipal, p.Date, debtID, version,
		)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return domain.ErrConcurrencyConflict
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO payments
				(client_id, debt_id, amount, date, method, status, note, validated, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8)
			RETURNING id`,
			p.ClientID, debtID, p.Amount, p.Date, p.Method, p.Status, p.Note, p.CreatedAt,
		).Scan(&p.ID)
		if err != nil {
			return err
		}

		// Every payment also shows up as a statement line.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (client_id, number, date, description, amount, method, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ClientID, statementNumber, p.Date, "Pago recibido", p.Amount, p.Method, p.Status,
		)
		return err
	})
}

// Validate marks a payment approved exactly once, records the approver and
// deducts the amount from the client's aggregate outstanding balance,
// floored at zero.
func (r *PaymentRepository) Validate(ctx context.Context, paymentID, approverID int64, note string, now time.Time) (*domain.Payment, error) {
	var validated *domain.Payment

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		p, err := scanPayment(tx.QueryRowContext(ctx,
			`SELECT `+paymentColumns+` FROM payments p WHERE p.id = $1 FOR UPDATE`, paymentID))
		if err != nil {
			return err
		}
		if p.Validated {
			return domain.ErrAlreadyValidated
		}

		p.Validated = true
		p.ValidatedBy = &approverID
		p.ValidatedAt = &now
		p.ApprovalNote = &note

		_, err = tx.ExecContext(ctx, `
			UPDATE payments
			SET validated = true, validated_by = $1, validated_at = $2, approval_note = $3
			WHERE id = $4`,
			approverID, now, note, paymentID,
		)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE clients
			SET total_debt = GREATEST(total_debt - $1, 0), updated_at = $2
			WHERE id = $3`,
			p.Amount, now, p.ClientID,
		)
		if err != nil {
			return err
		}

		validated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return validated, nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments p WHERE p.id = $1`
	return scanPayment(r.db.QueryRowContext(ctx, query, id))
}

// ListPending returns unvalidated payments, oldest first, for the
// supervisor approval queue.
func (r *PaymentRepository) ListPending(ctx context.Context, limit int) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments p WHERE p.validated = false ORDER BY p.date ASC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PaymentRepository) SumSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE date >= $1`, since,
	).Scan(&total)
	return total, err
}

// MonthTotal is one point of the payments-per-month dashboard series.
type MonthTotal struct {
	Year  int
	Month int
	Total decimal.Decimal
}

func (r *PaymentRepository) MonthlyTotals(ctx context.Context, since time.Time) ([]MonthTotal, error) {
	query := `
		SELECT EXTRACT(YEAR FROM date)::int, EXTRACT(MONTH FROM date)::int, SUM(amount)
		FROM payments
		WHERE date >= $1
		GROUP BY 1, 2
		ORDER BY 1, 2
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthTotal
	for rows.Next() {
		var m MonthTotal
		if err := rows.Scan(&m.Year, &m.Month, &m.Total); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
