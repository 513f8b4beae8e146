package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"audicob/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPaymentRepository(t *testing.T) (*PaymentRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPaymentRepository(db), mock
}

func testPayment(amount string) *domain.Payment {
	now := time.Date(2024, time.March, 16, 10, 0, 0, 0, time.UTC)
	return &domain.Payment{
		ClientID:  1,
		Amount:    decimal.RequireFromString(amount),
		Date:      now,
		Method:    "transferencia",
		CreatedAt: now,
	}
}

const applyLockQuery = `SELECT id, principal, version FROM debts WHERE client_id = $1 ORDER BY id LIMIT 1 FOR UPDATE`

func TestApply_LocksOneDebtRowDeterministically(t *testing.T) {
	repo, mock := newMockPaymentRepository(t)
	p := testPayment("1000")

	mock.ExpectBegin()
	// the lock query must pin a single row by id so the settlement target
	// never depends on scan order
	mock.ExpectQuery(regexp.QuoteMeta(applyLockQuery)).
		WithArgs(p.ClientID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "principal", "version"}).AddRow(5, "2500", 3))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE debts")).
		WithArgs(sqlmock.AnyArg(), p.Date, int64(5), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments")).
		WithArgs(p.ClientID, int64(5), sqlmock.AnyArg(), p.Date, p.Method, string(domain.PaymentPartiallyPaid), p.Note, p.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transactions")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Apply(context.Background(), p, "PAY-abc")
	require.NoError(t, err)

	assert.Equal(t, int64(5), p.DebtID)
	assert.Equal(t, int64(9), p.ID)
	assert.Equal(t, domain.PaymentPartiallyPaid, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_NoDebtIsNotFound(t *testing.T) {
	repo, mock := newMockPaymentRepository(t)
	p := testPayment("1000")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(applyLockQuery)).
		WithArgs(p.ClientID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "principal", "version"}))
	mock.ExpectRollback()

	err := repo.Apply(context.Background(), p, "PAY-abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_StaleVersionIsConflict(t *testing.T) {
	repo, mock := newMockPaymentRepository(t)
	p := testPayment("1000")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(applyLockQuery)).
		WithArgs(p.ClientID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "principal", "version"}).AddRow(5, "2500", 3))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE debts")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Apply(context.Background(), p, "PAY-abc")
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
