package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"audicob/internal/clients"
	"audicob/internal/domain"
	"audicob/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransactions applies the statement filter semantics in memory:
// filters combine with AND, ranges are inclusive, the end date covers the
// whole calendar day.
type fakeTransactions struct {
	mu   sync.Mutex
	rows []domain.Transaction
}

func (f *fakeTransactions) ListByClient(ctx context.Context, clientID int64, flt repository.StatementFilter) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Transaction
	for _, t := range f.rows {
		if t.ClientID != clientID {
			continue
		}
		if flt.AmountMin != nil && t.Amount.LessThan(*flt.AmountMin) {
			continue
		}
		if flt.AmountMax != nil && t.Amount.GreaterThan(*flt.AmountMax) {
			continue
		}
		if flt.DateFrom != nil && t.Date.Before(*flt.DateFrom) {
			continue
		}
		if flt.DateTo != nil {
			endOfDay := flt.DateTo.AddDate(0, 0, 1)
			if !t.Date.Before(endOfDay) {
				continue
			}
		}
		out = append(out, t)
	}
	return out, nil
}

func newStatementFixture(t *testing.T) (*StatementService, *fakeTransactions) {
	t.Helper()

	userID := int64(77)
	client := &domain.Client{ID: 1, Document: "12345678", Name: "Ana Silva", UserID: &userID}
	clients := newFakeClientRepo(client)

	transactions := &fakeTransactions{
		rows: []domain.Transaction{
			{ID: 1, ClientID: 1, Number: "PAY-1", Date: date(2024, time.March, 1), Amount: dec("100"), Description: "Pago recibido"},
			{ID: 2, ClientID: 1, Number: "PAY-2", Date: date(2024, time.March, 15), Amount: dec("500"), Description: "Pago recibido"},
			{ID: 3, ClientID: 1, Number: "PAY-3", Date: date(2024, time.April, 2), Amount: dec("900"), Description: "Pago recibido"},
			{ID: 4, ClientID: 2, Number: "PAY-4", Date: date(2024, time.March, 1), Amount: dec("100"), Description: "Pago recibido"},
		},
	}

	svc := NewStatementService(transactions, testAuthorizer(nil, clients), nil, nil, nil, nil)
	return svc, transactions
}

func TestStatement_FiltersCombineWithAnd(t *testing.T) {
	svc, _ := newStatementFixture(t)

	min := dec("200")
	from := date(2024, time.March, 1)
	to := date(2024, time.March, 31)

	rows, err := svc.Statement(context.Background(), supervisor(), 1, repository.StatementFilter{
		AmountMin: &min,
		DateFrom:  &from,
		DateTo:    &to,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PAY-2", rows[0].Number)
}

func TestStatement_EndDateInclusive(t *testing.T) {
	svc, _ := newStatementFixture(t)

	to := date(2024, time.March, 15)
	rows, err := svc.Statement(context.Background(), supervisor(), 1, repository.StatementFilter{DateTo: &to})
	require.NoError(t, err)

	// the row dated exactly on the end date is included
	assert.Len(t, rows, 2)
}

func TestStatement_RejectsInvertedRanges(t *testing.T) {
	svc, _ := newStatementFixture(t)

	min := dec("500")
	max := dec("100")
	_, err := svc.Statement(context.Background(), supervisor(), 1, repository.StatementFilter{
		AmountMin: &min,
		AmountMax: &max,
	})
	assert.True(t, domain.IsValidation(err))

	from := date(2024, time.April, 1)
	to := date(2024, time.March, 1)
	_, err = svc.Statement(context.Background(), supervisor(), 1, repository.StatementFilter{
		DateFrom: &from,
		DateTo:   &to,
	})
	assert.True(t, domain.IsValidation(err))
}

func TestStatement_ClientSeesOwnAccountOnly(t *testing.T) {
	svc, _ := newStatementFixture(t)

	rows, err := svc.Statement(context.Background(), clientUser(77), 1, repository.StatementFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	_, err = svc.Statement(context.Background(), clientUser(78), 1, repository.StatementFilter{})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestStartStatementExport_NoStorageConfigured(t *testing.T) {
	svc, _ := newStatementFixture(t)

	// without redis the export id is still handed out; the background run
	// fails on the missing storage and must not panic
	exportID, err := svc.StartStatementExport(context.Background(), supervisor(), 1, repository.StatementFilter{})
	require.NoError(t, err)
	assert.Contains(t, exportID, "statement_exports:")

	time.Sleep(100 * time.Millisecond)
}

func newExportRedis(t *testing.T) (*clients.RedisClient, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rc, err := clients.NewRedisClient(context.Background(), clients.RedisConfig{
		Addr:   mr.Addr(),
		Prefix: "test_",
	})
	require.NoError(t, err)
	t.Cleanup(rc.Close)

	return rc, mr
}

func TestGetExports_PrunesExpiredStatuses(t *testing.T) {
	svc, _ := newStatementFixture(t)
	rc, mr := newExportRedis(t)
	svc.redis = rc

	live := &ExportStatus{Key: "statement_exports:live", UserID: 10, Created: time.Now()}
	dead := &ExportStatus{Key: "statement_exports:dead", UserID: 10, Created: time.Now().Add(-time.Hour)}
	require.NoError(t, svc.saveExportStatus(context.Background(), live))
	require.NoError(t, svc.saveExportStatus(context.Background(), dead))

	// the status value expires, the id set does not
	mr.Del("test_statement_exports:dead")

	exports, err := svc.GetExports(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, exports, 1)
	assert.Equal(t, "statement_exports:live", exports[0]["key"])

	keys, err := rc.SMembers(context.Background(), exportSetKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"statement_exports:live"}, keys)
}

func TestHumanizeAgo(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "recién", humanizeAgo(now))
	assert.Equal(t, "hace 5 min", humanizeAgo(now.Add(-5*time.Minute)))
	assert.Equal(t, "hace 1 hora", humanizeAgo(now.Add(-90*time.Minute)))
	assert.Equal(t, "hace 3 horas", humanizeAgo(now.Add(-3*time.Hour)))
	assert.Equal(t, "hace 2 días", humanizeAgo(now.Add(-49*time.Hour)))
}
