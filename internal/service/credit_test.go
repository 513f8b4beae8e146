package service

import (
	"context"
	"sync"
	"testing"

	"audicob/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreditLines struct {
	mu    sync.Mutex
	lines map[int64]*domain.CreditLine
}

func (f *fakeCreditLines) GetByClient(ctx context.Context, clientID int64) (*domain.CreditLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cl, ok := f.lines[clientID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *cl
	return &cp, nil
}

func (f *fakeCreditLines) Insert(ctx context.Context, cl *domain.CreditLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cl.ID = int64(len(f.lines) + 1)
	cp := *cl
	f.lines[cl.ClientID] = &cp
	return nil
}

func newCreditFixture(t *testing.T) *CreditService {
	t.Helper()

	client := &domain.Client{ID: 1, Document: "12345678", Name: "Ana Silva"}
	clients := newFakeClientRepo(client)
	lines := &fakeCreditLines{lines: make(map[int64]*domain.CreditLine)}

	return NewCreditService(clients, lines, testAuthorizer(nil, clients), nil, moraCfg())
}

func TestAssignCreditLine_EnforcesMinimum(t *testing.T) {
	svc := newCreditFixture(t)

	_, err := svc.AssignCreditLine(context.Background(), supervisor(), 1, dec("179.99"))
	assert.True(t, domain.IsValidation(err))

	line, err := svc.AssignCreditLine(context.Background(), supervisor(), 1, dec("180"))
	require.NoError(t, err)
	assert.True(t, line.Amount.Equal(dec("180")))
	assert.Equal(t, int64(10), line.AssignedBy)
}

func TestAssignCreditLine_OnePerClient(t *testing.T) {
	svc := newCreditFixture(t)

	_, err := svc.AssignCreditLine(context.Background(), supervisor(), 1, dec("500"))
	require.NoError(t, err)

	_, err = svc.AssignCreditLine(context.Background(), supervisor(), 1, dec("600"))
	assert.True(t, domain.IsValidation(err), "second assignment must be rejected")
}

func TestAssignCreditLine_RequiresBackOffice(t *testing.T) {
	svc := newCreditFixture(t)

	_, err := svc.AssignCreditLine(context.Background(), advisor(20), 1, dec("500"))
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestAssignCreditLine_UnknownClient(t *testing.T) {
	svc := newCreditFixture(t)

	_, err := svc.AssignCreditLine(context.Background(), supervisor(), 404, dec("500"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
