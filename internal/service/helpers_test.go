package service

import (
	"context"
	"sync"
	"time"

	"audicob/internal/domain"
	"audicob/internal/repository"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func supervisor() *domain.User {
	return &domain.User{ID: 10, Username: "sup", Role: domain.RoleSupervisor}
}

func advisor(id int64) *domain.User {
	return &domain.User{ID: id, Username: "adv", Role: domain.RoleAdvisor}
}

func clientUser(id int64) *domain.User {
	return &domain.User{ID: id, Username: "cli", Role: domain.RoleClient}
}

// fakeClientRepo backs ClientGetter, ClientAccountResolver, ClientLookup
// and SummaryLister in memory.
type fakeClientRepo struct {
	mu        sync.Mutex
	clients   map[int64]*domain.Client
	summaries []repository.SummaryRow

	// assigned maps client id to advisor id for AdvisorID filtering.
	assigned map[int64]int64
}

func newFakeClientRepo(cs ...*domain.Client) *fakeClientRepo {
	repo := &fakeClientRepo{clients: make(map[int64]*domain.Client)}
	for _, c := range cs {
		repo.clients[c.ID] = c
	}
	return repo
}

func (r *fakeClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClientRepo) GetByDocument(ctx context.Context, document string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.Document == document {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeClientRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.UserID != nil && *c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeClientRepo) ListSummaries(ctx context.Context, f repository.SummariesFilter) ([]repository.SummaryRow, error) {
	rows := make([]repository.SummaryRow, 0, len(r.summaries))
	for _, row := range r.summaries {
		if f.AdvisorID != nil && r.assigned[row.ClientID] != *f.AdvisorID {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type fakeDebtRepo struct {
	mu    sync.Mutex
	debts map[int64]*domain.Debt
	saved int
}

func newFakeDebtRepo(ds ...*domain.Debt) *fakeDebtRepo {
	repo := &fakeDebtRepo{debts: make(map[int64]*domain.Debt)}
	for _, d := range ds {
		repo.debts[d.ClientID] = d
	}
	return repo
}

func (r *fakeDebtRepo) GetByClientID(ctx context.Context, clientID int64) (*domain.Debt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.debts[clientID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDebtRepo) SaveSnapshot(ctx context.Context, d *domain.Debt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.debts[d.ClientID] = &cp
	r.saved++
	return nil
}

// fakeAssignments answers IsAssigned from a fixed set of advisor/client
// pairs.
type fakeAssignments struct {
	pairs map[[2]int64]bool
}

func newFakeAssignments(pairs ...[2]int64) *fakeAssignments {
	f := &fakeAssignments{pairs: make(map[[2]int64]bool)}
	for _, p := range pairs {
		f.pairs[p] = true
	}
	return f
}

func (f *fakeAssignments) IsAssigned(ctx context.Context, advisorID, clientID int64) (bool, error) {
	return f.pairs[[2]int64{advisorID, clientID}], nil
}

type fakeTransitions struct {
	mu   sync.Mutex
	rows []domain.StateTransition
}

func (f *fakeTransitions) Append(ctx context.Context, t *domain.StateTransition) (*domain.StateTransition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.PrevState == t.NewState {
		return nil, domain.NewValidationError("new_state", "client is already in the requested state")
	}
	cp := *t
	cp.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, cp)
	return &cp, nil
}

func (f *fakeTransitions) ListByClient(ctx context.Context, clientID int64) ([]domain.StateTransition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.StateTransition
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].ClientID == clientID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

type dispatched struct {
	UserID int64
	Title  string
	Body   string
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []dispatched
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, userID int64, title, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, dispatched{UserID: userID, Title: title, Body: body})
	return nil
}

func testAuthorizer(assignments AssignmentChecker, clients ClientAccountResolver) *Authorizer {
	if assignments == nil {
		assignments = newFakeAssignments()
	}
	if clients == nil {
		clients = newFakeClientRepo()
	}
	return NewAuthorizer(assignments, clients)
}
