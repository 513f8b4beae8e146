package service

import (
	"context"
	"time"

	"audicob/internal/domain"
	"audicob/internal/mora"
	"audicob/internal/repository"

	"github.com/shopspring/decimal"
)

type DashboardClientRepo interface {
	Count(ctx context.Context) (int64, error)
	TotalOutstanding(ctx context.Context) (decimal.Decimal, error)
	TopDebtors(ctx context.Context, n int) ([]domain.Client, error)
}

type DashboardPaymentRepo interface {
	SumSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	MonthlyTotals(ctx context.Context, since time.Time) ([]repository.MonthTotal, error)
	ListPending(ctx context.Context, limit int) ([]domain.Payment, error)
}

type DashboardDebtRepo interface {
	GetByClientID(ctx context.Context, clientID int64) (*domain.Debt, error)
}

// TopDebtor is one dashboard row: a heavy debtor with the tier derived
// from the outstanding debt today.
type TopDebtor struct {
	ClientID    int64
	Name        string
	Document    string
	Outstanding decimal.Decimal
	DaysLate    int
	Tier        string
}

type DashboardOverview struct {
	ClientCount        int64
	TotalOutstanding   decimal.Decimal
	CollectedThisMonth decimal.Decimal
	MonthlyCollected   []repository.MonthTotal
	TopDebtors         []TopDebtor
	PendingValidations []domain.Payment
}

// DashboardService aggregates the supervisor overview figures.
type DashboardService struct {
	clients  DashboardClientRepo
	payments DashboardPaymentRepo
	debts    DashboardDebtRepo
	authz    *Authorizer

	now func() time.Time
}

func NewDashboardService(
	clients DashboardClientRepo,
	payments DashboardPaymentRepo,
	debts DashboardDebtRepo,
	authz *Authorizer,
) *DashboardService {
	return &DashboardService{
		clients:  clients,
		payments: payments,
		debts:    debts,
		authz:    authz,
		now:      time.Now,
	}
}

func (s *DashboardService) Overview(ctx context.Context, user *domain.User) (*DashboardOverview, error) {
	if err := s.authz.RequireBackOffice(user); err != nil {
		return nil, err
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	seriesStart := monthStart.AddDate(0, -5, 0)

	count, err := s.clients.Count(ctx)
	if err != nil {
		return nil, err
	}

	outstanding, err := s.clients.TotalOutstanding(ctx)
	if err != nil {
		return nil, err
	}

	collected, err := s.payments.SumSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	series, err := s.payments.MonthlyTotals(ctx, seriesStart)
	if err != nil {
		return nil, err
	}

	pending, err := s.payments.ListPending(ctx, 10)
	if err != nil {
		return nil, err
	}

	top, err := s.topDebtors(ctx, now)
	if err != nil {
		return nil, err
	}

	return &DashboardOverview{
		ClientCount:        count,
		TotalOutstanding:   outstanding,
		CollectedThisMonth: collected,
		MonthlyCollected:   series,
		TopDebtors:         top,
		PendingValidations: pending,
	}, nil
}

func (s *DashboardService) topDebtors(ctx context.Context, now time.Time) ([]TopDebtor, error) {
	clients, err := s.clients.TopDebtors(ctx, 5)
	if err != nil {
		return nil, err
	}

	top := make([]TopDebtor, 0, len(clients))
	for _, c := range clients {
		row := TopDebtor{
			ClientID:    c.ID,
			Name:        c.Name,
			Document:    c.Document,
			Outstanding: c.TotalDebt,
		}

		// Days late come from the client's debt when one exists; clients
		// carried for history only show zero.
		if debt, err := s.debts.GetByClientID(ctx, c.ID); err == nil {
			row.DaysLate = mora.DaysLate(debt.DueDate, now)
			row.Outstanding = debt.Principal
		}
		row.Tier = mora.ClassifyTier(row.DaysLate, row.Outstanding).String()

		top = append(top, row)
	}

	return top, nil
}
