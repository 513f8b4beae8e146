package service

import (
	"context"
	"fmt"
	"time"

	"audicob/internal/config"
	"audicob/internal/domain"
	"audicob/internal/mora"

	"github.com/shopspring/decimal"
)

type ClientGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
}

type DebtStore interface {
	GetByClientID(ctx context.Context, clientID int64) (*domain.Debt, error)
	SaveSnapshot(ctx context.Context, d *domain.Debt) error
}

// DebtDetail is the consultation view: the stored debt plus the figures
// derived for today. Penalty, total and criticality are always recomputed
// on read so the numbers move with the calendar, not with the last write.
type DebtDetail struct {
	Client *domain.Client
	Debt   *domain.Debt

	DaysLate int
	Penalty  decimal.Decimal
	TotalDue decimal.Decimal
	Tier     mora.Tier
	Band     mora.Band
}

type DebtService struct {
	clients ClientGetter
	debts   DebtStore
	authz   *Authorizer
	cfg     config.MoraConfig

	now func() time.Time
}

func NewDebtService(clients ClientGetter, debts DebtStore, authz *Authorizer, cfg config.MoraConfig) *DebtService {
	return &DebtService{
		clients: clients,
		debts:   debts,
		authz:   authz,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *DebtService) Consult(ctx context.Context, user *domain.User, clientID int64) (*DebtDetail, error) {
	if err := s.authz.CanActOnClient(ctx, user, clientID); err != nil {
		return nil, err
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	debt, err := s.debts.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	return s.derive(client, debt), nil
}

func (s *DebtService) derive(client *domain.Client, debt *domain.Debt) *DebtDetail {
	days := mora.DaysLate(debt.DueDate, s.now())
	penalty := mora.AccruedPenaltyAt(debt.Principal, days, s.cfg.MonthlyPenaltyRate, s.cfg.DaysPerMonth)

	return &DebtDetail{
		Client:   client,
		Debt:     debt,
		DaysLate: days,
		Penalty:  penalty,
		TotalDue: mora.TotalDue(debt.Principal, penalty),
		Tier:     mora.ClassifyTier(days, debt.Principal),
		Band:     mora.BandForDays(days),
	}
}

// RecomputeAndStore refreshes the stored penalty snapshot of one debt.
// Reads never depend on it; it keeps reporting queries over the debts
// table honest between consultations.
func (s *DebtService) RecomputeAndStore(ctx context.Context, user *domain.User, clientID int64) (*domain.Debt, error) {
	if err := s.authz.RequireBackOffice(user); err != nil {
		return nil, err
	}

	debt, err := s.debts.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	days := mora.DaysLate(debt.DueDate, s.now())
	penalty := mora.AccruedPenaltyAt(debt.Principal, days, s.cfg.MonthlyPenaltyRate, s.cfg.DaysPerMonth)

	debt.AccruedPenalty = penalty
	debt.TotalDue = mora.TotalDue(debt.Principal, penalty)
	debt.Classification = mora.ClassifyTier(days, debt.Principal).String()

	if err := s.debts.SaveSnapshot(ctx, debt); err != nil {
		return nil, fmt.Errorf("failed to store debt snapshot: %w", err)
	}
	return debt, nil
}
