package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"audicob/internal/config"
	"audicob/internal/domain"

	"github.com/shopspring/decimal"
)

type CreditLineStore interface {
	GetByClient(ctx context.Context, clientID int64) (*domain.CreditLine, error)
	Insert(ctx context.Context, cl *domain.CreditLine) error
}

// CreditService assigns credit lines. A client gets at most one, and never
// below the configured minimum.
type CreditService struct {
	clients ClientGetter
	lines   CreditLineStore
	authz   *Authorizer
	notify  Dispatcher
	cfg     config.MoraConfig

	now func() time.Time
}

func NewCreditService(
	clients ClientGetter,
	lines CreditLineStore,
	authz *Authorizer,
	notify Dispatcher,
	cfg config.MoraConfig,
) *CreditService {
	return &CreditService{
		clients: clients,
		lines:   lines,
		authz:   authz,
		notify:  notify,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *CreditService) AssignCreditLine(
	ctx context.Context,
	approver *domain.User,
	clientID int64,
	amount decimal.Decimal,
) (*domain.CreditLine, error) {
	if err := s.authz.RequireBackOffice(approver); err != nil {
		return nil, err
	}

	if amount.LessThan(s.cfg.CreditLineMinimum) {
		return nil, domain.NewValidationError("amount",
			fmt.Sprintf("credit line must be at least %s", s.cfg.CreditLineMinimum.StringFixed(2)))
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	existing, err := s.lines.GetByClient(ctx, clientID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewValidationError("client_id", "client already has a credit line assigned")
	}

	line := &domain.CreditLine{
		ClientID:   clientID,
		Amount:     amount,
		AssignedBy: approver.ID,
		AssignedAt: s.now().UTC(),
	}

	if err := s.lines.Insert(ctx, line); err != nil {
		return nil, err
	}

	if s.notify != nil && client.UserID != nil {
		go func(userID int64) {
			if err := s.notify.Dispatch(context.Background(), userID, "Línea de crédito asignada",
				fmt.Sprintf("Se te asignó una línea de crédito de %s.", amount.StringFixed(2))); err != nil {
				log.Printf("credit line notification failed: %v", err)
			}
		}(*client.UserID)
	}

	return line, nil
}

func (s *CreditService) CreditLine(ctx context.Context, user *domain.User, clientID int64) (*domain.CreditLine, error) {
	if err := s.authz.CanActOnClient(ctx, user, clientID); err != nil {
		return nil, err
	}
	return s.lines.GetByClient(ctx, clientID)
}
