package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"audicob/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStore interface {
	Apply(ctx context.Context, p *domain.Payment, statementNumber string) error
	Validate(ctx context.Context, paymentID, approverID int64, note string, now time.Time) (*domain.Payment, error)
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	ListPending(ctx context.Context, limit int) ([]domain.Payment, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, userID int64, title, body string) error
}

type PaymentService struct {
	clients  ClientGetter
	debts    DebtStore
	payments PaymentStore
	authz    *Authorizer
	notify   Dispatcher

	now func() time.Time
}

func NewPaymentService(
	clients ClientGetter,
	debts DebtStore,
	payments PaymentStore,
	authz *Authorizer,
	notify Dispatcher,
) *PaymentService {
	return &PaymentService{
		clients:  clients,
		debts:    debts,
		payments: payments,
		authz:    authz,
		notify:   notify,
		now:      time.Now,
	}
}

type ApplyPaymentRequest struct {
	ClientID int64
	Amount   decimal.Decimal
	Method   string
	Note     *string
}

// ApplyPayment registers a payment against the client's debt and deducts
// the amount from the outstanding principal. The payment starts
// unvalidated; the client's running total only moves on validation.
func (s *PaymentService) ApplyPayment(
	ctx context.Context,
	user *domain.User,
	req ApplyPaymentRequest,
) (*domain.Payment, error) {
	if err := s.authz.CanActOnClient(ctx, user, req.ClientID); err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "payment amount must be positive")
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = "transferencia"
	}

	debt, err := s.debts.GetByClientID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	payment := &domain.Payment{
		ClientID:  req.ClientID,
		DebtID:    debt.ID,
		Amount:    req.Amount,
		Date:      now,
		Method:    method,
		Note:      req.Note,
		CreatedAt: now,
	}

	statementNumber := fmt.Sprintf("PAY-%s", uuid.NewString())
	if err := s.payments.Apply(ctx, payment, statementNumber); err != nil {
		return nil, err
	}

	s.dispatchAsync(user.ID, "Pago registrado",
		fmt.Sprintf("Se registró un pago de %s sobre la cuenta %d.", req.Amount.StringFixed(2), req.ClientID))

	return payment, nil
}

// ValidatePayment is the supervisor approval step. A payment is validated
// at most once; only then does the amount leave the client's total debt.
func (s *PaymentService) ValidatePayment(
	ctx context.Context,
	approver *domain.User,
	paymentID int64,
	note string,
) (*domain.Payment, error) {
	if err := s.authz.RequireBackOffice(approver); err != nil {
		return nil, err
	}

	payment, err := s.payments.Validate(ctx, paymentID, approver.ID, strings.TrimSpace(note), s.now().UTC())
	if err != nil {
		return nil, err
	}

	if client, err := s.clients.GetByID(ctx, payment.ClientID); err == nil && client.UserID != nil {
		s.dispatchAsync(*client.UserID, "Pago validado",
			fmt.Sprintf("Tu pago de %s fue validado.", payment.Amount.StringFixed(2)))
	}

	return payment, nil
}

func (s *PaymentService) PendingValidations(ctx context.Context, user *domain.User, limit int) ([]domain.Payment, error) {
	if err := s.authz.RequireBackOffice(user); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.payments.ListPending(ctx, limit)
}

func (s *PaymentService) dispatchAsync(userID int64, title, body string) {
	if s.notify == nil {
		return
	}
	go func() {
		if err := s.notify.Dispatch(context.Background(), userID, title, body); err != nil {
			log.Printf("payment notification failed: %v", err)
		}
	}()
}
