package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus describes how much of the outstanding principal the payment
// covered at the time it was applied.
type PaymentStatus string

const (
	PaymentPaid          PaymentStatus = "paid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
)

type Payment struct {
	ID       int64
	ClientID int64
	DebtID   int64

	Amount decimal.Decimal
	Date   time.Time
	Method string
	Status PaymentStatus
	Note   *string

	// Validation is a single supervisor approval step. A payment starts
	// unvalidated and is validated exactly once.
	Validated    bool
	ValidatedBy  *int64
	ValidatedAt  *time.Time
	ApprovalNote *string

	CreatedAt time.Time
}
