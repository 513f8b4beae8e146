package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt is the single obligation of a client. The record is never deleted;
// the principal may reach zero while history remains.
type Debt struct {
	ID       int64
	ClientID int64

	Principal decimal.Decimal
	DueDate   time.Time

	// AccruedPenalty and TotalDue are derived snapshots written by the last
	// recompute. The invariant TotalDue = Principal + AccruedPenalty holds
	// after every recompute; penalty is zero when the debt is not past due.
	AccruedPenalty decimal.Decimal
	TotalDue       decimal.Decimal

	// Classification is the amount-aware criticality tag stored at the
	// last recompute, for reporting only.
	Classification string

	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}
