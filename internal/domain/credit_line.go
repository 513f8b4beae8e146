package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditLine is assigned at most once per client by a supervisor.
type CreditLine struct {
	ID       int64
	ClientID int64

	Amount     decimal.Decimal
	AssignedBy int64
	AssignedAt time.Time
}
