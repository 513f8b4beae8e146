package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Client struct {
	ID            int64
	Document      string
	Name          string
	MonthlyIncome decimal.Decimal
	TotalDebt     decimal.Decimal

	State DelinquencyState

	// UserID links the client to a login account, when one exists.
	UserID *int64

	UpdatedAt time.Time
	Version   int64
}

// ClientDelinquencySummary is the worklist row: one client with the derived
// delinquency figures at read time.
type ClientDelinquencySummary struct {
	ClientID    int64
	Name        string
	Document    string
	Outstanding decimal.Decimal
	DaysLate    int
	State       DelinquencyState

	// Tier and Band are derived on read, never stored.
	Tier string
	Band string
}
