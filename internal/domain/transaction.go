package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one statement line: a charge or payment visible on the
// client's account history.
type Transaction struct {
	ID       int64
	ClientID int64

	Number      string
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Method      string
	Status      string
}
