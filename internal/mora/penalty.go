// Package mora holds the pure delinquency math: days-late, penalty accrual
// and the two criticality classifications. Nothing in here touches storage
// or the clock; callers pass explicit dates and amounts.
package mora

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMonthlyRate is the contractual monthly penalty rate (1.5%).
var DefaultMonthlyRate = decimal.NewFromFloat(0.015)

// DefaultDaysPerMonth is the divisor turning the monthly rate into a daily one.
const DefaultDaysPerMonth = 30

// DaysLate returns the whole calendar days between dueDate and today,
// never negative. Time-of-day is ignored on both ends.
func DaysLate(dueDate, today time.Time) int {
	d := truncateToDate(today).Sub(truncateToDate(dueDate))
	days := int(d.Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// AccruedPenalty computes the penalty on principal for daysLate days using
// the default rate. Zero exactly when the debt is not past due.
func AccruedPenalty(principal decimal.Decimal, daysLate int) decimal.Decimal {
	return AccruedPenaltyAt(principal, daysLate, DefaultMonthlyRate, DefaultDaysPerMonth)
}

// AccruedPenaltyAt is AccruedPenalty with an explicit monthly rate and
// month divisor: principal × (monthlyRate ÷ daysPerMonth) × daysLate,
// rounded to cents, half away from zero.
func AccruedPenaltyAt(principal decimal.Decimal, daysLate int, monthlyRate decimal.Decimal, daysPerMonth int) decimal.Decimal {
	if daysLate <= 0 {
		return decimal.Zero
	}
	dailyRate := monthlyRate.Div(decimal.NewFromInt(int64(daysPerMonth)))
	penalty := principal.Mul(dailyRate).Mul(decimal.NewFromInt(int64(daysLate)))
	return penalty.Round(2)
}

// TotalDue is the exact decimal sum of principal and penalty.
func TotalDue(principal, penalty decimal.Decimal) decimal.Decimal {
	return principal.Add(penalty)
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
