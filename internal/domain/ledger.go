package domain

import "github.com/shopspring/decimal"

// SettleAgainstPrincipal applies a payment amount to an outstanding
// principal. Covering the full principal zeroes it and marks the payment
// paid; anything less reduces the principal by exactly the amount.
func SettleAgainstPrincipal(principal, amount decimal.Decimal) (decimal.Decimal, PaymentStatus, error) {
	if !amount.IsPositive() {
		return principal, "", NewValidationError("amount", "payment amount must be positive")
	}
	if amount.GreaterThanOrEqual(principal) {
		return decimal.Zero, PaymentPaid, nil
	}
	return principal.Sub(amount), PaymentPartiallyPaid, nil
}
