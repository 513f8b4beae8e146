package mora

import "github.com/shopspring/decimal"

// Tier is the amount-aware criticality used to prioritize worklists.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
	TierCritical
)

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	case TierCritical:
		return "critical"
	}
	return "unknown"
}

// ParseTier resolves a tier label; the bool is false for unknown labels.
func ParseTier(s string) (Tier, bool) {
	switch s {
	case "low":
		return TierLow, true
	case "medium":
		return TierMedium, true
	case "high":
		return TierHigh, true
	case "critical":
		return TierCritical, true
	}
	return TierLow, false
}

var (
	amountMedium = decimal.NewFromInt(1000)
	amountHigh   = decimal.NewFromInt(2000)
)

// ClassifyTier maps days late and outstanding amount to a Tier. Each rule
// can only raise the tier; thresholds are evaluated independently, not as
// exclusive ranges.
func ClassifyTier(daysLate int, outstanding decimal.Decimal) Tier {
	tier := TierLow
	if daysLate > 15 || outstanding.GreaterThanOrEqual(amountMedium) {
		tier = TierMedium
	}
	if daysLate > 30 || outstanding.GreaterThanOrEqual(amountHigh) {
		tier = TierHigh
	}
	if daysLate > 45 || (outstanding.GreaterThanOrEqual(amountHigh) && daysLate >= 30) {
		tier = TierCritical
	}
	return tier
}

// Band is the days-only severity band behind the named delinquency states.
// It deliberately ignores the amount; worklist priority uses ClassifyTier
// instead and the two are not interchangeable.
type Band string

const (
	BandEarly    Band = "early"
	BandModerate Band = "moderate"
	BandSevere   Band = "severe"
	BandCritical Band = "critical"
)

// BandForDays maps elapsed days to a severity band.
func BandForDays(days int) Band {
	switch {
	case days >= 90:
		return BandCritical
	case days >= 60:
		return BandSevere
	case days >= 30:
		return BandModerate
	default:
		return BandEarly
	}
}
