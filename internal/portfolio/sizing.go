package portfolio

import "math"

// DefaultRiskFraction is the fraction of available cash allocated per trade.
const DefaultRiskFraction = 0.1

// FixedFractionalSize returns the whole-share quantity affordable when
// allocating cash * riskFraction at the given price. Zero is a valid
// "cannot afford any shares" result; the return value is never negative.
func FixedFractionalSize(cash, price, riskFraction float64) int64 {
	if price <= 0 || riskFraction <= 0 {
		return 0
	}

	allocation := cash * riskFraction
	qty := int64(math.Floor(allocation / price))
	if qty < 0 {
		return 0
	}
	return qty
}
