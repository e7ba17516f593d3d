package lifecycle

import (
	"github.com/shopspring/decimal"
)

const monetaryPrecision int32 = 2 // cents

func toMoney(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(monetaryPrecision)
}

// IsCents reports whether v carries no precision beyond whole cents.
// Amounts that fail it would be compared and stored as different values.
func IsCents(v float64) bool {
	d := decimal.NewFromFloat(v)
	return d.Equal(d.Round(monetaryPrecision))
}

// GreaterThan reports a > b at cent precision.
func GreaterThan(a, b float64) bool {
	return toMoney(a).GreaterThan(toMoney(b))
}

// AtLeast reports a >= b at cent precision.
func AtLeast(a, b float64) bool {
	return toMoney(a).GreaterThanOrEqual(toMoney(b))
}

// MinimumNextBid returns currentPrice + increment computed in decimal.
func MinimumNextBid(currentPrice, increment float64) float64 {
	result, _ := toMoney(currentPrice).Add(toMoney(increment)).Float64()
	return result
}
