package services

import "github.com/shopspring/decimal"

// money lifts a stored euro amount into decimal for arithmetic, so sums of
// line totals do not drift.
func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// round2 rounds to the cent, half away from zero.
func round2(v float64) float64 {
	return money(v).Round(2).InexactFloat64()
}
