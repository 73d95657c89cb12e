package engine

import "github.com/shopspring/decimal"

// Display rounding is applied once, at the edge of each model, so that the
// intermediate math stays in full float precision.

// roundTo rounds v half away from zero to the given number of decimals.
func roundTo(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// roundCurrency rounds a monetary amount to whole currency units.
func roundCurrency(v float64) float64 {
	return roundTo(v, 0)
}

// roundRate rounds a percentage or ratio to two decimals.
func roundRate(v float64) float64 {
	return roundTo(v, 2)
}
