package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// ClientPrice converts a caller-supplied unit price.
// It is accepted only when present, finite and strictly positive; ok is false otherwise.
// Accepted prices are taken verbatim: the caller is trusted to have applied the tier rules.
func ClientPrice(price *float64) (decimal.Decimal, bool) {
	if price == nil || math.IsNaN(*price) || math.IsInf(*price, 0) || *price <= 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(*price), true
}

// ClientSubtotal converts a caller-supplied order subtotal.
// It is accepted when present, finite and not negative, and taken verbatim.
func ClientSubtotal(subtotal *float64) (decimal.Decimal, bool) {
	if subtotal == nil || math.IsNaN(*subtotal) || math.IsInf(*subtotal, 0) || *subtotal < 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(*subtotal), true
}

// UsablePrice reports whether a stored unit price can be used as is
func UsablePrice(price decimal.Decimal) bool {
	return price.IsPositive()
}
