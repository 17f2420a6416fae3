package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatUSD formats an amount as a string like "$1,234.50".
// Uses comma as thousands separator and always prints two decimals.
func FormatUSD(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	s := amount.Abs().StringFixed(2)

	intPart, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}

	var b strings.Builder
	// Pre-allocate: digits + separators + sign + $
	b.Grow(len(s) + len(intPart)/3 + 2)
	if neg {
		b.WriteString("-$")
	} else {
		b.WriteString("$")
	}

	// Insert separators from the left.
	rem := len(intPart) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(intPart[:rem])
	for i := rem; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(frac)

	return b.String()
}

// RoundMoney rounds to cents
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
