package models

import "github.com/shopspring/decimal"

// TierPrices holds the three price tiers of a product.
// A tier is present only when it is strictly positive; zero means "not set".
type TierPrices struct {
	Unit      decimal.Decimal `json:"unit_price"`      // precio unidad
	Wholesale decimal.Decimal `json:"wholesale_price"` // precio mayor
	Bulk      decimal.Decimal `json:"bulk_price"`      // precio bulto
}

// HasUnit reports whether the unit tier is set
func (t TierPrices) HasUnit() bool { return t.Unit.IsPositive() }

// HasWholesale reports whether the wholesale tier is set
func (t TierPrices) HasWholesale() bool { return t.Wholesale.IsPositive() }

// HasBulk reports whether the bulk tier is set
func (t TierPrices) HasBulk() bool { return t.Bulk.IsPositive() }

// Count returns how many tiers are present
func (t TierPrices) Count() int {
	n := 0
	for _, present := range []bool{t.HasUnit(), t.HasWholesale(), t.HasBulk()} {
		if present {
			n++
		}
	}
	return n
}
