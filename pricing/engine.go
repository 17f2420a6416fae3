package pricing

import (
	"github.com/shopspring/decimal"

	"storefront-orders/models"
)

// Quantity bands
const (
	// WholesaleMinQty is the first quantity billed at the wholesale tier
	WholesaleMinQty = 3
	// BulkMinQty is the first quantity billed at the bulk tier
	BulkMinQty = 12
)

// PriceForQuantity returns the unit price for buying qty units of a product with the given tiers.
//
//	no tiers             -> 0
//	one tier             -> that tier for every quantity
//	unit + bulk only     -> 1-11 unit, 12+ bulk
//	otherwise            -> 1-2 unit, 3-11 wholesale, 12+ bulk
//
// A missing tier in the last case falls back along unit -> wholesale -> bulk for 1-2,
// wholesale -> bulk -> unit for 3-11 and bulk -> wholesale -> unit for 12+.
// Quantities below 1 are priced like the first band.
func PriceForQuantity(tiers models.TierPrices, qty int) decimal.Decimal {
	switch tiers.Count() {
	case 0:
		return decimal.Zero
	case 1:
		return firstPresent(tiers.Unit, tiers.Wholesale, tiers.Bulk)
	}

	skipWholesale := tiers.HasUnit() && tiers.HasBulk() && !tiers.HasWholesale()
	if skipWholesale {
		if qty >= BulkMinQty {
			return tiers.Bulk
		}
		return tiers.Unit
	}

	switch {
	case qty < WholesaleMinQty:
		return firstPresent(tiers.Unit, tiers.Wholesale, tiers.Bulk)
	case qty < BulkMinQty:
		return firstPresent(tiers.Wholesale, tiers.Bulk, tiers.Unit)
	default:
		return firstPresent(tiers.Bulk, tiers.Wholesale, tiers.Unit)
	}
}

// LineTotal returns price * qty
func LineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}

func firstPresent(prices ...decimal.Decimal) decimal.Decimal {
	for _, p := range prices {
		if p.IsPositive() {
			return p
		}
	}
	return decimal.Zero
}
