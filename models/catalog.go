package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductKind tells a catalog hit apart from a synthesized fallback
type ProductKind int

const (
	// ProductResolved was found in the catalog
	ProductResolved ProductKind = iota
	// ProductPlaceholder was synthesized after a catalog miss
	ProductPlaceholder
)

func (k ProductKind) String() string {
	switch k {
	case ProductResolved:
		return "resolved"
	case ProductPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// PlaceholderUnitPrice is the unit price given to products missing from the catalog
var PlaceholderUnitPrice = decimal.RequireFromString("1.20")

// Product represents a catalog entry
type Product struct {
	ID    string      `json:"product_id"`
	Code  string      `json:"code"`
	Name  string      `json:"name"`
	Tiers TierPrices  `json:"tiers"`
	Kind  ProductKind `json:"-"`
}

// IsPlaceholder reports whether the product was synthesized
func (p *Product) IsPlaceholder() bool {
	return p.Kind == ProductPlaceholder
}

// NewPlaceholderProduct builds the fallback product used when ref is not in the catalog
func NewPlaceholderProduct(ref string) *Product {
	return &Product{
		ID:    ref,
		Code:  ref,
		Name:  fmt.Sprintf("Producto %s", ref),
		Tiers: TierPrices{Unit: PlaceholderUnitPrice},
		Kind:  ProductPlaceholder,
	}
}

// CatalogFileEntry is one product in a JSON catalog file.
// Example: {"product_id": "W-7841", "code": "W-7841", "name": "Cuaderno", "unit_price": 2.00, "wholesale_price": 1.80, "bulk_price": 1.50}
type CatalogFileEntry struct {
	ProductID      string          `json:"product_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	BulkPrice      decimal.Decimal `json:"bulk_price"`
}
