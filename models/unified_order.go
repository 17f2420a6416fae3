package models

import "github.com/shopspring/decimal"

// Source tag written on orders that came through the storefront
const UnifiedOrderSourcePWA = "pwa"

// UnifiedOrder is the copy of an order kept in the secondary store
type UnifiedOrder struct {
	OrderID      string             `json:"order_id"`
	UserID       string             `json:"user_id"`
	Source       string             `json:"source"`
	Comprobante  string             `json:"comprobante"`
	CustomerInfo CustomerInfo       `json:"customer_info"`
	Items        []UnifiedOrderItem `json:"cart_items"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Shipping     decimal.Decimal    `json:"shipping"`
	Total        decimal.Decimal    `json:"total"`
	Status       string             `json:"status"`
	CreatedAt    string             `json:"created_at"`
	UpdatedAt    string             `json:"updated_at"`
}

// UnifiedOrderItem is a normalized order line: code and name uppercased, quantity and price numeric
type UnifiedOrderItem struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`
}
