package models

import "github.com/shopspring/decimal"

// CartItem represents a line in a user's cart. UnitPrice is locked when the line is written.
type CartItem struct {
	ProductID   string          `json:"product_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Placeholder bool            `json:"placeholder,omitempty"`
}

// LineTotal returns UnitPrice * Quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the ordered list of items held for one user
type Cart struct {
	UserID string          `json:"user_id"`
	Items  []CartItem      `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

// AddToCartRequest represents the request body for adding a product to the cart
// Example: {"user_id": "0991234567", "product_id": "W-7841", "quantity": 5, "price": 1.80}
// price is optional; when present and positive it is used as the locked unit price
type AddToCartRequest struct {
	UserID    string   `json:"user_id"`
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Price     *float64 `json:"price,omitempty"`
}

// UpdateCartItemRequest represents the request body for changing a line quantity
// Example: {"user_id": "0991234567", "product_id": "W-7841", "quantity": 12}
// quantity <= 0 removes the line
type UpdateCartItemRequest struct {
	UserID    string   `json:"user_id"`
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Price     *float64 `json:"price,omitempty"`
}

// RemoveCartItemRequest represents the request body for removing a line
type RemoveCartItemRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

// ClearCartRequest represents the request body for emptying a cart
type ClearCartRequest struct {
	UserID string `json:"user_id"`
}
