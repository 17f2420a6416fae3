package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Order status values
const (
	OrderStatusPending = "pending"
)

// CustomerInfo holds the delivery and billing data captured at checkout
type CustomerInfo struct {
	Cedula     string `json:"cedula"`
	Nombres    string `json:"nombres"`
	Apellidos  string `json:"apellidos,omitempty"`
	Direccion  string `json:"direccion"`
	Provincia  string `json:"provincia"`
	Ciudad     string `json:"ciudad"`
	Whatsapp   string `json:"whatsapp"`
	Email      string `json:"email,omitempty"`
	Referencia string `json:"referencia,omitempty"`
}

// MissingField returns the json name of the first required field that is blank, or ""
func (c CustomerInfo) MissingField() string {
	required := []struct {
		name  string
		value string
	}{
		{"cedula", c.Cedula},
		{"nombres", c.Nombres},
		{"direccion", c.Direccion},
		{"provincia", c.Provincia},
		{"ciudad", c.Ciudad},
		{"whatsapp", c.Whatsapp},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return field.name
		}
	}
	return ""
}

// Order represents an order header in the primary store
type Order struct {
	OrderID      string          `json:"order_id"`
	UserID       string          `json:"user_id"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Shipping     decimal.Decimal `json:"shipping"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	CustomerInfo CustomerInfo    `json:"customer_info"`
	Items        []OrderItem     `json:"items,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

// OrderItem represents an immutable line of an order
type OrderItem struct {
	LineNo    int             `json:"line_no"`
	ProductID string          `json:"product_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"subtotal"`
}

// CheckoutRequest represents the request body for POST /api/checkout
// Example:
//
//	{
//	  "user_id": "0991234567",
//	  "customer_info": {"cedula": "0991234567", "nombres": "Ana Torres", "direccion": "Av. 9 de Octubre",
//	                    "provincia": "Guayas", "ciudad": "Guayaquil", "whatsapp": "0991234567"},
//	  "client_subtotal": 9.00
//	}
type CheckoutRequest struct {
	UserID         string       `json:"user_id"`
	CustomerInfo   CustomerInfo `json:"customer_info"`
	ClientSubtotal *float64     `json:"client_subtotal,omitempty"`
}

// CheckoutResult is returned once both stores hold the order
type CheckoutResult struct {
	OrderID            string          `json:"order_id"`
	AttemptID          string          `json:"attempt_id"`
	Comprobante        string          `json:"comprobante"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Shipping           decimal.Decimal `json:"shipping"`
	Total              decimal.Decimal `json:"total"`
	Status             string          `json:"status"`
	ItemsCount         int             `json:"items_count"`
	UsedClientSubtotal bool            `json:"used_client_subtotal"`
}

// ReplicaStatus compares the two stored copies of one order
type ReplicaStatus struct {
	OrderID          string `json:"order_id"`
	InPrimary        bool   `json:"in_primary"`
	InSecondary      bool   `json:"in_secondary"`
	TotalsConsistent bool   `json:"totals_consistent"`
}
