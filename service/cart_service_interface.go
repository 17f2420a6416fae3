package service

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront-orders/models"
)

// CartServiceInterface defines the contract for cart operations
type CartServiceInterface interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	Add(ctx context.Context, userID, productRef string, quantity int, clientPrice *float64) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID, productRef string, quantity int, clientPrice *float64) (*models.Cart, error)
	Remove(ctx context.Context, userID, productRef string) (*models.Cart, error)
	Clear(ctx context.Context, userID string) error
	Total(ctx context.Context, userID string) (decimal.Decimal, error)
}
