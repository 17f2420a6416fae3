package repository

import (
	"context"
	"errors"

	"storefront-orders/models"
)

// Sentinel errors returned by repositories
var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

// CatalogRepositoryInterface defines the contract for product lookups.
// FindProduct tolerates hyphen and case variance in ref and returns ErrProductNotFound on a miss.
type CatalogRepositoryInterface interface {
	FindProduct(ctx context.Context, ref string) (*models.Product, error)
}

// CartRepositoryInterface defines the contract for cart persistence.
// Save replaces the whole cart of the user.
type CartRepositoryInterface interface {
	Load(ctx context.Context, userID string) ([]models.CartItem, error)
	Save(ctx context.Context, userID string, items []models.CartItem) error
	Clear(ctx context.Context, userID string) error
}

// OrderTx is an open primary-store transaction owned by a single checkout.
// Nothing written through it is visible to other readers until Commit.
type OrderTx interface {
	InsertOrder(ctx context.Context, order *models.Order) error
	Commit() error
	Rollback() error
}

// OrderRepositoryInterface defines the contract for the primary order store
type OrderRepositoryInterface interface {
	Begin(ctx context.Context) (OrderTx, error)
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}

// UnifiedOrderRepositoryInterface defines the contract for the secondary order store.
// Upsert is idempotent on OrderID so retries are safe.
type UnifiedOrderRepositoryInterface interface {
	Upsert(ctx context.Context, order *models.UnifiedOrder) error
	GetByID(ctx context.Context, orderID string) (*models.UnifiedOrder, error)
	Delete(ctx context.Context, orderID string) error
	List(ctx context.Context, limit int) ([]models.UnifiedOrder, error)
}
