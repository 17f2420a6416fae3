package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"storefront-orders/models"
)

// UnifiedOrderRepository writes orders to the secondary store read by the invoicing tools
type UnifiedOrderRepository struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewUnifiedOrderRepository creates a new UnifiedOrderRepository
func NewUnifiedOrderRepository(db *sql.DB, logger *zap.SugaredLogger) *UnifiedOrderRepository {
	return &UnifiedOrderRepository{db: db, logger: logger}
}

// Ensure UnifiedOrderRepository implements UnifiedOrderRepositoryInterface
var _ UnifiedOrderRepositoryInterface = (*UnifiedOrderRepository)(nil)

// Upsert inserts the order or overwrites the existing record with the same order_id
func (r *UnifiedOrderRepository) Upsert(ctx context.Context, order *models.UnifiedOrder) error {
	customerInfo, err := json.Marshal(order.CustomerInfo)
	if err != nil {
		return fmt.Errorf("failed to encode customer info: %w", err)
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}

	query := `
		INSERT INTO unified_orders
			(order_id, user_id, source, comprobante, customer_info, cart_items, subtotal, shipping, total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (order_id) DO UPDATE SET
			user_id = excluded.user_id,
			source = excluded.source,
			comprobante = excluded.comprobante,
			customer_info = excluded.customer_info,
			cart_items = excluded.cart_items,
			subtotal = excluded.subtotal,
			shipping = excluded.shipping,
			total = excluded.total,
			status = excluded.status,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.ExecContext(ctx, query,
		order.OrderID,
		order.UserID,
		order.Source,
		order.Comprobante,
		string(customerInfo),
		string(items),
		order.Subtotal,
		order.Shipping,
		order.Total,
		order.Status,
	); err != nil {
		return fmt.Errorf("failed to upsert unified order %s: %w", order.OrderID, err)
	}

	r.logger.Infof("✅ UpsertUnifiedOrder: Stored %s (%s)", order.OrderID, order.Comprobante)
	return nil
}

// GetByID returns the stored record, or ErrOrderNotFound
func (r *UnifiedOrderRepository) GetByID(ctx context.Context, orderID string) (*models.UnifiedOrder, error) {
	query := `
		SELECT order_id, user_id, source, comprobante, customer_info, cart_items,
		       subtotal, shipping, total, status, created_at, updated_at
		FROM unified_orders
		WHERE order_id = $1
	`
	order, err := scanUnifiedOrder(r.db.QueryRowContext(ctx, query, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unified order: %w", err)
	}
	return order, nil
}

// Delete removes a record. Deleting a missing record is not an error.
func (r *UnifiedOrderRepository) Delete(ctx context.Context, orderID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM unified_orders WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to delete unified order %s: %w", orderID, err)
	}
	r.logger.Warnf("⚠️ DeleteUnifiedOrder: Removed %s", orderID)
	return nil
}

// List returns the most recent records first, at most limit of them
func (r *UnifiedOrderRepository) List(ctx context.Context, limit int) ([]models.UnifiedOrder, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT order_id, user_id, source, comprobante, customer_info, cart_items,
		       subtotal, shipping, total, status, created_at, updated_at
		FROM unified_orders
		ORDER BY created_at DESC, order_id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unified orders: %w", err)
	}
	defer rows.Close()

	orders := []models.UnifiedOrder{}
	for rows.Next() {
		order, err := scanUnifiedOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unified order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unified orders: %w", err)
	}
	return orders, nil
}

func scanUnifiedOrder(row rowScanner) (*models.UnifiedOrder, error) {
	var order models.UnifiedOrder
	var customerInfo, items string
	if err := row.Scan(
		&order.OrderID,
		&order.UserID,
		&order.Source,
		&order.Comprobante,
		&customerInfo,
		&items,
		&order.Subtotal,
		&order.Shipping,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(customerInfo), &order.CustomerInfo); err != nil {
		return nil, fmt.Errorf("failed to decode customer info of %s: %w", order.OrderID, err)
	}
	if err := json.Unmarshal([]byte(items), &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items of %s: %w", order.OrderID, err)
	}
	return &order, nil
}
