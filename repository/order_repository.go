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

// OrderRepository handles the orders and order_items tables of the primary store
type OrderRepository struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *sql.DB, logger *zap.SugaredLogger) *OrderRepository {
	return &OrderRepository{db: db, logger: logger}
}

// Ensure OrderRepository implements OrderRepositoryInterface
var _ OrderRepositoryInterface = (*OrderRepository)(nil)

// Begin opens a transaction for writing one order
func (r *OrderRepository) Begin(ctx context.Context) (OrderTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Errorf("❌ BeginOrder: Error starting transaction: %v", err)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	return &orderTx{tx: tx, logger: r.logger}, nil
}

type orderTx struct {
	tx     *sql.Tx
	logger *zap.SugaredLogger
}

// InsertOrder writes the header and one row per line item
func (o *orderTx) InsertOrder(ctx context.Context, order *models.Order) error {
	customerInfo, err := json.Marshal(order.CustomerInfo)
	if err != nil {
		return fmt.Errorf("failed to encode customer info: %w", err)
	}

	queryOrder := `
		INSERT INTO orders (order_id, user_id, subtotal, shipping, total, status, customer_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := o.tx.ExecContext(ctx, queryOrder,
		order.OrderID,
		order.UserID,
		order.Subtotal,
		order.Shipping,
		order.Total,
		order.Status,
		string(customerInfo),
	); err != nil {
		o.logger.Errorf("❌ InsertOrder: Error inserting order %s: %v", order.OrderID, err)
		return fmt.Errorf("failed to insert order: %w", err)
	}

	queryItem := `
		INSERT INTO order_items (order_id, line_no, product_id, code, name, unit_price, quantity, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, item := range order.Items {
		if _, err := o.tx.ExecContext(ctx, queryItem,
			order.OrderID,
			item.LineNo,
			item.ProductID,
			item.Code,
			item.Name,
			item.UnitPrice,
			item.Quantity,
			item.LineTotal,
		); err != nil {
			o.logger.Errorf("❌ InsertOrder: Error inserting line %d of order %s: %v", item.LineNo, order.OrderID, err)
			return fmt.Errorf("failed to insert order item %s: %w", item.ProductID, err)
		}
	}

	o.logger.Infof("📦 InsertOrder: Wrote order %s with %d lines (uncommitted)", order.OrderID, len(order.Items))
	return nil
}

func (o *orderTx) Commit() error {
	if err := o.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

func (o *orderTx) Rollback() error {
	if err := o.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back order: %w", err)
	}
	return nil
}

// GetByID returns an order with its lines, or ErrOrderNotFound
func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	query := `
		SELECT order_id, user_id, subtotal, shipping, total, status, customer_info, created_at
		FROM orders
		WHERE order_id = $1
	`
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		r.logger.Errorf("❌ GetOrder: Error fetching order %s: %v", orderID, err)
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	queryItems := `
		SELECT line_no, product_id, code, name, unit_price, quantity, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY line_no
	`
	rows, err := r.db.QueryContext(ctx, queryItems, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order items: %w", err)
	}
	defer rows.Close()

	order.Items = []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.LineNo, &item.ProductID, &item.Code, &item.Name, &item.UnitPrice, &item.Quantity, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	return order, nil
}

// ListByUser returns the user's order headers, newest first
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	query := `
		SELECT order_id, user_id, subtotal, shipping, total, status, customer_info, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, order_id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Errorf("❌ ListOrders: Error listing orders for user=%s: %v", userID, err)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var order models.Order
	var customerInfo string
	if err := row.Scan(
		&order.OrderID,
		&order.UserID,
		&order.Subtotal,
		&order.Shipping,
		&order.Total,
		&order.Status,
		&customerInfo,
		&order.CreatedAt,
	); err != nil {
		return nil, err
	}
	if customerInfo != "" {
		if err := json.Unmarshal([]byte(customerInfo), &order.CustomerInfo); err != nil {
			return nil, fmt.Errorf("failed to decode customer info of %s: %w", order.OrderID, err)
		}
	}
	return &order, nil
}
