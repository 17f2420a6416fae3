package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"storefront-orders/models"
)

// CartRepository persists carts in the user_carts table, one row per line
type CartRepository struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewCartRepository creates a new CartRepository
func NewCartRepository(db *sql.DB, logger *zap.SugaredLogger) *CartRepository {
	return &CartRepository{db: db, logger: logger}
}

// Ensure CartRepository implements CartRepositoryInterface
var _ CartRepositoryInterface = (*CartRepository)(nil)

// Load returns the user's cart lines in insertion order. A user without a cart has no lines.
func (r *CartRepository) Load(ctx context.Context, userID string) ([]models.CartItem, error) {
	query := `
		SELECT product_id, code, name, unit_price, quantity, placeholder
		FROM user_carts
		WHERE user_id = $1
		ORDER BY line_no
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Errorf("❌ LoadCart: Error querying cart for user=%s: %v", userID, err)
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.ProductID, &item.Code, &item.Name, &item.UnitPrice, &item.Quantity, &item.Placeholder); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart items: %w", err)
	}

	return items, nil
}

// Save overwrites the user's cart with items in a single transaction
func (r *CartRepository) Save(ctx context.Context, userID string, items []models.CartItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_carts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear previous cart: %w", err)
	}

	insert := `
		INSERT INTO user_carts (user_id, line_no, product_id, code, name, unit_price, quantity, placeholder)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i, item := range items {
		if _, err := tx.ExecContext(ctx, insert,
			userID, i+1, item.ProductID, item.Code, item.Name, item.UnitPrice, item.Quantity, item.Placeholder,
		); err != nil {
			r.logger.Errorf("❌ SaveCart: Error inserting line %d for user=%s: %v", i+1, userID, err)
			return fmt.Errorf("failed to save cart item %s: %w", item.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cart: %w", err)
	}

	r.logger.Debugf("📦 SaveCart: Saved %d lines for user=%s", len(items), userID)
	return nil
}

// Clear removes every line of the user's cart
func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_carts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
