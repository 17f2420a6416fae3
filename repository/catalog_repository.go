package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"storefront-orders/models"
	"storefront-orders/utils"
)

// CatalogRepository looks products up in the primary store's products table
type CatalogRepository struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *sql.DB, logger *zap.SugaredLogger) *CatalogRepository {
	return &CatalogRepository{db: db, logger: logger}
}

// Ensure CatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

// FindProduct tries every key variant of ref against product_id and code, exact matches first
func (r *CatalogRepository) FindProduct(ctx context.Context, ref string) (*models.Product, error) {
	query := `
		SELECT product_id, code, name, unit_price, wholesale_price, bulk_price
		FROM products
		WHERE UPPER(product_id) = UPPER($1) OR UPPER(code) = UPPER($1)
		ORDER BY CASE WHEN product_id = $1 OR code = $1 THEN 0 ELSE 1 END, product_id
		LIMIT 1
	`

	for _, candidate := range utils.ProductRefCandidates(ref) {
		var p models.Product
		err := r.db.QueryRowContext(ctx, query, candidate).Scan(
			&p.ID,
			&p.Code,
			&p.Name,
			&p.Tiers.Unit,
			&p.Tiers.Wholesale,
			&p.Tiers.Bulk,
		)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			r.logger.Errorf("❌ FindProduct: Error querying product %s: %v", candidate, err)
			return nil, fmt.Errorf("failed to query product: %w", err)
		}

		p.Kind = models.ProductResolved
		if candidate != ref {
			r.logger.Debugf("🔄 FindProduct: %s resolved through variant %s", ref, candidate)
		}
		return &p, nil
	}

	return nil, ErrProductNotFound
}

// SaveProduct inserts or replaces a catalog entry
func (r *CatalogRepository) SaveProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (product_id, code, name, unit_price, wholesale_price, bulk_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			unit_price = excluded.unit_price,
			wholesale_price = excluded.wholesale_price,
			bulk_price = excluded.bulk_price
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Code, p.Name, p.Tiers.Unit, p.Tiers.Wholesale, p.Tiers.Bulk)
	if err != nil {
		return fmt.Errorf("failed to save product %s: %w", p.ID, err)
	}
	return nil
}
