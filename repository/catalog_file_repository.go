package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"storefront-orders/models"
	"storefront-orders/utils"
)

// FileCatalogRepository serves products from a JSON catalog file loaded at startup
type FileCatalogRepository struct {
	byKey  map[string]*models.Product
	logger *zap.SugaredLogger
}

// Ensure FileCatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*FileCatalogRepository)(nil)

// NewFileCatalogRepository reads a JSON array of products from path
func NewFileCatalogRepository(path string, logger *zap.SugaredLogger) (*FileCatalogRepository, error) {
	// Resolve catalog path
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var entries []models.CatalogFileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	repo, err := NewFileCatalogRepositoryFromEntries(entries, logger)
	if err != nil {
		return nil, err
	}

	logger.Infof("✅ FileCatalog: Loaded %d products from %s", len(entries), path)
	return repo, nil
}

// NewFileCatalogRepositoryFromEntries indexes already decoded catalog entries
func NewFileCatalogRepositoryFromEntries(entries []models.CatalogFileEntry, logger *zap.SugaredLogger) (*FileCatalogRepository, error) {
	repo := &FileCatalogRepository{
		byKey:  make(map[string]*models.Product, len(entries)*2),
		logger: logger,
	}

	for i, entry := range entries {
		if strings.TrimSpace(entry.ProductID) == "" {
			return nil, fmt.Errorf("invalid catalog entry %d: product_id is required", i)
		}
		code := entry.Code
		if code == "" {
			code = entry.ProductID
		}
		p := &models.Product{
			ID:   entry.ProductID,
			Code: code,
			Name: entry.Name,
			Tiers: models.TierPrices{
				Unit:      entry.UnitPrice,
				Wholesale: entry.WholesalePrice,
				Bulk:      entry.BulkPrice,
			},
			Kind: models.ProductResolved,
		}

		// product ids win over codes when both collide
		repo.byKey[strings.ToUpper(p.ID)] = p
		if key := strings.ToUpper(p.Code); repo.byKey[key] == nil {
			repo.byKey[key] = p
		}
	}

	return repo, nil
}

// FindProduct looks ref up case-insensitively, trying its hyphen variants in order
func (r *FileCatalogRepository) FindProduct(ctx context.Context, ref string) (*models.Product, error) {
	for _, candidate := range utils.ProductRefCandidates(ref) {
		if p, ok := r.byKey[strings.ToUpper(candidate)]; ok {
			found := *p
			return &found, nil
		}
	}
	return nil, ErrProductNotFound
}
