package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront-orders/models"
	"storefront-orders/pricing"
	"storefront-orders/repository"
	"storefront-orders/utils"
)

// CartService implements the per-user cart on top of a catalog and a cart store.
// Concurrent mutations of the same cart are last-writer-wins.
type CartService struct {
	catalog repository.CatalogRepositoryInterface
	carts   repository.CartRepositoryInterface
	logger  *zap.SugaredLogger
}

// NewCartService creates a new CartService
func NewCartService(catalog repository.CatalogRepositoryInterface, carts repository.CartRepositoryInterface, logger *zap.SugaredLogger) *CartService {
	return &CartService{catalog: catalog, carts: carts, logger: logger}
}

// Ensure CartService implements CartServiceInterface
var _ CartServiceInterface = (*CartService)(nil)

// GetCart returns the user's lines and their total
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	items, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.cartOf(ctx, userID, items)
}

// Add puts quantity units of productRef in the cart, merging with an existing line.
// A valid clientPrice becomes the locked price; otherwise the price is computed from the
// product tiers at the resulting quantity. Unknown products are added as placeholders.
func (s *CartService) Add(ctx context.Context, userID, productRef string, quantity int, clientPrice *float64) (*models.Cart, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	ref := strings.TrimSpace(productRef)
	if ref == "" {
		return nil, newNotFound(productRef, "product reference is empty")
	}
	if quantity <= 0 {
		return nil, newInvalidData(ref, "quantity", "quantity must be positive")
	}

	items, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := findLine(items, ref)
	var product *models.Product
	if idx < 0 {
		product, err = s.resolveProduct(ctx, ref)
		if err != nil {
			return nil, err
		}
		idx = findLine(items, product.ID)
	}

	price, hasClientPrice := utils.ClientPrice(clientPrice)

	if idx >= 0 {
		line := &items[idx]
		line.Quantity += quantity
		if hasClientPrice {
			line.UnitPrice = price
		} else {
			if product == nil {
				product, err = s.resolveProduct(ctx, line.ProductID)
				if err != nil {
					return nil, err
				}
			}
			line.UnitPrice = pricing.PriceForQuantity(product.Tiers, line.Quantity)
		}
		s.logger.Infof("📦 AddToCart: user=%s merged %s, qty=%d, price=%s", userID, line.ProductID, line.Quantity, line.UnitPrice.StringFixed(2))
	} else {
		if !hasClientPrice {
			price = pricing.PriceForQuantity(product.Tiers, quantity)
		}
		items = append(items, models.CartItem{
			ProductID:   product.ID,
			Code:        product.Code,
			Name:        product.Name,
			UnitPrice:   price,
			Quantity:    quantity,
			Placeholder: product.IsPlaceholder(),
		})
		s.logger.Infof("📦 AddToCart: user=%s added %s (%s), qty=%d, price=%s", userID, product.ID, product.Kind, quantity, price.StringFixed(2))
	}

	if err := s.save(ctx, userID, items); err != nil {
		return nil, err
	}
	return s.cartOf(ctx, userID, items)
}

// UpdateQuantity sets the quantity of a line; quantity <= 0 removes it.
// A valid clientPrice replaces the locked price. Without one, the locked price is kept
// and only recomputed when it is not usable.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productRef string, quantity int, clientPrice *float64) (*models.Cart, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	ref := strings.TrimSpace(productRef)
	if ref == "" {
		return nil, newNotFound(productRef, "product reference is empty")
	}

	items, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := findLine(items, ref)
	if idx < 0 {
		if quantity <= 0 {
			return s.cartOf(ctx, userID, items)
		}
		return nil, newNotFound(ref, "product is not in the cart")
	}

	if quantity <= 0 {
		s.logger.Infof("🗑️ UpdateCart: user=%s removed %s", userID, items[idx].ProductID)
		items = append(items[:idx], items[idx+1:]...)
	} else {
		line := &items[idx]
		line.Quantity = quantity
		if price, ok := utils.ClientPrice(clientPrice); ok {
			line.UnitPrice = price
		} else if !utils.UsablePrice(line.UnitPrice) {
			product, err := s.resolveProduct(ctx, line.ProductID)
			if err != nil {
				return nil, err
			}
			line.UnitPrice = pricing.PriceForQuantity(product.Tiers, quantity)
		}
		s.logger.Infof("📦 UpdateCart: user=%s set %s qty=%d, price=%s", userID, line.ProductID, quantity, line.UnitPrice.StringFixed(2))
	}

	if err := s.save(ctx, userID, items); err != nil {
		return nil, err
	}
	return s.cartOf(ctx, userID, items)
}

// Remove deletes the line for productRef. Removing an absent line is a no-op.
func (s *CartService) Remove(ctx context.Context, userID, productRef string) (*models.Cart, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	items, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := findLine(items, strings.TrimSpace(productRef))
	if idx < 0 {
		return s.cartOf(ctx, userID, items)
	}
	items = append(items[:idx], items[idx+1:]...)

	if err := s.save(ctx, userID, items); err != nil {
		return nil, err
	}
	return s.cartOf(ctx, userID, items)
}

// Clear empties the user's cart
func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.carts.Clear(ctx, userID); err != nil {
		return newPersistenceFailed("failed to clear cart", err)
	}
	s.logger.Infof("🗑️ ClearCart: user=%s", userID)
	return nil
}

// Total sums the locked line prices of the user's cart
func (s *CartService) Total(ctx context.Context, userID string) (decimal.Decimal, error) {
	if err := requireUser(userID); err != nil {
		return decimal.Zero, err
	}
	items, err := s.load(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.total(ctx, items)
}

// total uses each line's locked price; lines without a usable price are priced from the catalog
func (s *CartService) total(ctx context.Context, items []models.CartItem) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, item := range items {
		price := item.UnitPrice
		if !utils.UsablePrice(price) {
			product, err := s.resolveProduct(ctx, item.ProductID)
			if err != nil {
				return decimal.Zero, err
			}
			price = pricing.PriceForQuantity(product.Tiers, item.Quantity)
		}
		sum = sum.Add(pricing.LineTotal(price, item.Quantity))
	}
	return utils.RoundMoney(sum), nil
}

func (s *CartService) cartOf(ctx context.Context, userID string, items []models.CartItem) (*models.Cart, error) {
	total, err := s.total(ctx, items)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return &models.Cart{UserID: userID, Items: items, Total: total}, nil
}

// resolveProduct looks ref up in the catalog, falling back to a placeholder product on a miss
func (s *CartService) resolveProduct(ctx context.Context, ref string) (*models.Product, error) {
	product, err := s.catalog.FindProduct(ctx, ref)
	if errors.Is(err, repository.ErrProductNotFound) {
		s.logger.Warnf("⚠️ ResolveProduct: %s not in catalog, using placeholder", ref)
		return models.NewPlaceholderProduct(ref), nil
	}
	if err != nil {
		return nil, newPersistenceFailed("failed to look up product", err)
	}
	return product, nil
}

func (s *CartService) load(ctx context.Context, userID string) ([]models.CartItem, error) {
	items, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, newPersistenceFailed("failed to load cart", err)
	}
	return items, nil
}

func (s *CartService) save(ctx context.Context, userID string, items []models.CartItem) error {
	if err := s.carts.Save(ctx, userID, items); err != nil {
		s.logger.Errorf("❌ SaveCart: user=%s: %v", userID, err)
		return newPersistenceFailed("failed to save cart", err)
	}
	return nil
}

// findLine returns the index of the line whose product matches ref or one of its key variants
func findLine(items []models.CartItem, ref string) int {
	candidates := utils.ProductRefCandidates(ref)
	for i, item := range items {
		for _, candidate := range candidates {
			if strings.EqualFold(item.ProductID, candidate) {
				return i
			}
		}
	}
	return -1
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return newInvalidData("", "user_id", "user id is required")
	}
	return nil
}
