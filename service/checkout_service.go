package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront-orders/models"
	"storefront-orders/pricing"
	"storefront-orders/repository"
	"storefront-orders/utils"
)

// CheckoutConfig holds the checkout parameters taken from configuration
type CheckoutConfig struct {
	SourceTag string
	Shipping  decimal.Decimal
	// MaxAttempts is the total number of secondary-store writes tried before giving up
	MaxAttempts int
	// BaseDelay is the wait after the first failed attempt; it doubles after each further failure
	BaseDelay time.Duration
}

// ReceiptPublisher receives every committed order. Publish must not block the checkout.
type ReceiptPublisher interface {
	Publish(order *models.Order)
}

// CheckoutServiceInterface defines the contract for turning a cart into an order
type CheckoutServiceInterface interface {
	Checkout(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutResult, error)
}

// CheckoutService commits an order to the primary store and replicates it to the secondary store.
// Both stores end up with the order or neither does: the primary transaction stays open until the
// secondary write succeeds and is rolled back otherwise.
type CheckoutService struct {
	carts    repository.CartRepositoryInterface
	orders   repository.OrderRepositoryInterface
	replicas repository.UnifiedOrderRepositoryInterface
	receipts ReceiptPublisher
	cfg      CheckoutConfig
	now      func() time.Time
	newID    func(tag, userID string, now time.Time) string
	logger   *zap.SugaredLogger
}

// NewCheckoutService creates a new CheckoutService. receipts may be nil.
func NewCheckoutService(
	carts repository.CartRepositoryInterface,
	orders repository.OrderRepositoryInterface,
	replicas repository.UnifiedOrderRepositoryInterface,
	receipts ReceiptPublisher,
	cfg CheckoutConfig,
	logger *zap.SugaredLogger,
) *CheckoutService {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &CheckoutService{
		carts:    carts,
		orders:   orders,
		replicas: replicas,
		receipts: receipts,
		cfg:      cfg,
		now:      time.Now,
		newID:    utils.GenerateOrderID,
		logger:   logger,
	}
}

// Ensure CheckoutService implements CheckoutServiceInterface
var _ CheckoutServiceInterface = (*CheckoutService)(nil)

// Checkout validates the user's cart, writes the order to both stores and empties the cart.
// Validation errors are returned before anything is written.
func (s *CheckoutService) Checkout(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutResult, error) {
	saga := newCheckoutSaga(uuid.NewString(), s.logger)
	userID := strings.TrimSpace(req.UserID)

	s.logger.Infof("🛒 Checkout[%s]: Starting for user=%s", saga.attemptID, userID)

	// Validated
	if userID == "" {
		return nil, saga.fail(newInvalidData("", "user_id", "user id is required"))
	}
	items, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, saga.fail(newPersistenceFailed("failed to load cart", err))
	}
	if err := validateCart(userID, items); err != nil {
		return nil, saga.fail(err)
	}
	if field := req.CustomerInfo.MissingField(); field != "" {
		return nil, saga.fail(newInvalidData("", "customer_info."+field, fmt.Sprintf("%s is required", field)))
	}

	subtotal, usedClientSubtotal := orderSubtotal(items, req.ClientSubtotal)
	if !subtotal.IsPositive() {
		return nil, saga.fail(newInvalidData("", "subtotal", "order subtotal must be greater than zero"))
	}
	shipping := s.cfg.Shipping
	total := subtotal.Add(shipping)
	if err := saga.advance(StateValidated); err != nil {
		return nil, saga.fail(newPersistenceFailed("checkout state", err))
	}

	// IdAssigned
	saga.orderID = s.assignOrderID(userID)
	if err := saga.advance(StateIDAssigned); err != nil {
		return nil, saga.fail(newPersistenceFailed("checkout state", err))
	}

	order := buildOrder(saga.orderID, userID, req.CustomerInfo, items, subtotal, shipping, total)
	s.logger.Infof("💰 Checkout[%s]: order=%s subtotal=%s shipping=%s total=%s client_subtotal=%t",
		saga.attemptID, order.OrderID, subtotal.StringFixed(2), shipping.StringFixed(2), total.StringFixed(2), usedClientSubtotal)

	// PrimaryWritten
	tx, err := s.orders.Begin(ctx)
	if err != nil {
		return nil, saga.fail(newPersistenceFailed("failed to open primary transaction", err))
	}
	if err := tx.InsertOrder(ctx, order); err != nil {
		s.rollback(saga, tx)
		return nil, saga.fail(newPersistenceFailed("failed to write order", err))
	}
	if err := saga.advance(StatePrimaryWritten); err != nil {
		s.rollback(saga, tx)
		return nil, saga.fail(newPersistenceFailed("checkout state", err))
	}

	// SecondaryReplicated
	record := buildUnifiedOrder(order)
	if err := s.replicate(ctx, saga, record); err != nil {
		s.rollback(saga, tx)
		// a failed attempt may still have landed
		s.compensate(ctx, saga, order.OrderID)
		return nil, saga.fail(newReplicationFailed(order.OrderID, s.cfg.MaxAttempts, err))
	}
	if err := saga.advance(StateSecondaryReplicated); err != nil {
		s.rollback(saga, tx)
		s.compensate(ctx, saga, order.OrderID)
		return nil, saga.fail(newPersistenceFailed("checkout state", err))
	}

	// Committed
	if err := tx.Commit(); err != nil {
		s.compensate(ctx, saga, order.OrderID)
		return nil, saga.fail(newPersistenceFailed("failed to commit order", err))
	}
	if err := saga.advance(StateCommitted); err != nil {
		s.logger.Errorf("❌ Checkout[%s]: %v", saga.attemptID, err)
	}
	s.logger.Infof("✅ Checkout[%s]: Committed order=%s in both stores", saga.attemptID, order.OrderID)

	// The order stands even if the cart cannot be emptied
	if err := s.clearOrdered(ctx, userID, items); err != nil {
		s.logger.Warnf("⚠️ Checkout[%s]: order=%s committed but cart of user=%s not cleared: %v", saga.attemptID, order.OrderID, userID, err)
	}

	if s.receipts != nil {
		s.receipts.Publish(order)
	}

	return &models.CheckoutResult{
		OrderID:            order.OrderID,
		AttemptID:          saga.attemptID,
		Comprobante:        record.Comprobante,
		Subtotal:           subtotal,
		Shipping:           shipping,
		Total:              total,
		Status:             order.Status,
		ItemsCount:         len(order.Items),
		UsedClientSubtotal: usedClientSubtotal,
	}, nil
}

// replicate writes record to the secondary store, retrying with exponential backoff
func (s *CheckoutService) replicate(ctx context.Context, saga *checkoutSaga, record *models.UnifiedOrder) error {
	delay := s.cfg.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		lastErr = s.replicas.Upsert(ctx, record)
		if lastErr == nil {
			if attempt > 1 {
				s.logger.Infof("✅ Checkout[%s]: order=%s replicated on attempt %d", saga.attemptID, record.OrderID, attempt)
			}
			return nil
		}

		s.logger.Warnf("⚠️ Checkout[%s]: replication attempt %d/%d for order=%s failed: %v",
			saga.attemptID, attempt, s.cfg.MaxAttempts, record.OrderID, lastErr)
		if attempt == s.cfg.MaxAttempts {
			break
		}
		if err := wait(ctx, delay); err != nil {
			return fmt.Errorf("replication interrupted after attempt %d: %w", attempt, err)
		}
		delay *= 2
	}

	return lastErr
}

func (s *CheckoutService) rollback(saga *checkoutSaga, tx repository.OrderTx) {
	if err := tx.Rollback(); err != nil {
		s.logger.Errorf("❌ Checkout[%s]: rollback of order=%s failed: %v", saga.attemptID, saga.orderID, err)
	}
}

// compensate removes a secondary record whose primary counterpart could not be committed
func (s *CheckoutService) compensate(ctx context.Context, saga *checkoutSaga, orderID string) {
	if err := s.replicas.Delete(context.WithoutCancel(ctx), orderID); err != nil {
		s.logger.Errorf("❌ Checkout[%s]: order=%s may be left in secondary store: %v", saga.attemptID, orderID, err)
	}
}

// assignOrderID generates the order id and regenerates it with the default tag if it is malformed
func (s *CheckoutService) assignOrderID(userID string) string {
	orderID := s.newID(s.cfg.SourceTag, userID, s.now())
	if !utils.ValidOrderID(orderID) {
		s.logger.Warnf("⚠️ Checkout: malformed order id %q, regenerating", orderID)
		orderID = utils.GenerateOrderID(utils.DefaultOrderSourceTag, userID, s.now())
	}
	return orderID
}

// clearOrdered empties the cart when it still holds exactly the ordered lines.
// Lines written by a concurrent add after the cart was read are kept.
func (s *CheckoutService) clearOrdered(ctx context.Context, userID string, ordered []models.CartItem) error {
	current, err := s.carts.Load(ctx, userID)
	if err != nil {
		return err
	}
	var remaining []models.CartItem
	for _, item := range current {
		if !containsLine(ordered, item) {
			remaining = append(remaining, item)
		}
	}
	if len(remaining) == 0 {
		return s.carts.Clear(ctx, userID)
	}
	s.logger.Infof("🛒 Checkout: user=%s keeps %d cart lines added during checkout", userID, len(remaining))
	return s.carts.Save(ctx, userID, remaining)
}

func containsLine(items []models.CartItem, line models.CartItem) bool {
	for _, item := range items {
		if item.ProductID == line.ProductID && item.Quantity == line.Quantity && item.UnitPrice.Equal(line.UnitPrice) {
			return true
		}
	}
	return false
}

func validateCart(userID string, items []models.CartItem) error {
	if len(items) == 0 {
		return newEmptyCart(userID)
	}
	for i, item := range items {
		ref := item.ProductID
		if strings.TrimSpace(ref) == "" {
			return newInvalidData(fmt.Sprintf("#%d", i+1), "product_id", "product id is missing")
		}
		if item.Quantity <= 0 {
			return newInvalidData(ref, "quantity", "quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return newInvalidData(ref, "price", "price cannot be negative")
		}
	}
	return nil
}

// orderSubtotal prefers a valid caller-supplied subtotal and otherwise sums the locked line prices
func orderSubtotal(items []models.CartItem, clientSubtotal *float64) (decimal.Decimal, bool) {
	if subtotal, ok := utils.ClientSubtotal(clientSubtotal); ok {
		return subtotal, true
	}
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(pricing.LineTotal(item.UnitPrice, item.Quantity))
	}
	return utils.RoundMoney(sum), false
}

func buildOrder(orderID, userID string, info models.CustomerInfo, items []models.CartItem, subtotal, shipping, total decimal.Decimal) *models.Order {
	order := &models.Order{
		OrderID:      orderID,
		UserID:       userID,
		Subtotal:     subtotal,
		Shipping:     shipping,
		Total:        total,
		Status:       models.OrderStatusPending,
		CustomerInfo: info,
		Items:        make([]models.OrderItem, 0, len(items)),
	}
	for i, item := range items {
		code := item.Code
		if code == "" {
			code = item.ProductID
		}
		name := item.Name
		if name == "" {
			name = code
		}
		order.Items = append(order.Items, models.OrderItem{
			LineNo:    i + 1,
			ProductID: item.ProductID,
			Code:      code,
			Name:      name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: utils.RoundMoney(item.LineTotal()),
		})
	}
	return order
}

// buildUnifiedOrder maps an order to the record layout of the secondary store
func buildUnifiedOrder(order *models.Order) *models.UnifiedOrder {
	record := &models.UnifiedOrder{
		OrderID:      order.OrderID,
		UserID:       order.UserID,
		Source:       models.UnifiedOrderSourcePWA,
		Comprobante:  utils.Comprobante(order.OrderID),
		CustomerInfo: order.CustomerInfo,
		Items:        make([]models.UnifiedOrderItem, 0, len(order.Items)),
		Subtotal:     order.Subtotal,
		Shipping:     order.Shipping,
		Total:        order.Total,
		Status:       order.Status,
	}
	for _, item := range order.Items {
		record.Items = append(record.Items, models.UnifiedOrderItem{
			Code:     strings.ToUpper(item.Code),
			Name:     utils.DisplayName(item.Code, item.Name),
			Quantity: item.Quantity,
			Price:    item.UnitPrice.InexactFloat64(),
			Subtotal: item.LineTotal.InexactFloat64(),
		})
	}
	return record
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
