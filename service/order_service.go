package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"storefront-orders/models"
	"storefront-orders/repository"
)

// OrderServiceInterface defines the contract for reading committed orders
type OrderServiceInterface interface {
	ListUserOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetOrderDetail(ctx context.Context, orderID, userID string) (*models.Order, error)
	ReplicaStatus(ctx context.Context, orderID string) (*models.ReplicaStatus, error)
	ListForSync(ctx context.Context, limit int) ([]models.UnifiedOrder, error)
}

// OrderService reads orders back from both stores
type OrderService struct {
	orders   repository.OrderRepositoryInterface
	replicas repository.UnifiedOrderRepositoryInterface
	logger   *zap.SugaredLogger
}

// NewOrderService creates a new OrderService
func NewOrderService(orders repository.OrderRepositoryInterface, replicas repository.UnifiedOrderRepositoryInterface, logger *zap.SugaredLogger) *OrderService {
	return &OrderService{orders: orders, replicas: replicas, logger: logger}
}

// Ensure OrderService implements OrderServiceInterface
var _ OrderServiceInterface = (*OrderService)(nil)

// ListUserOrders returns the user's orders newest first, with total derived as subtotal + shipping
func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, newPersistenceFailed("failed to list orders", err)
	}
	for i := range orders {
		orders[i].Total = orders[i].Subtotal.Add(orders[i].Shipping)
	}
	return orders, nil
}

// GetOrderDetail returns one order with its lines. Orders of other users are reported as not found.
func (s *OrderService) GetOrderDetail(ctx context.Context, orderID, userID string) (*models.Order, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)

	order, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, newNotFound(orderID, "order not found")
	}
	if err != nil {
		return nil, newPersistenceFailed("failed to fetch order", err)
	}
	if order.UserID != userID {
		s.logger.Warnf("⚠️ GetOrderDetail: user=%s asked for order %s of another user", userID, orderID)
		return nil, newNotFound(orderID, "order not found")
	}
	order.Total = order.Subtotal.Add(order.Shipping)
	return order, nil
}

// ReplicaStatus reports whether both stores hold the order and agree on its amounts
func (s *OrderService) ReplicaStatus(ctx context.Context, orderID string) (*models.ReplicaStatus, error) {
	status := &models.ReplicaStatus{OrderID: orderID}

	primary, err := s.orders.GetByID(ctx, orderID)
	switch {
	case err == nil:
		status.InPrimary = true
	case !errors.Is(err, repository.ErrOrderNotFound):
		return nil, newPersistenceFailed("failed to read primary order", err)
	}

	secondary, err := s.replicas.GetByID(ctx, orderID)
	switch {
	case err == nil:
		status.InSecondary = true
	case !errors.Is(err, repository.ErrOrderNotFound):
		return nil, newPersistenceFailed("failed to read secondary order", err)
	}

	if status.InPrimary && status.InSecondary {
		status.TotalsConsistent = primary.Subtotal.Equal(secondary.Subtotal) &&
			primary.Shipping.Equal(secondary.Shipping) &&
			primary.Total.Equal(secondary.Total)
	}
	if status.InPrimary != status.InSecondary || (status.InPrimary && !status.TotalsConsistent) {
		s.logger.Errorf("❌ ReplicaStatus: order %s diverges: primary=%t secondary=%t totals=%t",
			orderID, status.InPrimary, status.InSecondary, status.TotalsConsistent)
	}
	return status, nil
}

// ListForSync returns the latest secondary-store records for the invoicing tools
func (s *OrderService) ListForSync(ctx context.Context, limit int) ([]models.UnifiedOrder, error) {
	orders, err := s.replicas.List(ctx, limit)
	if err != nil {
		return nil, newPersistenceFailed("failed to list unified orders", err)
	}
	return orders, nil
}
