package controller

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront-orders/service"
)

// OrderController exposes committed orders to customers and to the invoicing sync
type OrderController struct {
	service   service.OrderServiceInterface
	syncToken string
	logger    *zap.SugaredLogger
}

// NewOrderController creates a new OrderController. An empty syncToken disables the sync feed.
func NewOrderController(svc service.OrderServiceInterface, syncToken string, logger *zap.SugaredLogger) *OrderController {
	return &OrderController{service: svc, syncToken: syncToken, logger: logger}
}

// ListOrders handles GET /api/orders?user_id=...
func (c *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, r.URL.Query().Get("user_id"))
	orders, err := c.service.ListUserOrders(r.Context(), userID)
	if err != nil {
		writeError(w, "ListOrders", err, c.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"orders":  orders,
		"count":   len(orders),
	}, c.logger)
}

// GetOrder handles GET /api/orders/{orderID}?user_id=...
func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	userID := resolveUser(r, r.URL.Query().Get("user_id"))

	order, err := c.service.GetOrderDetail(r.Context(), orderID, userID)
	if err != nil {
		writeError(w, "GetOrder", err, c.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "order": order}, c.logger)
}

// SyncOrders handles GET /api/sync/orders?limit=100 for the local invoicing tools.
// Requires the X-Sync-Token header.
func (c *OrderController) SyncOrders(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Sync-Token")
	if c.syncToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(c.syncToken)) != 1 {
		c.logger.Warnf("⚠️ SyncOrders: rejected request from %s", r.RemoteAddr)
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid sync token", ErrorType: "Unauthorized"}, c.logger)
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeBadRequest(w, "SyncOrders", "limit must be a positive integer", c.logger)
			return
		}
		limit = parsed
	}

	orders, err := c.service.ListForSync(r.Context(), limit)
	if err != nil {
		writeError(w, "SyncOrders", err, c.logger)
		return
	}
	c.logger.Infof("🔄 SyncOrders: served %d orders", len(orders))
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "orders": orders, "count": len(orders)}, c.logger)
}
