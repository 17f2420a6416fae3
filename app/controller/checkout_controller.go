package controller

import (
	"net/http"

	"go.uber.org/zap"

	"storefront-orders/models"
	"storefront-orders/service"
)

// CheckoutController turns carts into orders
type CheckoutController struct {
	service service.CheckoutServiceInterface
	logger  *zap.SugaredLogger
}

// NewCheckoutController creates a new CheckoutController
func NewCheckoutController(svc service.CheckoutServiceInterface, logger *zap.SugaredLogger) *CheckoutController {
	return &CheckoutController{service: svc, logger: logger}
}

type checkoutResponse struct {
	Success bool `json:"success"`
	*models.CheckoutResult
}

// Checkout handles POST /api/checkout
// Example request:
// POST /api/checkout
// {
//   "user_id": "0991234567",
//   "customer_info": {"cedula": "0991234567", "nombres": "Ana Torres", "direccion": "Av. 9 de Octubre 100",
//                     "provincia": "Guayas", "ciudad": "Guayaquil", "whatsapp": "0991234567"}
// }
// Example response:
// {
//   "success": true,
//   "order_id": "ORD_000234567_20261015_143000",
//   "comprobante": "001-002-000234567",
//   "subtotal": 9.00,
//   "shipping": 8.00,
//   "total": 17.00,
//   "status": "pending",
//   "items_count": 1
// }
func (c *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "Checkout", "invalid request body: "+err.Error(), c.logger)
		return
	}
	req.UserID = resolveUser(r, req.UserID)

	result, err := c.service.Checkout(r.Context(), &req)
	if err != nil {
		writeError(w, "Checkout", err, c.logger)
		return
	}

	c.logger.Infof("✅ Checkout: order=%s total=%s", result.OrderID, result.Total.StringFixed(2))
	writeJSON(w, http.StatusOK, checkoutResponse{Success: true, CheckoutResult: result}, c.logger)
}
