package controller

import (
	"net/http"

	"go.uber.org/zap"

	"storefront-orders/models"
	"storefront-orders/service"
)

// CartController handles HTTP requests for the shopping cart
type CartController struct {
	service service.CartServiceInterface
	logger  *zap.SugaredLogger
}

// NewCartController creates a new CartController
func NewCartController(svc service.CartServiceInterface, logger *zap.SugaredLogger) *CartController {
	return &CartController{service: svc, logger: logger}
}

type cartResponse struct {
	Success bool `json:"success"`
	*models.Cart
}

// GetCart handles GET /api/cart?user_id=...
// Example response:
// {
//   "success": true,
//   "user_id": "0991234567",
//   "items": [{"product_id": "W-7841", "code": "W-7841", "name": "Cuaderno", "price": 1.80, "quantity": 5}],
//   "total": 9.00
// }
func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, r.URL.Query().Get("user_id"))
	cart, err := c.service.GetCart(r.Context(), userID)
	if err != nil {
		writeError(w, "GetCart", err, c.logger)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Success: true, Cart: cart}, c.logger)
}

// Add handles POST /api/cart/add
// Example request:
// POST /api/cart/add
// {
//   "user_id": "0991234567",
//   "product_id": "W-7841",
//   "quantity": 5,
//   "price": 1.80
// }
func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	var req models.AddToCartRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "AddToCart", "invalid request body: "+err.Error(), c.logger)
		return
	}
	userID := resolveUser(r, req.UserID)
	c.logger.Debugf("📥 AddToCart: user=%s product=%s qty=%d", userID, req.ProductID, req.Quantity)

	cart, err := c.service.Add(r.Context(), userID, req.ProductID, req.Quantity, req.Price)
	if err != nil {
		writeError(w, "AddToCart", err, c.logger)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Success: true, Cart: cart}, c.logger)
}

// Update handles POST /api/cart/update
// Example request: {"user_id": "0991234567", "product_id": "W-7841", "quantity": 12}
func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCartItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "UpdateCart", "invalid request body: "+err.Error(), c.logger)
		return
	}

	cart, err := c.service.UpdateQuantity(r.Context(), resolveUser(r, req.UserID), req.ProductID, req.Quantity, req.Price)
	if err != nil {
		writeError(w, "UpdateCart", err, c.logger)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Success: true, Cart: cart}, c.logger)
}

// Remove handles POST /api/cart/remove
func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	var req models.RemoveCartItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "RemoveFromCart", "invalid request body: "+err.Error(), c.logger)
		return
	}

	cart, err := c.service.Remove(r.Context(), resolveUser(r, req.UserID), req.ProductID)
	if err != nil {
		writeError(w, "RemoveFromCart", err, c.logger)
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Success: true, Cart: cart}, c.logger)
}

// Clear handles POST /api/cart/clear
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	var req models.ClearCartRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "ClearCart", "invalid request body: "+err.Error(), c.logger)
		return
	}

	userID := resolveUser(r, req.UserID)
	if err := c.service.Clear(r.Context(), userID); err != nil {
		writeError(w, "ClearCart", err, c.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user_id": userID}, c.logger)
}

// Total handles GET /api/cart/total?user_id=...
func (c *CartController) Total(w http.ResponseWriter, r *http.Request) {
	userID := resolveUser(r, r.URL.Query().Get("user_id"))
	total, err := c.service.Total(r.Context(), userID)
	if err != nil {
		writeError(w, "CartTotal", err, c.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user_id": userID, "total": total}, c.logger)
}
