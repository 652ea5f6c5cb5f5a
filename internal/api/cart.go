package api

import (
	"net/http"

	"subscription-checkout-api/internal/database"
	"subscription-checkout-api/internal/middleware"
	"subscription-checkout-api/internal/models"
	"subscription-checkout-api/internal/response"
	"subscription-checkout-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetCart returns the session cart
// GET /api/cart
func GetCart(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	if sessionID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "Missing session")
		return
	}

	cart, err := services.NewSessionService().GetCart(c.Request.Context(), sessionID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	response.SuccessJSON(c, cart)
}

// ClearCart removes the session cart
// DELETE /api/cart
func ClearCart(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	if sessionID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "Missing session")
		return
	}

	if err := services.NewSessionService().ClearCart(c.Request.Context(), sessionID); err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to clear cart")
		return
	}
	response.SuccessJSON(c, gin.H{"cleared": true})
}

// AddCartItemRequest represents an add-to-cart request
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// AddCartItem adds a product to the session cart, subject to the product's
// purchase limitation policy
// POST /api/cart/items
func AddCartItem(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	if sessionID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "Missing session")
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "product_id is required")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	product, err := database.GetProductByID(req.ProductID)
	if err != nil {
		response.ErrorJSON(c, http.StatusNotFound, "Product not found")
		return
	}

	customerID := middleware.CustomerID(c)
	if !services.NewEligibilityService().IsPurchaseAllowed(customerID, product) {
		response.ErrorJSON(c, http.StatusForbidden,
			"You have an active subscription to this product and cannot purchase it again")
		return
	}

	sessions := services.NewSessionService()
	cart, err := sessions.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load cart")
		return
	}

	cart.Items = append(cart.Items, models.CartLine{
		Key:       uuid.NewString(),
		ProductID: product.ID,
		Quantity:  req.Quantity,
		Subtotal:  product.Price * float64(req.Quantity),
		Total:     product.Price * float64(req.Quantity),
	})
	cart.Hash = cart.ComputeHash()

	if err := sessions.SaveCart(c.Request.Context(), sessionID, cart); err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to save cart")
		return
	}
	response.SuccessJSON(c, cart)
}

// CartPendingOrderResponse describes the order a cart line is completing
type CartPendingOrderResponse struct {
	Found       bool          `json:"found"`
	CartLineKey string        `json:"cart_line_key,omitempty"`
	Order       *models.Order `json:"order,omitempty"`
}

// GetCartPendingOrder locates the initial payment line in the session cart
// and resolves the order it is completing. An empty result is a normal
// outcome, not an error.
// GET /api/cart/pending-order
func GetCartPendingOrder(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	if sessionID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "Missing session")
		return
	}

	sessions := services.NewSessionService()
	cart, err := sessions.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load cart")
		return
	}

	cartService := services.NewRenewalCartService(sessions, services.NewWebhookService())
	line := cartService.FindInitialPaymentCartLine(cart)
	if line == nil {
		response.SuccessJSON(c, CartPendingOrderResponse{Found: false})
		return
	}

	order, err := cartService.ResolveOrderForCartLine(cart, line)
	if err != nil || order == nil {
		response.SuccessJSON(c, CartPendingOrderResponse{Found: false})
		return
	}

	response.SuccessJSON(c, CartPendingOrderResponse{
		Found:       true,
		CartLineKey: line.Key,
		Order:       order,
	})
}
