package api

import (
	"net/http"
	"strconv"

	"subscription-checkout-api/internal/database"
	"subscription-checkout-api/internal/middleware"
	"subscription-checkout-api/internal/response"
	"subscription-checkout-api/internal/services"

	"github.com/gin-gonic/gin"
)

// PurchaseAllowedResponse represents a purchase eligibility response
type PurchaseAllowedResponse struct {
	ProductID uint   `json:"product_id"`
	Allowed   bool   `json:"allowed"`
	Policy    string `json:"policy"`
}

// GetPurchaseAllowed reports whether the current customer may purchase the product
// GET /api/products/:id/purchase-allowed
func GetPurchaseAllowed(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid product id")
		return
	}

	product, err := database.GetProductByID(uint(productID))
	if err != nil {
		response.ErrorJSON(c, http.StatusNotFound, "Product not found")
		return
	}

	eligibility := services.NewEligibilityService()
	customerID := middleware.CustomerID(c)

	response.SuccessJSON(c, PurchaseAllowedResponse{
		ProductID: product.ID,
		Allowed:   eligibility.IsPurchaseAllowed(customerID, product),
		Policy:    eligibility.ResolvePolicy(product),
	})
}
