package api

import (
	"net/http"
	"sort"

	"subscription-checkout-api/internal/database"
	"subscription-checkout-api/internal/middleware"
	"subscription-checkout-api/internal/response"
	"subscription-checkout-api/pkg/ordering"

	"github.com/gin-gonic/gin"
)

// GetSubscriptions returns the authenticated customer's subscriptions,
// newest first, optionally filtered by status
// GET /api/subscriptions?status=active
func GetSubscriptions(c *gin.Context) {
	customerID := middleware.CustomerID(c)

	subscriptions, err := database.GetSubscriptionsByCustomer(customerID, c.Query("status"))
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load subscriptions")
		return
	}

	byCreated := ordering.NewComparator(ordering.ByCreatedAt())
	sort.SliceStable(subscriptions, func(i, j int) bool {
		return byCreated.Descending(subscriptions[i], subscriptions[j]) < 0
	})

	response.SuccessJSON(c, gin.H{"subscriptions": subscriptions})
}
