package api

import (
	"net/http"
	"strconv"

	"subscription-checkout-api/internal/middleware"
	"subscription-checkout-api/internal/response"
	"subscription-checkout-api/internal/services"
	"subscription-checkout-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// PayForOrder is the pay-for-order entry point. It hands the request to the
// renewal cart service and interprets the discriminated result: guard misses
// fall through to default checkout behavior, everything else is a redirect.
// GET /api/checkout/pay-for-order?pay_for_order=true&order_id=...&key=...
func PayForOrder(c *gin.Context) {
	orderID, _ := strconv.ParseUint(c.Query("order_id"), 10, 64)

	req := services.PayForOrderRequest{
		OrderID:     uint(orderID),
		OrderKey:    c.Query("key"),
		PayForOrder: c.Query("pay_for_order") == "true",
		CustomerID:  middleware.CustomerID(c),
		SessionID:   middleware.SessionID(c),
	}

	sessions := services.NewSessionService()
	cartService := services.NewRenewalCartService(sessions, services.NewWebhookService())

	result, err := cartService.MaybeSetupCart(c.Request.Context(), req)
	if err != nil {
		logging.Errorf("Pay-for-order setup failed for order %d: %v", req.OrderID, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to set up checkout")
		return
	}

	switch result.Action {
	case services.ActionRedirect:
		c.Redirect(http.StatusFound, result.RedirectURL)

	case services.ActionNoticeRedirect:
		if err := sessions.AddNotice(c.Request.Context(), req.SessionID,
			result.NoticeKind, result.NoticeMessage); err != nil {
			logging.Errorf("Failed to queue notice for session %s: %v", req.SessionID, err)
		}
		c.Redirect(http.StatusFound, result.RedirectURL)

	case services.ActionCheckoutRedirect:
		c.Redirect(http.StatusFound, result.RedirectURL)

	default:
		// Guard did not engage; default checkout continues
		response.SuccessJSON(c, gin.H{"engaged": false})
	}
}
