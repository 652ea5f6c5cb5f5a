package api

import (
	"fmt"
	"net/http"
	"strconv"

	"subscription-checkout-api/internal/config"
	"subscription-checkout-api/internal/database"
	"subscription-checkout-api/internal/middleware"
	"subscription-checkout-api/internal/response"
	"subscription-checkout-api/internal/services"

	"github.com/gin-gonic/gin"
)

// SendOrderInvoice emails the owner of an order awaiting payment a link to
// complete it through the pay-for-order flow
// POST /api/orders/:id/send-invoice
func SendOrderInvoice(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Invalid order id")
		return
	}

	order, err := database.GetOrderByID(uint(orderID))
	if err != nil {
		response.ErrorJSON(c, http.StatusNotFound, "Order not found")
		return
	}

	customerID := middleware.CustomerID(c)
	if !services.CustomerCanPay(customerID, order) {
		response.ErrorJSON(c, http.StatusForbidden, "That doesn't appear to be your order.")
		return
	}
	if !order.AwaitingPayment() {
		response.ErrorJSON(c, http.StatusConflict, "Order is not awaiting payment")
		return
	}

	customer, err := database.GetCustomerByID(customerID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load customer")
		return
	}

	payURL := fmt.Sprintf("%s?pay_for_order=true&order_id=%d&key=%s",
		config.AppConfig.CheckoutURL, order.ID, order.OrderKey)

	emailService := services.NewEmailService()
	if err := emailService.SendPaymentInvoiceEmail(c.Request.Context(), customer, order, payURL); err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to send invoice email")
		return
	}

	response.SuccessJSON(c, gin.H{"sent": true})
}
