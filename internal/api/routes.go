package api

import (
	"subscription-checkout-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine) {
	// Initialize session-backed auth
	middleware.InitAuth()

	// API route group
	api := r.Group("/api")
	api.Use(middleware.CustomerAuthMiddleware())
	{
		// Sign-in routes (anonymous)
		auth := api.Group("/auth")
		{
			auth.POST("/send-code", SendSignInCode)
			auth.POST("/verify-code", VerifySignInCode)
		}

		// Purchase gating
		api.GET("/products/:id/purchase-allowed", GetPurchaseAllowed)

		// Cart routes
		cart := api.Group("/cart")
		{
			cart.GET("", GetCart)
			cart.DELETE("", ClearCart)
			cart.POST("/items", AddCartItem)
			cart.GET("/pending-order", GetCartPendingOrder)
		}

		// Pay-for-order entry point; engages the renewal cart flow when the
		// request carries the pay-for-order marker, order id and order key
		api.GET("/checkout/pay-for-order", PayForOrder)

		// Subscription history (owner only)
		api.GET("/subscriptions", middleware.RequireCustomer(), GetSubscriptions)

		// Order invoice email (owner only)
		orders := api.Group("/orders")
		orders.Use(middleware.RequireCustomer())
		{
			orders.POST("/:id/send-invoice", SendOrderInvoice)
		}

		// Flash notices queued for the session
		api.GET("/notices", GetNotices)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "subscription-checkout-service",
		})
	})
}
