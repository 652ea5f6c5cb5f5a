package middleware

import (
	"net/http"
	"strings"

	"subscription-checkout-api/internal/response"
	"subscription-checkout-api/internal/services"

	"github.com/gin-gonic/gin"
)

var Sessions *services.SessionService

// InitAuth initializes the session service used for token resolution
func InitAuth() {
	Sessions = services.NewSessionService()
}

// CustomerAuthMiddleware resolves the current customer from a bearer token.
// Anonymous requests are allowed through with customer ID 0; guarded flows
// decide themselves how to treat an unauthenticated customer.
func CustomerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)

		var customerID uint
		if token != "" {
			id, err := Sessions.GetCustomerIDByToken(c.Request.Context(), token)
			if err != nil {
				response.ErrorJSON(c, http.StatusInternalServerError, "Failed to resolve session")
				c.Abort()
				return
			}
			customerID = id
		}

		// The cart session follows the sign-in token; anonymous carts use a
		// caller-supplied session id.
		sessionID := token
		if sessionID == "" {
			sessionID = c.GetHeader("X-Session-ID")
		}
		if sessionID == "" {
			sessionID = c.Query("session_id")
		}

		c.Set("customer_id", customerID)
		c.Set("session_id", sessionID)
		c.Next()
	}
}

// RequireCustomer aborts with 401 unless a customer is authenticated
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CustomerID(c) == 0 {
			response.ErrorJSON(c, http.StatusUnauthorized, "Sign in required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CustomerID returns the authenticated customer ID for the request, 0 when anonymous
func CustomerID(c *gin.Context) uint {
	if v, ok := c.Get("customer_id"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// SessionID returns the cart session key for the request
func SessionID(c *gin.Context) string {
	if v, ok := c.Get("session_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if token := c.GetHeader("X-Customer-Token"); token != "" {
		return token
	}
	return c.Query("customer_token")
}
