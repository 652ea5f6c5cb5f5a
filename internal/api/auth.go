package api

import (
	"net/http"

	"subscription-checkout-api/internal/response"
	"subscription-checkout-api/internal/services"

	"github.com/gin-gonic/gin"
)

// SendSignInCodeRequest represents a send-code request
type SendSignInCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SendSignInCode sends a one-time sign-in code by email
// POST /api/auth/send-code
func SendSignInCode(c *gin.Context) {
	var req SendSignInCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "A valid email is required")
		return
	}

	authService := services.NewAuthService(services.NewSessionService(), services.NewEmailService())
	if err := authService.SendSignInCode(c.Request.Context(), req.Email); err != nil {
		response.ErrorJSON(c, http.StatusTooManyRequests, err.Error())
		return
	}

	response.SuccessJSON(c, gin.H{"sent": true})
}

// VerifySignInCodeRequest represents a verify-code request
type VerifySignInCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// VerifySignInCodeResponse carries the issued bearer token
type VerifySignInCodeResponse struct {
	CustomerID uint   `json:"customer_id"`
	Email      string `json:"email"`
	Token      string `json:"token"`
}

// VerifySignInCode verifies a sign-in code and issues a bearer token
// POST /api/auth/verify-code
func VerifySignInCode(c *gin.Context) {
	var req VerifySignInCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Email and code are required")
		return
	}

	authService := services.NewAuthService(services.NewSessionService(), services.NewEmailService())
	customer, token, err := authService.VerifySignInCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		response.ErrorJSON(c, http.StatusUnauthorized, "Invalid or expired code")
		return
	}

	response.SuccessJSON(c, VerifySignInCodeResponse{
		CustomerID: customer.ID,
		Email:      customer.Email,
		Token:      token,
	})
}
