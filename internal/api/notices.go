package api

import (
	"net/http"

	"subscription-checkout-api/internal/middleware"
	"subscription-checkout-api/internal/response"
	"subscription-checkout-api/internal/services"

	"github.com/gin-gonic/gin"
)

// GetNotices drains and returns the flash notices queued for the session
// GET /api/notices
func GetNotices(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	if sessionID == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "Missing session")
		return
	}

	notices, err := services.NewSessionService().TakeNotices(c.Request.Context(), sessionID)
	if err != nil {
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to load notices")
		return
	}
	response.SuccessJSON(c, gin.H{"notices": notices})
}
