package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"subscription-checkout-api/internal/config"
	"subscription-checkout-api/internal/models"
	"subscription-checkout-api/pkg/logging"
)

// WebhookService notifies the store backend of checkout events
type WebhookService struct {
	httpClient *http.Client
}

// NewWebhookService creates a new webhook service
func NewWebhookService() *WebhookService {
	return &WebhookService{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WebhookPayload represents the payload sent to the store backend
type WebhookPayload struct {
	Event      string  `json:"event"`       // e.g., "renewal_cart.staged"
	OrderID    uint    `json:"order_id"`    // order the cart was rebuilt from
	CustomerID uint    `json:"customer_id"` // owning customer
	OrderTotal float64 `json:"order_total"`
	CartHash   string  `json:"cart_hash"` // digest of the rebuilt cart contents
	Timestamp  string  `json:"timestamp"` // ISO 8601 format
}

// NotifyRenewalCartStaged tells the store backend that a renewal cart was
// rebuilt from an order awaiting payment. Called in a goroutine to avoid
// blocking the request.
func (ws *WebhookService) NotifyRenewalCartStaged(order *models.Order, cart *models.Cart) {
	callbackURL := config.AppConfig.WebhookCallbackURL
	if callbackURL == "" {
		// No webhook configured, skip
		return
	}

	payload := WebhookPayload{
		Event:      "renewal_cart.staged",
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		OrderTotal: order.Total,
		CartHash:   cart.Hash,
		Timestamp:  time.Now().Format(time.RFC3339),
	}

	ws.sendWithRetry(callbackURL, config.AppConfig.WebhookSecret, payload)
}

// sendWithRetry sends a webhook with retries at 1s, 5s and 30s
func (ws *WebhookService) sendWithRetry(callbackURL string, secret string, payload WebhookPayload) {
	retryDelays := []time.Duration{1 * time.Second, 5 * time.Second, 30 * time.Second}
	maxRetries := len(retryDelays)

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := ws.sendWebhook(callbackURL, secret, payload)
		if err == nil {
			logging.Infof("Webhook sent successfully - url: %s, event: %s, order: %d, attempt: %d",
				callbackURL, payload.Event, payload.OrderID, attempt+1)
			return
		}

		logging.Errorf("Webhook failed - url: %s, event: %s, order: %d, attempt: %d, error: %v",
			callbackURL, payload.Event, payload.OrderID, attempt+1, err)

		// If not the last attempt, wait before retry
		if attempt < maxRetries-1 {
			time.Sleep(retryDelays[attempt])
		}
	}

	logging.Errorf("Webhook failed after %d attempts - url: %s, order: %d",
		maxRetries, callbackURL, payload.OrderID)
}

// sendWebhook sends a single webhook request
func (ws *WebhookService) sendWebhook(callbackURL string, secret string, payload WebhookPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest("POST", callbackURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "SubscriptionCheckout-Webhook/1.0")

	// Add signature if secret is provided
	if secret != "" {
		signature := ws.generateSignature(jsonData, secret)
		req.Header.Set("X-Checkout-Signature", signature)
	}

	resp, err := ws.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

// generateSignature generates HMAC-SHA256 signature for webhook payload
func (ws *WebhookService) generateSignature(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
