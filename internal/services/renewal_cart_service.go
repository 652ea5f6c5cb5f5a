package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"subscription-checkout-api/internal/config"
	"subscription-checkout-api/internal/database"
	"subscription-checkout-api/internal/models"
	"subscription-checkout-api/pkg/logging"
)

// CartSetupAction discriminates the outcome of a pay-for-order request.
// The HTTP layer interprets it; the service never writes a response.
type CartSetupAction int

const (
	// ActionContinue means the guard did not engage; default checkout
	// behavior proceeds.
	ActionContinue CartSetupAction = iota
	// ActionRedirect is a plain redirect (sign-in with preserved intent)
	ActionRedirect
	// ActionNoticeRedirect is a user-visible notice followed by a redirect
	ActionNoticeRedirect
	// ActionCheckoutRedirect means the cart was rebuilt and checkout
	// should be entered
	ActionCheckoutRedirect
)

// CartSetupResult is the discriminated outcome of MaybeSetupCart
type CartSetupResult struct {
	Action        CartSetupAction
	RedirectURL   string
	NoticeKind    string
	NoticeMessage string
	Cart          *models.Cart
}

// PayForOrderRequest carries the request parameters of the pay-for-order
// entry point. CustomerID is 0 when no customer is authenticated.
type PayForOrderRequest struct {
	OrderID     uint
	OrderKey    string
	PayForOrder bool
	CustomerID  uint
	SessionID   string
}

// RenewalCartService rebuilds a cart from an order awaiting payment so the
// customer can complete that order exactly once through checkout.
type RenewalCartService struct {
	sessions *SessionService
	webhooks *WebhookService
}

// NewRenewalCartService creates a new renewal cart service
func NewRenewalCartService(sessions *SessionService, webhooks *WebhookService) *RenewalCartService {
	return &RenewalCartService{sessions: sessions, webhooks: webhooks}
}

// MaybeSetupCart engages the pay-for-order flow when the request names an
// order awaiting payment of an initial subscription purchase. Guard misses
// are silent: the flow simply does not engage and the caller's default
// checkout path continues.
func (s *RenewalCartService) MaybeSetupCart(ctx context.Context, req PayForOrderRequest) (*CartSetupResult, error) {
	if !req.PayForOrder || req.OrderID == 0 || req.OrderKey == "" {
		return &CartSetupResult{Action: ActionContinue}, nil
	}

	order, err := database.GetOrderByID(req.OrderID)
	if err != nil {
		return &CartSetupResult{Action: ActionContinue}, nil
	}
	if order.OrderKey != req.OrderKey {
		return &CartSetupResult{Action: ActionContinue}, nil
	}
	if !order.AwaitingPayment() {
		return &CartSetupResult{Action: ActionContinue}, nil
	}
	if order.CreatedVia == models.OrderCreatedViaResubscribe {
		return &CartSetupResult{Action: ActionContinue}, nil
	}
	hasSubscription, err := database.OrderHasSubscription(order.ID)
	if err != nil || !hasSubscription {
		return &CartSetupResult{Action: ActionContinue}, nil
	}

	if req.CustomerID == 0 {
		location := fmt.Sprintf("%s?pay_for_order=true&order_id=%d",
			config.AppConfig.SignInURL, order.ID)
		return &CartSetupResult{Action: ActionRedirect, RedirectURL: location}, nil
	}

	if !CustomerCanPay(req.CustomerID, order) {
		return &CartSetupResult{
			Action:        ActionNoticeRedirect,
			RedirectURL:   config.AppConfig.AccountURL,
			NoticeKind:    "error",
			NoticeMessage: "That doesn't appear to be your order.",
		}, nil
	}

	cart := BuildCartFromOrder(order)
	if err := s.sessions.SaveCart(ctx, req.SessionID, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	if err := s.sessions.SetOrderAwaitingPayment(ctx, req.SessionID, order.ID); err != nil {
		return nil, fmt.Errorf("failed to record pending order: %w", err)
	}

	logging.Infof("Renewal cart staged for order %d, customer %d, hash %s",
		order.ID, req.CustomerID, cart.Hash)
	if s.webhooks != nil {
		go s.webhooks.NotifyRenewalCartStaged(order, cart)
	}

	return &CartSetupResult{
		Action:      ActionCheckoutRedirect,
		RedirectURL: config.AppConfig.CheckoutURL,
		Cart:        cart,
	}, nil
}

// CustomerCanPay reports whether the customer is authorized to pay for the order
func CustomerCanPay(customerID uint, order *models.Order) bool {
	return order != nil && customerID != 0 && order.CustomerID == customerID
}

// BuildCartFromOrder rebuilds a cart whose lines are a one-to-one,
// order-preserving projection of the order's line items. The whole cart is
// replaced, never appended to, so at most one line ever carries the
// initial payment marker.
func BuildCartFromOrder(order *models.Order) *models.Cart {
	cart := models.NewCart()
	for i, item := range order.Items {
		line := models.CartLine{
			Key:       cartLineKey(order.ID, item),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
			Total:     item.Total,
			Tax:       item.Tax,
			Meta:      item.Meta,
		}
		if i == 0 {
			line.InitialPayment = &models.InitialPaymentMarker{OrderID: order.ID}
		}
		cart.Items = append(cart.Items, line)
	}
	cart.Hash = cart.ComputeHash()
	return cart
}

// cartLineKey derives a deterministic key for a rebuilt cart line, so
// rebuilding from unchanged order data yields identical cart contents
func cartLineKey(orderID uint, item models.OrderItem) string {
	seed := fmt.Sprintf("order:%d:item:%d:product:%d", orderID, item.ID, item.ProductID)
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:16])
}

// FindInitialPaymentCartLine returns the cart line carrying the initial
// payment marker, or nil when the cart holds none. Callers must treat nil
// as a normal outcome.
func (s *RenewalCartService) FindInitialPaymentCartLine(cart *models.Cart) *models.CartLine {
	if cart == nil {
		return nil
	}
	return cart.InitialPaymentLine()
}

// ResolveOrderForCartLine resolves the order a cart line is completing.
// With a nil line it first locates the initial payment line in the cart.
// Returns nil when the cart holds no such line or the order is gone.
func (s *RenewalCartService) ResolveOrderForCartLine(cart *models.Cart, line *models.CartLine) (*models.Order, error) {
	if line == nil {
		line = s.FindInitialPaymentCartLine(cart)
	}
	if line == nil || line.InitialPayment == nil {
		return nil, nil
	}

	order, err := database.GetOrderByID(line.InitialPayment.OrderID)
	if err != nil {
		return nil, nil
	}
	return order, nil
}
