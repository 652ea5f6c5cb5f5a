package services

import (
	"context"
	"fmt"
	"testing"

	"subscription-checkout-api/internal/config"
	"subscription-checkout-api/internal/database"
	"subscription-checkout-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCartService() (*RenewalCartService, *SessionService) {
	sessions := NewSessionService()
	return NewRenewalCartService(sessions, nil), sessions
}

func TestMaybeSetupCart_GuardMisses(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	customer := createTestCustomer(t, "owner@example.com")
	product := createTestProduct(t, models.ProductTypeSubscription, models.LimitationNone)

	pending := createTestOrder(t, customer.ID, models.OrderStatusPending,
		models.OrderCreatedViaCheckout, true, testOrderItems(product.ID))
	completed := createTestOrder(t, customer.ID, models.OrderStatusCompleted,
		models.OrderCreatedViaCheckout, true, testOrderItems(product.ID))
	resubscribe := createTestOrder(t, customer.ID, models.OrderStatusPending,
		models.OrderCreatedViaResubscribe, true, testOrderItems(product.ID))
	noSubscription := createTestOrder(t, customer.ID, models.OrderStatusPending,
		models.OrderCreatedViaCheckout, false, testOrderItems(product.ID))

	tests := []struct {
		name string
		req  PayForOrderRequest
	}{
		{"marker absent", PayForOrderRequest{OrderID: pending.ID, OrderKey: pending.OrderKey, CustomerID: customer.ID}},
		{"order missing", PayForOrderRequest{PayForOrder: true, OrderID: 99999, OrderKey: pending.OrderKey, CustomerID: customer.ID}},
		{"key mismatch", PayForOrderRequest{PayForOrder: true, OrderID: pending.ID, OrderKey: "wrong-key", CustomerID: customer.ID}},
		{"key empty", PayForOrderRequest{PayForOrder: true, OrderID: pending.ID, CustomerID: customer.ID}},
		{"order already completed", PayForOrderRequest{PayForOrder: true, OrderID: completed.ID, OrderKey: completed.OrderKey, CustomerID: customer.ID}},
		{"resubscribe order", PayForOrderRequest{PayForOrder: true, OrderID: resubscribe.ID, OrderKey: resubscribe.OrderKey, CustomerID: customer.ID}},
		{"no subscription behind order", PayForOrderRequest{PayForOrder: true, OrderID: noSubscription.ID, OrderKey: noSubscription.OrderKey, CustomerID: customer.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, sessions := newTestCartService()
			tt.req.SessionID = "guard-session"

			result, err := service.MaybeSetupCart(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, ActionContinue, result.Action)

			// Guard misses are silent: no redirect, no cart mutation
			assert.Empty(t, result.RedirectURL)
			cart, err := sessions.GetCart(ctx, "guard-session")
			require.NoError(t, err)
			assert.Empty(t, cart.Items)
		})
	}
}

func TestMaybeSetupCart_Unauthenticated(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	customer := createTestCustomer(t, "owner@example.com")
	product := createTestProduct(t, models.ProductTypeSubscription, models.LimitationNone)
	order := createTestOrder(t, customer.ID, models.OrderStatusPending,
		models.OrderCreatedViaCheckout, true, testOrderItems(product.ID))

	service, sessions := newTestCartService()
	result, err := service.MaybeSetupCart(ctx, PayForOrderRequest{
		PayForOrder: true,
		OrderID:     order.ID,
		OrderKey:    order.OrderKey,
		SessionID:   "anon-session",
	})
	require.NoError(t, err)

	// Sign-in redirect preserves the pending intent in query parameters
	assert.Equal(t, ActionRedirect, result.Action)
	expected := fmt.Sprintf("%s?pay_for_order=true&order_id=%d", config.AppConfig.SignInURL, order.ID)
	assert.Equal(t, expected, result.RedirectURL)

	cart, err := sessions.GetCart(ctx, "anon-session")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestMaybeSetupCart_WrongOwner(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	owner := createTestCustomer(t, "owner@example.com")
	stranger := createTestCustomer(t, "stranger@example.com")
	product := createTestProduct(t, models.ProductTypeSubscription, models.LimitationNone)
	order := createTestOrder(t, owner.ID, models.OrderStatusPending,
		models.OrderCreatedViaCheckout, true, testOrderItems(product.ID))

	service, sessions := newTestCartService()
	result, err := service.MaybeSetupCart(ctx, PayForOrderRequest{
		PayForOrder: true,
		OrderID:     order.ID,
		OrderKey:    order.OrderKey,
		CustomerID:  stranger.ID,
		SessionID:   "stranger-session",
	})
	require.NoError(t, err)

	assert.Equal(t, ActionNoticeRedirect, result.Action)
	assert.Equal(t, "error", result.NoticeKind)
	assert.Contains(t, result.NoticeMessage, "your order")
	assert.Equal(t, config.AppConfig.AccountURL, result.RedirectURL)

	cart, err := sessions.GetCart(ctx, "stranger-session")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	pendingID, err := sessions.GetOrderAwaitingPayment(ctx, "stranger-session")
	require.NoError(t, err)
	assert.Zero(t, pendingID)
}

func TestMaybeSetupCart_Success(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	customer := createTestCustomer(t, "owner@example.com")
	product := createTestProduct(t, models.ProductTypeSubscription, models.LimitationNone)
	order := createTestOrder(t, customer.ID, models.OrderStatusPending,
		models.OrderCreatedViaCheckout, true, testOrderItems(product.ID))

	service, sessions := newTestCartService()
	req := PayForOrderRequest{
		PayForOrder: true,
		OrderID:     order.ID,
		OrderKey:    order.OrderKey,
		CustomerID:  customer.ID,
		SessionID:   "owner-session",
	}

	result, err := service.MaybeSetupCart(ctx, req)
	require.NoError(t, err)
	require.Equal(t, ActionCheckoutRedirect, result.Action)
	assert.Equal(t, config.AppConfig.CheckoutURL, result.RedirectURL)
	require.NotNil(t, result.Cart)

	// One-to-one, order-preserving projection of the order's line items
	stored, err := database.GetOrderByID(order.ID)
	require.NoError(t, err)
	cart, err := sessions.GetCart(ctx, "owner-session")
	require.NoError(t, err)
	require.Len(t, cart.Items, len(stored.Items))
	for i, item := range stored.Items {
		assert.Equal(t, item.ProductID, cart.Items[i].ProductID)
		assert.Equal(t, item.Quantity, cart.Items[i].Quantity)
		assert.Equal(t, item.Subtotal, cart.Items[i].Subtotal)
		assert.Equal(t, item.Total, cart.Items[i].Total)
		assert.Equal(t, item.Tax, cart.Items[i].Tax)
		assert.Equal(t, item.Meta, cart.Items[i].Meta)
	}

	// Exactly one line carries the initial payment marker, tracing back to
	// the order
	marked := 0
	for _, line := range cart.Items {
		if line.InitialPayment != nil {
			marked++
			assert.Equal(t, order.ID, line.InitialPayment.OrderID)
		}
	}
	assert.Equal(t, 1, marked)

	// Session records the order this checkout is completing
	pendingID, err := sessions.GetOrderAwaitingPayment(ctx, "owner-session")
	require.NoError(t, err)
	assert.Equal(t, order.ID, pendingID)

	// Repeating the call with unchanged order data is idempotent
	firstHash := cart.Hash
	require.NotEmpty(t, firstHash)
	again, err := service.MaybeSetupCart(ctx, req)
	require.NoError(t, err)
	require.Equal(t, ActionCheckoutRedirect, again.Action)
	assert.Equal(t, firstHash, again.Cart.Hash)
	assert.Equal(t, cart.Items, again.Cart.Items)
}

func TestMaybeSetupCart_HashChangesWithOrderData(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	customer := createTestCustomer(t, "owner@example.com")
	product := createTestProduct(t, models.ProductTypeSubscription, models.LimitationNone)
	order := createTestOrder(t, customer.ID, models.OrderStatusPending,
		models.OrderCreatedViaCheckout, true, testOrderItems(product.ID))

	service, _ := newTestCartService()
	req := PayForOrderRequest{
		PayForOrder: true,
		OrderID:     order.ID,
		OrderKey:    order.OrderKey,
		CustomerID:  customer.ID,
		SessionID:   "owner-session",
	}

	first, err := service.MaybeSetupCart(ctx, req)
	require.NoError(t, err)

	require.NoError(t, database.DB.Model(&models.OrderItem{}).
		Where("order_id = ?", order.ID).
		Update("quantity", 7).Error)

	second, err := service.MaybeSetupCart(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, first.Cart.Hash, second.Cart.Hash)
}

func TestBuildCartFromOrder_DeterministicKeys(t *testing.T) {
	setupTestEnv(t)
	customer := createTestCustomer(t, "owner@example.com")
	product := createTestProduct(t, models.ProductTypeSubscription, models.LimitationNone)
	order := createTestOrder(t, customer.ID, models.OrderStatusPending,
		models.OrderCreatedViaCheckout, true, testOrderItems(product.ID))

	stored, err := database.GetOrderByID(order.ID)
	require.NoError(t, err)

	first := BuildCartFromOrder(stored)
	second := BuildCartFromOrder(stored)
	require.Equal(t, first.Items, second.Items)
	assert.Equal(t, first.Hash, second.Hash)

	// Keys are distinct per line
	keys := map[string]bool{}
	for _, line := range first.Items {
		assert.False(t, keys[line.Key])
		keys[line.Key] = true
	}
}

func TestFindInitialPaymentCartLine(t *testing.T) {
	setupTestEnv(t)
	service, _ := newTestCartService()

	assert.Nil(t, service.FindInitialPaymentCartLine(nil))
	assert.Nil(t, service.FindInitialPaymentCartLine(models.NewCart()))

	cart := models.NewCart()
	cart.Items = append(cart.Items,
		models.CartLine{Key: "plain", ProductID: 1},
		models.CartLine{Key: "marked", ProductID: 2, InitialPayment: &models.InitialPaymentMarker{OrderID: 42}},
	)
	line := service.FindInitialPaymentCartLine(cart)
	require.NotNil(t, line)
	assert.Equal(t, "marked", line.Key)
}

func TestResolveOrderForCartLine(t *testing.T) {
	setupTestEnv(t)
	customer := createTestCustomer(t, "owner@example.com")
	product := createTestProduct(t, models.ProductTypeSubscription, models.LimitationNone)
	order := createTestOrder(t, customer.ID, models.OrderStatusPending,
		models.OrderCreatedViaCheckout, true, testOrderItems(product.ID))

	service, _ := newTestCartService()

	// No line supplied: the initial payment line is located first
	cart := BuildCartFromOrder(order)
	resolved, err := service.ResolveOrderForCartLine(cart, nil)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, order.ID, resolved.ID)

	// A cart without the marker resolves to nothing, silently
	resolved, err = service.ResolveOrderForCartLine(models.NewCart(), nil)
	require.NoError(t, err)
	assert.Nil(t, resolved)

	// A marker pointing at a vanished order resolves to nothing, silently
	gone := &models.CartLine{InitialPayment: &models.InitialPaymentMarker{OrderID: 99999}}
	resolved, err = service.ResolveOrderForCartLine(nil, gone)
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestCustomerCanPay(t *testing.T) {
	order := &models.Order{CustomerID: 7}

	assert.True(t, CustomerCanPay(7, order))
	assert.False(t, CustomerCanPay(8, order))
	assert.False(t, CustomerCanPay(0, order))
	assert.False(t, CustomerCanPay(7, nil))
}
