package services

import (
	"testing"

	"subscription-checkout-api/internal/config"
	"subscription-checkout-api/internal/database"
	"subscription-checkout-api/internal/models"
	"subscription-checkout-api/pkg/logging"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// setupTestEnv wires the package globals to an in-memory SQLite database
// and a miniredis instance for the duration of one test
func setupTestEnv(t *testing.T) {
	t.Helper()

	if err := config.InitConfig(); err != nil {
		t.Fatalf("failed to init config: %v", err)
	}
	logging.InitLogging()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	database.DB = db

	mr := miniredis.RunT(t)
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func createTestCustomer(t *testing.T, email string) *models.Customer {
	t.Helper()
	customer, err := database.GetOrCreateCustomerByEmail(email)
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}
	return customer
}

func createTestProduct(t *testing.T, productType, policy string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:             "Monthly Box",
		Type:             productType,
		Price:            9.99,
		LimitationPolicy: policy,
	}
	if err := database.CreateProduct(product); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return product
}

func createTestSubscription(t *testing.T, customerID, productID uint, status string, paymentCount int, parentOrderID uint) *models.Subscription {
	t.Helper()
	subscription := &models.Subscription{
		CustomerID:    customerID,
		Status:        status,
		PaymentCount:  paymentCount,
		ParentOrderID: parentOrderID,
		Items: []models.SubscriptionItem{
			{ProductID: productID, Quantity: 1, Subtotal: 9.99, Total: 9.99},
		},
	}
	if err := database.CreateSubscription(subscription); err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}
	return subscription
}

// createTestOrder creates an order plus, when withSubscription is set, the
// subscription it is the initial purchase of
func createTestOrder(t *testing.T, customerID uint, status, createdVia string, withSubscription bool, items []models.OrderItem) *models.Order {
	t.Helper()
	order := &models.Order{
		CustomerID: customerID,
		OrderKey:   uuid.NewString(),
		Status:     status,
		CreatedVia: createdVia,
		Items:      items,
	}
	for _, item := range items {
		order.Total += item.Total + item.Tax
	}
	if err := database.CreateOrder(order); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	if withSubscription && len(items) > 0 {
		createTestSubscription(t, customerID, items[0].ProductID,
			models.SubscriptionStatusPending, 0, order.ID)
	}
	return order
}

func testOrderItems(productID uint) []models.OrderItem {
	return []models.OrderItem{
		{ProductID: productID, Quantity: 1, Subtotal: 9.99, Total: 9.99, Tax: 0.5, Meta: `{"billing_period":"month"}`},
		{ProductID: productID, Quantity: 2, Subtotal: 4.00, Total: 3.50, Tax: 0.2},
	}
}
