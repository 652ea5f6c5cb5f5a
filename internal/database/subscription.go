package database

import (
	"subscription-checkout-api/internal/models"
)

// CreateSubscription creates a subscription with its line items
func CreateSubscription(subscription *models.Subscription) error {
	return DB.Create(subscription).Error
}

// GetSubscriptionsByCustomerAndProduct gets every subscription the customer
// holds that references the product on at least one line. The result is
// unbounded; eligibility decisions need the full history.
func GetSubscriptionsByCustomerAndProduct(customerID, productID uint) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	err := DB.Preload("Items").
		Where("customer_id = ? AND id IN (?)", customerID,
			DB.Model(&models.SubscriptionItem{}).
				Select("subscription_id").
				Where("product_id = ?", productID)).
		Find(&subscriptions).Error
	return subscriptions, err
}

// GetSubscriptionsByCustomer gets all subscriptions for a customer,
// optionally filtered by status (empty status means all)
func GetSubscriptionsByCustomer(customerID uint, status string) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	query := DB.Preload("Items").Where("customer_id = ?", customerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&subscriptions).Error
	return subscriptions, err
}
