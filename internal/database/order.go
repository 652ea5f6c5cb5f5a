package database

import (
	"subscription-checkout-api/internal/models"

	"gorm.io/gorm"
)

// CreateOrder creates an order with its line items
func CreateOrder(order *models.Order) error {
	return DB.Create(order).Error
}

// GetOrderByID gets an order with its line items, in stored order
func GetOrderByID(orderID uint) (*models.Order, error) {
	var order models.Order
	err := DB.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_item.id ASC")
	}).First(&order, orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderHasSubscription reports whether the order is the parent (initial
// purchase) of at least one subscription
func OrderHasSubscription(orderID uint) (bool, error) {
	var count int64
	err := DB.Model(&models.Subscription{}).
		Where("parent_order_id = ?", orderID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
