package database

import (
	"subscription-checkout-api/internal/models"
)

// CreateProduct creates a product
func CreateProduct(product *models.Product) error {
	return DB.Create(product).Error
}

// GetProductByID gets a product by ID
func GetProductByID(productID uint) (*models.Product, error) {
	var product models.Product
	err := DB.First(&product, productID).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
