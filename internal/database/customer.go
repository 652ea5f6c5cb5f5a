package database

import (
	"subscription-checkout-api/internal/models"

	"gorm.io/gorm"
)

// GetCustomerByID gets a customer by ID
func GetCustomerByID(customerID uint) (*models.Customer, error) {
	var customer models.Customer
	err := DB.First(&customer, customerID).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetOrCreateCustomerByEmail finds a customer by email, creating the
// account on first sign-in
func GetOrCreateCustomerByEmail(email string) (*models.Customer, error) {
	var customer models.Customer
	err := DB.Where("email = ?", email).First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	customer = models.Customer{Email: email}
	if err := DB.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
