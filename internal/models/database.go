package models

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel provides common fields for all database models
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// GetID returns the record identifier
func (m BaseModel) GetID() uint {
	return m.ID
}

// GetCreatedAt returns the record creation time
func (m BaseModel) GetCreatedAt() time.Time {
	return m.CreatedAt
}

// Customer represents a store customer account.
// Sign-in tokens are not persisted here; they live in Redis with a TTL.
type Customer struct {
	BaseModel
	Email string `json:"email" gorm:"uniqueIndex;not null"`
	Name  string `json:"name"`
}
