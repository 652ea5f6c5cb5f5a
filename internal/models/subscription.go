package models

// Subscription statuses
const (
	SubscriptionStatusPending       = "pending"
	SubscriptionStatusActive        = "active"
	SubscriptionStatusOnHold        = "on-hold"
	SubscriptionStatusCancelled     = "cancelled"
	SubscriptionStatusExpired       = "expired"
	SubscriptionStatusPendingCancel = "pending-cancel"
	SubscriptionStatusSwitched      = "switched"
)

// Subscription represents a customer's recurring commitment to one or more
// products. Subscriptions are never deleted, only moved to a terminal status.
type Subscription struct {
	BaseModel
	CustomerID    uint   `json:"customer_id" gorm:"not null;index"`
	Status        string `json:"status" gorm:"not null;size:20;index"`
	PaymentCount  int    `json:"payment_count" gorm:"default:0"` // successful payments processed against it
	ParentOrderID uint   `json:"parent_order_id" gorm:"index"`   // the order that created the subscription

	Items []SubscriptionItem `json:"items" gorm:"foreignKey:SubscriptionID;constraint:OnDelete:CASCADE"`
}

// SubscriptionItem is one product line on a subscription
type SubscriptionItem struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	SubscriptionID uint    `json:"subscription_id" gorm:"not null;index"`
	ProductID      uint    `json:"product_id" gorm:"not null;index"`
	Quantity       int     `json:"quantity" gorm:"default:1"`
	Subtotal       float64 `json:"subtotal"`
	Total          float64 `json:"total"`
}

// HasProduct reports whether any line of the subscription references productID
func (s *Subscription) HasProduct(productID uint) bool {
	for _, item := range s.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
