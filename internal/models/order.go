package models

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusFailed     = "failed"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order creation channels
const (
	OrderCreatedViaCheckout    = "checkout"
	OrderCreatedViaResubscribe = "resubscribe"
)

// Order is a point-in-time commercial transaction. OrderKey acts as a
// capability token for the pay-for-order flow and must match the key
// presented in the request before the order is even looked at.
type Order struct {
	BaseModel
	CustomerID uint    `json:"customer_id" gorm:"not null;index"`
	OrderKey   string  `json:"order_key" gorm:"size:64;uniqueIndex;not null"`
	Status     string  `json:"status" gorm:"not null;size:20;index"`
	CreatedVia string  `json:"created_via" gorm:"size:20;default:'checkout'"`
	Total      float64 `json:"total"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is one product line on an order. Meta carries whatever serialized
// data is needed to faithfully reproduce the line in a rebuilt cart.
type OrderItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"order_id" gorm:"not null;index"`
	ProductID uint    `json:"product_id" gorm:"not null;index"`
	Quantity  int     `json:"quantity" gorm:"default:1"`
	Subtotal  float64 `json:"subtotal"`
	Total     float64 `json:"total"`
	Tax       float64 `json:"tax"`
	Meta      string  `json:"meta" gorm:"type:text"`
}

// AwaitingPayment reports whether the order can still be paid for
func (o *Order) AwaitingPayment() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusFailed
}
