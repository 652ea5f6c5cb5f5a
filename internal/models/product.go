package models

// Product types
const (
	ProductTypeSimple                = "simple"
	ProductTypeSubscription          = "subscription"
	ProductTypeSubscriptionVariation = "subscription_variation"
)

// Limitation policies constraining new purchases of a subscription product.
// Any other value is treated as an explicit subscription status to match.
const (
	LimitationNone   = "none"
	LimitationActive = "active"
	LimitationAny    = "any"
)

// Product represents a purchasable item.
// Subscription variations resolve their limitation policy from ParentID.
type Product struct {
	BaseModel
	Name             string  `json:"name" gorm:"not null"`
	Type             string  `json:"type" gorm:"size:30;default:'simple';index"`
	ParentID         uint    `json:"parent_id" gorm:"index"`
	Price            float64 `json:"price"`
	LimitationPolicy string  `json:"limitation_policy" gorm:"size:30;default:'none'"`
}

// IsSubscription reports whether the product is sold on a recurring basis
func (p *Product) IsSubscription() bool {
	return p.Type == ProductTypeSubscription || p.Type == ProductTypeSubscriptionVariation
}

// IsVariation reports whether the product is a variation of a parent product
func (p *Product) IsVariation() bool {
	return p.Type == ProductTypeSubscriptionVariation && p.ParentID != 0
}
