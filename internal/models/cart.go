package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// InitialPaymentMarker tags a cart line as the initial payment of a prior
// order so checkout finalization can trace the line back to that order.
// At most one line per cart carries it.
type InitialPaymentMarker struct {
	OrderID uint `json:"order_id"`
}

// CartLine is one entry in the transient shopping cart
type CartLine struct {
	Key            string                `json:"key"`
	ProductID      uint                  `json:"product_id"`
	Quantity       int                   `json:"quantity"`
	Subtotal       float64               `json:"subtotal"`
	Total          float64               `json:"total"`
	Tax            float64               `json:"tax"`
	Meta           string                `json:"meta,omitempty"`
	InitialPayment *InitialPaymentMarker `json:"initial_payment,omitempty"`
}

// Cart is the session-scoped shopping cart. It is stored as JSON in Redis
// for the lifetime of the session and never persisted beyond it.
type Cart struct {
	Items []CartLine `json:"items"`
	Hash  string     `json:"hash,omitempty"`
}

// NewCart returns an empty cart
func NewCart() *Cart {
	return &Cart{Items: []CartLine{}}
}

// InitialPaymentLine returns the first line carrying the initial payment
// marker, or nil when none exists. A nil result is a normal outcome, not
// an error.
func (c *Cart) InitialPaymentLine() *CartLine {
	for i := range c.Items {
		if c.Items[i].InitialPayment != nil {
			return &c.Items[i]
		}
	}
	return nil
}

// ComputeHash returns a deterministic digest of the cart contents.
// Rebuilding the same cart from unchanged order data yields the same hash,
// which lets repeat pay-for-order requests be treated as idempotent.
func (c *Cart) ComputeHash() string {
	data, err := json.Marshal(c.Items)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Notice is a user-visible flash message surfaced on the next rendered page
type Notice struct {
	Kind    string `json:"kind"` // success, notice, error
	Message string `json:"message"`
}
