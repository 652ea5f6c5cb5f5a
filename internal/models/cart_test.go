package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_InitialPaymentLine(t *testing.T) {
	cart := NewCart()
	assert.Nil(t, cart.InitialPaymentLine())

	cart.Items = append(cart.Items,
		CartLine{Key: "a", ProductID: 1},
		CartLine{Key: "b", ProductID: 2, InitialPayment: &InitialPaymentMarker{OrderID: 10}},
		CartLine{Key: "c", ProductID: 3, InitialPayment: &InitialPaymentMarker{OrderID: 11}},
	)

	// First marked line wins
	line := cart.InitialPaymentLine()
	require.NotNil(t, line)
	assert.Equal(t, "b", line.Key)
	assert.Equal(t, uint(10), line.InitialPayment.OrderID)
}

func TestCart_ComputeHash(t *testing.T) {
	cart := NewCart()
	cart.Items = append(cart.Items, CartLine{Key: "a", ProductID: 1, Quantity: 2, Total: 5})

	first := cart.ComputeHash()
	require.NotEmpty(t, first)
	assert.Equal(t, first, cart.ComputeHash())

	// Any content change changes the digest
	cart.Items[0].Quantity = 3
	assert.NotEqual(t, first, cart.ComputeHash())

	// The stored hash itself does not feed the digest
	cart.Items[0].Quantity = 2
	cart.Hash = "whatever"
	assert.Equal(t, first, cart.ComputeHash())
}
