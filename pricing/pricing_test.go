package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type line struct {
	price float64
	qty   int
}

func (l line) UnitPrice() float64 { return l.price }
func (l line) Units() int         { return l.qty }

func TestDeliveryFeeThreshold(t *testing.T) {
	tests := []struct {
		subtotal float64
		fee      float64
	}{
		{subtotal: 500, fee: FlatDeliveryFee},
		{subtotal: 999, fee: FlatDeliveryFee},
		{subtotal: 999.01, fee: 0},
		{subtotal: 1000, fee: 0},
		{subtotal: 0, fee: FlatDeliveryFee},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.fee, DeliveryFee(tt.subtotal), "subtotal %v", tt.subtotal)
	}
}

func TestNewQuote(t *testing.T) {
	q := NewQuote([]line{{price: 250, qty: 2}})
	assert.Equal(t, Quote{Subtotal: 500, DeliveryFee: 99, Total: 599}, q)

	q = NewQuote([]line{{price: 400, qty: 1}, {price: 300, qty: 2}})
	assert.Equal(t, Quote{Subtotal: 1000, DeliveryFee: 0, Total: 1000}, q)

	q = NewQuote([]line{{price: 333, qty: 3}})
	assert.Equal(t, Quote{Subtotal: 999, DeliveryFee: 99, Total: 1098}, q)
}

func TestSubtotalAvoidsFloatDrift(t *testing.T) {
	lines := make([]line, 0, 10)
	for i := 0; i < 10; i++ {
		lines = append(lines, line{price: 0.1, qty: 1})
	}
	assert.Equal(t, 1.0, Subtotal(lines))
	assert.Equal(t, 10, ItemCount(lines))
}
