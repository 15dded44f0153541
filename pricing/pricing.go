// Package pricing computes cart and order totals.
//
// Amounts are summed as decimals and only converted back to float64 at the
// edge, so a long cart never drifts by a paisa.
package pricing

import "github.com/shopspring/decimal"

const (
	// FreeDeliveryThreshold is the subtotal a cart must exceed to ship for free.
	FreeDeliveryThreshold = 999
	// FlatDeliveryFee is charged on every order at or below the threshold.
	FlatDeliveryFee = 99
)

// Line is anything priced per unit with a quantity.
type Line interface {
	UnitPrice() float64
	Units() int
}

type Quote struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
}

func Subtotal[L Line](lines []L) float64 {
	return toFloat(subtotal(lines))
}

// ItemCount sums the quantities of all lines.
func ItemCount[L Line](lines []L) int {
	n := 0
	for _, l := range lines {
		n += l.Units()
	}
	return n
}

func DeliveryFee(subtotal float64) float64 {
	return toFloat(deliveryFee(decimal.NewFromFloat(subtotal)))
}

func NewQuote[L Line](lines []L) Quote {
	sub := subtotal(lines)
	fee := deliveryFee(sub)
	return Quote{
		Subtotal:    toFloat(sub),
		DeliveryFee: toFloat(fee),
		Total:       toFloat(sub.Add(fee)),
	}
}

func subtotal[L Line](lines []L) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.UnitPrice()).Mul(decimal.NewFromInt(int64(l.Units()))))
	}
	return sum
}

func deliveryFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(decimal.NewFromInt(FreeDeliveryThreshold)) {
		return decimal.Zero
	}
	return decimal.NewFromInt(FlatDeliveryFee)
}

func toFloat(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
