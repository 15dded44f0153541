package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodWallet PaymentMethod = "wallet"
)

// forward position of each status on the delivery path; cancelled sits past the end
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
	OrderStatusCancelled:  5,
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

func (s OrderStatus) Rank() int {
	if r, ok := orderStatusRank[s]; ok {
		return r
	}
	return -1
}

// Terminal reports whether the status normally ends the lifecycle. It is not enforced.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// IsBackward reports whether moving from -> to walks the lifecycle backwards
// or reopens a terminal order.
func IsBackward(from, to OrderStatus) bool {
	if from == to {
		return false
	}
	if from.Terminal() {
		return true
	}
	return to.Rank() < from.Rank()
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodUPI, PaymentMethodCOD, PaymentMethodWallet:
		return true
	}
	return false
}

type ShippingAddress struct {
	FullName   string `json:"fullName,omitempty"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone,omitempty"`
}

// Missing lists the address fields a checkout cannot ship without.
func (a ShippingAddress) Missing() []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"address", a.Address},
		{"city", a.City},
		{"postalCode", a.PostalCode},
		{"country", a.Country},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func (a ShippingAddress) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *ShippingAddress) Scan(src interface{}) error {
	return scanJSON(src, a)
}

// OrderItem is the order-time copy of a product line.
type OrderItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Category string  `json:"category"`
}

func (i OrderItem) UnitPrice() float64 { return i.Price }
func (i OrderItem) Units() int         { return i.Quantity }

type OrderItems []OrderItem

func (items OrderItems) Value() (driver.Value, error) {
	if items == nil {
		items = OrderItems{}
	}
	return json.Marshal(items)
}

func (items *OrderItems) Scan(src interface{}) error {
	return scanJSON(src, items)
}

type Order struct {
	ID                string          `json:"id" db:"id"`
	CustomerID        string          `json:"customerId" db:"customer_id"`
	CustomerName      string          `json:"customerName" db:"customer_name"`
	CustomerEmail     string          `json:"customerEmail" db:"customer_email"`
	CustomerPhone     string          `json:"customerPhone,omitempty" db:"customer_phone"`
	Items             OrderItems      `json:"items" db:"items"`
	ShippingAddress   ShippingAddress `json:"shippingAddress" db:"shipping_address"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	Subtotal          float64         `json:"subtotal" db:"subtotal"`
	DeliveryFee       float64         `json:"deliveryFee" db:"delivery_fee"`
	Total             float64         `json:"total" db:"total"`
	Status            OrderStatus     `json:"status" db:"status"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	OrderDate         time.Time       `json:"orderDate" db:"order_date"`
	EstimatedDelivery *time.Time      `json:"estimatedDelivery,omitempty" db:"estimated_delivery"`
	TrackingNumber    string          `json:"trackingNumber,omitempty" db:"tracking_number"`
	Notes             string          `json:"notes,omitempty" db:"notes"`
}

type OrderLineRequest struct {
	ID       int64 `json:"id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,min=1"`
}

type CreateOrderRequest struct {
	Items           []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	PaymentMethod   PaymentMethod      `json:"paymentMethod" validate:"omitempty,oneof=card upi cod wallet"`
	Notes           string             `json:"notes" validate:"max=1000"`
}

type UpdateOrderRequest struct {
	Status            *OrderStatus   `json:"status" validate:"omitempty,oneof=pending confirmed processing shipped delivered cancelled"`
	PaymentStatus     *PaymentStatus `json:"paymentStatus" validate:"omitempty,oneof=pending paid failed refunded"`
	TrackingNumber    *string        `json:"trackingNumber" validate:"omitempty,max=64"`
	Notes             *string        `json:"notes" validate:"omitempty,max=1000"`
	EstimatedDelivery *time.Time     `json:"estimatedDelivery"`
}

// Empty reports whether the patch carries no field at all.
func (r UpdateOrderRequest) Empty() bool {
	return r.Status == nil && r.PaymentStatus == nil && r.TrackingNumber == nil &&
		r.Notes == nil && r.EstimatedDelivery == nil
}

type OrderUpdatedResponse struct {
	Message string `json:"message"`
	Order   Order  `json:"order"`
}

func scanJSON(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	case nil:
		return errors.New("cannot scan NULL into json column")
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
}
