// Package events carries order lifecycle notifications to Kafka and to the
// admin websocket feed.
package events

import (
	"context"
	"time"

	"electro_store/model"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

type Type string

const (
	OrderCreated Type = "order.created"
	OrderUpdated Type = "order.updated"
)

type Event struct {
	Type           Type                `json:"type"`
	OrderID        string              `json:"orderId"`
	CustomerID     string              `json:"customerId"`
	Status         model.OrderStatus   `json:"status"`
	PreviousStatus model.OrderStatus   `json:"previousStatus,omitempty"`
	PaymentStatus  model.PaymentStatus `json:"paymentStatus"`
	// Backward marks a status change that walks the lifecycle backwards.
	Backward bool      `json:"backward,omitempty"`
	Total    float64   `json:"total"`
	At       time.Time `json:"at"`
}

func NewOrderEvent(t Type, o model.Order, at time.Time) Event {
	return Event{
		Type:          t,
		OrderID:       o.ID,
		CustomerID:    o.CustomerID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		Total:         o.Total,
		At:            at,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher. Failures are logged and never
// reach the caller, so a broker outage cannot fail an order.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var result error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if result != nil {
		logrus.WithFields(logrus.Fields{"event": e.Type, "orderId": e.OrderID}).
			Errorf("Publish: failed to deliver event err = %v", result)
	}
	return nil
}
