package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"electro_store/database"
	"electro_store/events"
	"electro_store/model"
	"electro_store/pricing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const EstimatedDeliveryDays = 5

type orderStore interface {
	database.ProductStore
	database.OrderStore
}

type OrderService struct {
	store  orderStore
	events events.Publisher
	now    func() time.Time

	newOrderID        func() string
	newTrackingNumber func() string
}

func NewOrderService(store orderStore, publisher events.Publisher) *OrderService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &OrderService{
		store:             store,
		events:            publisher,
		now:               time.Now,
		newOrderID:        func() string { return "ORD-" + uuid.NewString() },
		newTrackingNumber: newTrackingNumber,
	}
}

// newTrackingNumber is random rather than sequential, so replicas sharing one
// database never hand out the same number.
func newTrackingNumber() string {
	return "TRK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// Create turns a checkout into a pending order. Lines are priced from the
// current catalog; the caller clears its cart once this succeeds.
func (s *OrderService) Create(ctx context.Context, customer model.User, req model.CreateOrderRequest) (model.Order, error) {
	if customer.ID == "" {
		return model.Order{}, fmt.Errorf("%w: sign in to place an order", ErrUnauthorized)
	}
	if len(req.Items) == 0 {
		return model.Order{}, fmt.Errorf("%w: order has no items", ErrInvalidInput)
	}

	items, err := s.snapshotItems(ctx, req.Items)
	if err != nil {
		return model.Order{}, err
	}

	address := req.ShippingAddress
	if address == (model.ShippingAddress{}) && customer.ShippingAddress != nil {
		address = *customer.ShippingAddress
	}
	if missing := address.Missing(); len(missing) > 0 {
		return model.Order{}, fmt.Errorf("%w: shipping address is missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if address.FullName == "" {
		address.FullName = customer.Name
	}
	if address.Phone == "" {
		address.Phone = customer.Phone
	}

	method := req.PaymentMethod
	if method == "" {
		method = model.PaymentMethodCOD
	}
	if !method.Valid() {
		return model.Order{}, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, method)
	}
	paymentStatus := model.PaymentStatusPaid
	if method == model.PaymentMethodCOD {
		paymentStatus = model.PaymentStatusPending
	}

	quote := pricing.NewQuote(items)
	orderDate := s.now().UTC().Truncate(time.Microsecond)
	eta := orderDate.AddDate(0, 0, EstimatedDeliveryDays)

	order := model.Order{
		ID:                s.newOrderID(),
		CustomerID:        customer.ID,
		CustomerName:      customer.Name,
		CustomerEmail:     customer.Email,
		CustomerPhone:     customer.Phone,
		Items:             items,
		ShippingAddress:   address,
		PaymentMethod:     method,
		Subtotal:          quote.Subtotal,
		DeliveryFee:       quote.DeliveryFee,
		Total:             quote.Total,
		Status:            model.OrderStatusPending,
		PaymentStatus:     paymentStatus,
		OrderDate:         orderDate,
		EstimatedDelivery: &eta,
		TrackingNumber:    s.newTrackingNumber(),
		Notes:             strings.TrimSpace(req.Notes),
	}
	if err := s.store.CreateOrder(ctx, order); err != nil {
		logrus.Errorf("Create: failed to save order %s err = %v", order.ID, err)
		return model.Order{}, storeError(err, "order id already used")
	}

	_ = s.events.Publish(ctx, events.NewOrderEvent(events.OrderCreated, order, orderDate))
	return order, nil
}

// snapshotItems copies the catalog fields each line needs. Repeated product
// ids are merged into one line.
func (s *OrderService) snapshotItems(ctx context.Context, lines []model.OrderLineRequest) (model.OrderItems, error) {
	items := make(model.OrderItems, 0, len(lines))
	position := map[int64]int{}
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity for product %d must be at least 1", ErrInvalidInput, line.ID)
		}
		if i, ok := position[line.ID]; ok {
			items[i].Quantity += line.Quantity
			continue
		}
		p, err := s.store.GetProduct(ctx, line.ID)
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d does not exist", ErrInvalidInput, line.ID)
		}
		if err != nil {
			return nil, err
		}
		if !p.InStock {
			return nil, fmt.Errorf("%w: %s is out of stock", ErrInvalidInput, p.Name)
		}
		position[p.ID] = len(items)
		items = append(items, model.OrderItem{
			ID:       p.ID,
			Name:     p.Name,
			Image:    p.Image,
			Price:    p.CurrentPrice,
			Quantity: line.Quantity,
			Category: p.Category,
		})
	}
	return items, nil
}

func (s *OrderService) List(ctx context.Context) ([]model.Order, error) {
	return s.store.ListOrders(ctx)
}

func (s *OrderService) ListForCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: sign in to see your orders", ErrUnauthorized)
	}
	return s.store.ListOrdersByCustomer(ctx, customerID)
}

// Get returns an order to an admin or to the customer who placed it.
func (s *OrderService) Get(ctx context.Context, viewer model.User, id string) (model.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return model.Order{}, storeError(err, "order "+id)
	}
	if !viewer.IsAdmin && order.CustomerID != viewer.ID {
		return model.Order{}, fmt.Errorf("%w: order belongs to another customer", ErrForbidden)
	}
	return order, nil
}

// Update applies an admin patch. Any status may follow any other; moves
// that walk the lifecycle backwards are written to the audit log.
func (s *OrderService) Update(ctx context.Context, actor model.User, id string, req model.UpdateOrderRequest) (model.Order, error) {
	if req.Empty() {
		return model.Order{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if req.Status != nil && !req.Status.Valid() {
		return model.Order{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}
	if req.PaymentStatus != nil && !req.PaymentStatus.Valid() {
		return model.Order{}, fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, *req.PaymentStatus)
	}

	var previous model.OrderStatus
	order, err := s.store.UpdateOrder(ctx, id, func(o *model.Order) error {
		previous = o.Status
		if req.Status != nil {
			o.Status = *req.Status
		}
		if req.PaymentStatus != nil {
			o.PaymentStatus = *req.PaymentStatus
		}
		if req.TrackingNumber != nil {
			o.TrackingNumber = strings.TrimSpace(*req.TrackingNumber)
		}
		if req.Notes != nil {
			o.Notes = *req.Notes
		}
		if req.EstimatedDelivery != nil {
			eta := req.EstimatedDelivery.UTC().Truncate(time.Microsecond)
			o.EstimatedDelivery = &eta
		}
		return nil
	})
	if err != nil {
		return model.Order{}, storeError(err, "order "+id)
	}

	backward := model.IsBackward(previous, order.Status)
	if backward {
		logrus.WithFields(logrus.Fields{
			"audit":   true,
			"orderId": order.ID,
			"from":    previous,
			"to":      order.Status,
			"actor":   actor.ID,
		}).Warn("order status moved backwards")
	}

	e := events.NewOrderEvent(events.OrderUpdated, order, s.now().UTC())
	e.PreviousStatus = previous
	e.Backward = backward
	_ = s.events.Publish(ctx, e)
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	return storeError(s.store.DeleteOrder(ctx, id), "order "+id)
}
