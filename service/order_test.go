package service

import (
	"context"
	"testing"
	"time"

	"electro_store/events"
	"electro_store/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderService(t *testing.T) (*OrderService, *recorder, map[string]model.Product) {
	t.Helper()
	store := newStore(t)
	rec := &recorder{}
	svc := NewOrderService(store, rec)
	svc.now = func() time.Time { return fixedNow }
	products := map[string]model.Product{
		"p500":  addProduct(t, store, "Speaker", 500, true),
		"p1000": addProduct(t, store, "Headphones", 1000, true),
		"p333":  addProduct(t, store, "Cable", 333, true),
		"gone":  addProduct(t, store, "Turntable", 200, false),
	}
	return svc, rec, products
}

func TestCreateOrderDeliveryFee(t *testing.T) {
	tests := []struct {
		name     string
		product  string
		qty      int
		subtotal float64
		fee      float64
		total    float64
	}{
		{"above threshold", "p1000", 1, 1000, 0, 1000},
		{"below threshold", "p500", 1, 500, 99, 599},
		{"exactly threshold", "p333", 3, 999, 99, 1098},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, products := newOrderService(t)
			order, err := svc.Create(context.Background(), customer("alice"), model.CreateOrderRequest{
				Items:         []model.OrderLineRequest{{ID: products[tt.product].ID, Quantity: tt.qty}},
				PaymentMethod: model.PaymentMethodCard,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.subtotal, order.Subtotal)
			assert.Equal(t, tt.fee, order.DeliveryFee)
			assert.Equal(t, tt.total, order.Total)
			assert.Equal(t, order.Subtotal+order.DeliveryFee, order.Total)
		})
	}
}

func TestCreateOrderPaymentStatus(t *testing.T) {
	for method, want := range map[model.PaymentMethod]model.PaymentStatus{
		model.PaymentMethodCOD:    model.PaymentStatusPending,
		"":                        model.PaymentStatusPending,
		model.PaymentMethodCard:   model.PaymentStatusPaid,
		model.PaymentMethodUPI:    model.PaymentStatusPaid,
		model.PaymentMethodWallet: model.PaymentStatusPaid,
	} {
		svc, _, products := newOrderService(t)
		order, err := svc.Create(context.Background(), customer("alice"), model.CreateOrderRequest{
			Items:         []model.OrderLineRequest{{ID: products["p500"].ID, Quantity: 1}},
			PaymentMethod: method,
		})
		require.NoError(t, err)
		assert.Equal(t, want, order.PaymentStatus, "method %q", method)
	}
}

func TestCreateOrderFields(t *testing.T) {
	svc, rec, products := newOrderService(t)
	buyer := customer("alice")
	order, err := svc.Create(context.Background(), buyer, model.CreateOrderRequest{
		Items: []model.OrderLineRequest{
			{ID: products["p500"].ID, Quantity: 1},
			{ID: products["p333"].ID, Quantity: 2},
			{ID: products["p500"].ID, Quantity: 1},
		},
		Notes: "  ring twice ",
	})
	require.NoError(t, err)

	assert.Regexp(t, `^ORD-[0-9a-f-]{36}$`, order.ID)
	assert.Regexp(t, `^TRK-[0-9A-F]{32}$`, order.TrackingNumber)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, fixedNow, order.OrderDate)
	require.NotNil(t, order.EstimatedDelivery)
	assert.Equal(t, fixedNow.AddDate(0, 0, 5), *order.EstimatedDelivery)
	assert.Equal(t, "ring twice", order.Notes)
	assert.Equal(t, buyer.Email, order.CustomerEmail)
	assert.Equal(t, buyer.Name, order.ShippingAddress.FullName)
	assert.Equal(t, "Pune", order.ShippingAddress.City)

	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "Speaker.png", order.Items[0].Image)
	assert.Equal(t, 1666.0, order.Subtotal)

	require.Len(t, rec.events, 1)
	assert.Equal(t, events.OrderCreated, rec.events[0].Type)
	assert.Equal(t, order.ID, rec.events[0].OrderID)
}

func TestCreateOrderUniqueIdentifiers(t *testing.T) {
	svc, _, products := newOrderService(t)
	ids, tracking := map[string]bool{}, map[string]bool{}
	for i := 0; i < 50; i++ {
		order, err := svc.Create(context.Background(), customer("alice"), model.CreateOrderRequest{
			Items: []model.OrderLineRequest{{ID: products["p500"].ID, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.False(t, ids[order.ID])
		assert.False(t, tracking[order.TrackingNumber])
		ids[order.ID], tracking[order.TrackingNumber] = true, true
	}
}

func TestCreateOrderRejects(t *testing.T) {
	svc, _, products := newOrderService(t)
	ctx := context.Background()
	line := []model.OrderLineRequest{{ID: products["p500"].ID, Quantity: 1}}

	_, err := svc.Create(ctx, model.User{}, model.CreateOrderRequest{Items: line})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Create(ctx, customer("a"), model.CreateOrderRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, customer("a"), model.CreateOrderRequest{Items: []model.OrderLineRequest{{ID: 999, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, customer("a"), model.CreateOrderRequest{Items: []model.OrderLineRequest{{ID: products["gone"].ID, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, customer("a"), model.CreateOrderRequest{Items: []model.OrderLineRequest{{ID: products["p500"].ID, Quantity: 0}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, customer("a"), model.CreateOrderRequest{Items: line, PaymentMethod: "cheque"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	noAddress := customer("b")
	noAddress.ShippingAddress = nil
	_, err = svc.Create(ctx, noAddress, model.CreateOrderRequest{Items: line})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, noAddress, model.CreateOrderRequest{Items: line, ShippingAddress: model.ShippingAddress{City: "Pune"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMyOrdersOnlyReturnsOwnOrders(t *testing.T) {
	svc, _, products := newOrderService(t)
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		owner := []string{"alice", "bob"}[i%2]
		_, err := svc.Create(ctx, customer(owner), model.CreateOrderRequest{
			Items: []model.OrderLineRequest{{ID: products["p500"].ID, Quantity: i + 1}},
		})
		require.NoError(t, err)
	}

	for _, who := range []string{"alice", "bob"} {
		orders, err := svc.ListForCustomer(ctx, who)
		require.NoError(t, err)
		assert.Len(t, orders, 3)
		for _, o := range orders {
			assert.Equal(t, who, o.CustomerID)
		}
	}
	orders, err := svc.ListForCustomer(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, orders)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestGetOrderAccess(t *testing.T) {
	svc, _, products := newOrderService(t)
	ctx := context.Background()
	order, err := svc.Create(ctx, customer("alice"), model.CreateOrderRequest{
		Items: []model.OrderLineRequest{{ID: products["p500"].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, customer("alice"), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order, got)

	_, err = svc.Get(ctx, customer("bob"), order.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	admin := model.User{ID: "root", IsAdmin: true}
	_, err = svc.Get(ctx, admin, order.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, admin, "ORD-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOrder(t *testing.T) {
	svc, rec, products := newOrderService(t)
	ctx := context.Background()
	admin := model.User{ID: "root", IsAdmin: true}
	order, err := svc.Create(ctx, customer("alice"), model.CreateOrderRequest{
		Items: []model.OrderLineRequest{{ID: products["p500"].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	shipped := model.OrderStatusShipped
	paid := model.PaymentStatusPaid
	tracking := " TRK-REAL-1 "
	updated, err := svc.Update(ctx, admin, order.ID, model.UpdateOrderRequest{Status: &shipped, PaymentStatus: &paid, TrackingNumber: &tracking})
	require.NoError(t, err)
	assert.Equal(t, shipped, updated.Status)
	assert.Equal(t, paid, updated.PaymentStatus)
	assert.Equal(t, "TRK-REAL-1", updated.TrackingNumber)
	assert.Equal(t, order.Items, updated.Items)
	assert.Equal(t, order.Total, updated.Total)

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, events.OrderUpdated, last.Type)
	assert.Equal(t, model.OrderStatusPending, last.PreviousStatus)
	assert.False(t, last.Backward)

	pending := model.OrderStatusPending
	updated, err = svc.Update(ctx, admin, order.ID, model.UpdateOrderRequest{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, pending, updated.Status)
	last = rec.events[len(rec.events)-1]
	assert.True(t, last.Backward)
	assert.Equal(t, shipped, last.PreviousStatus)
}

func TestUpdateOrderRejects(t *testing.T) {
	svc, _, _ := newOrderService(t)
	ctx := context.Background()
	admin := model.User{ID: "root", IsAdmin: true}

	_, err := svc.Update(ctx, admin, "ORD-x", model.UpdateOrderRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	bogus := model.OrderStatus("lost")
	_, err = svc.Update(ctx, admin, "ORD-x", model.UpdateOrderRequest{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidInput)

	notes := "hi"
	_, err = svc.Update(ctx, admin, "ORD-x", model.UpdateOrderRequest{Notes: &notes})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMissingOrderKeepsCollection(t *testing.T) {
	svc, _, products := newOrderService(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, customer("alice"), model.CreateOrderRequest{
			Items: []model.OrderLineRequest{{ID: products["p500"].ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	err := svc.Delete(ctx, "ORD-does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, svc.Delete(ctx, all[0].ID))
	all, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrderKeepsSnapshotAfterProductEdit(t *testing.T) {
	store := newStore(t)
	svc := NewOrderService(store, nil)
	p := addProduct(t, store, "Amp", 700, true)
	ctx := context.Background()

	order, err := svc.Create(ctx, customer("alice"), model.CreateOrderRequest{
		Items: []model.OrderLineRequest{{ID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = store.UpdateProduct(ctx, p.ID, func(p *model.Product) error {
		p.CurrentPrice = 10
		p.Name = "Renamed"
		return nil
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, model.User{IsAdmin: true}, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 700.0, got.Items[0].Price)
	assert.Equal(t, "Amp", got.Items[0].Name)
	assert.Equal(t, order.Total, got.Total)
}
