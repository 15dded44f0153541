package database

import (
	"context"
	"os"
	"testing"
	"time"

	"electro_store/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore connects to STORE_TEST_DATABASE_DSN and truncates every table.
func openTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("STORE_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("STORE_TEST_DATABASE_DSN not set")
	}
	db, err := ConnectDSN(dsn)
	require.NoError(t, err)
	_, err = db.Exec(`TRUNCATE wishlist_items, orders, products, users RESTART IDENTITY`)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresStore(db)
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{Host: "localhost", Port: "5432", User: "store", Password: "secret", Name: "electro"}
	assert.Equal(t, "host=localhost port=5432 dbname=electro user=store password=secret sslmode=disable", cfg.DSN())

	cfg.SSLMode = SSLModeEnable
	assert.Contains(t, cfg.DSN(), "sslmode=enable")
}

func TestPostgresDuplicateEmail(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := model.User{ID: uuid.NewString(), Name: "A", Email: "a@example.com", Password: "h", IsActive: true, CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateUser(ctx, u))
	u.ID = uuid.NewString()
	u.Email = "A@example.com"
	assert.ErrorIs(t, s.CreateUser(ctx, u), ErrDuplicate)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestPostgresOrderRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	eta := at.AddDate(0, 0, 5)
	want := model.Order{
		ID:            "ORD-" + uuid.NewString(),
		CustomerID:    "u1",
		CustomerName:  "Asha",
		CustomerEmail: "asha@example.com",
		Items:         model.OrderItems{{ID: 1, Name: "Phone", Price: 499.5, Quantity: 2, Category: "mobiles"}},
		ShippingAddress: model.ShippingAddress{
			Address: "12 MG Road", City: "Pune", Country: "IN", PostalCode: "411001",
		},
		PaymentMethod:     model.PaymentMethodCOD,
		Subtotal:          999,
		DeliveryFee:       99,
		Total:             1098,
		Status:            model.OrderStatusPending,
		PaymentStatus:     model.PaymentStatusPending,
		OrderDate:         at,
		EstimatedDelivery: &eta,
		TrackingNumber:    "TRK-1",
	}
	require.NoError(t, s.CreateOrder(ctx, want))

	got, err := s.GetOrder(ctx, want.ID)
	require.NoError(t, err)
	assert.True(t, want.OrderDate.Equal(got.OrderDate))
	require.NotNil(t, got.EstimatedDelivery)
	assert.True(t, eta.Equal(*got.EstimatedDelivery))
	got.OrderDate, got.EstimatedDelivery = want.OrderDate, want.EstimatedDelivery
	assert.Equal(t, want, got)
}

func TestPostgresDeleteMissingOrder(t *testing.T) {
	s := openTestStore(t)
	assert.ErrorIs(t, s.DeleteOrder(context.Background(), "ORD-missing"), ErrNotFound)
}

func TestPostgresDeleteProductClearsWishlist(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	u := model.User{ID: uuid.NewString(), Name: "A", Email: "a@example.com", Password: "h", IsActive: true, CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateUser(ctx, u))
	p, err := s.CreateProduct(ctx, model.Product{Name: "A", CurrentPrice: 10, Category: "x", CreatedAt: time.Now(), UpdatedAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, s.AddToWishlist(ctx, u.ID, p.ID))
	require.NoError(t, s.AddToWishlist(ctx, u.ID, p.ID))
	list, err := s.ListWishlist(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteProduct(ctx, p.ID))
	list, err = s.ListWishlist(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPostgresUpdateOrderMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.UpdateOrder(context.Background(), "nope", func(o *model.Order) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}
