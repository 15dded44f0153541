package service

import (
	"context"
	"testing"
	"time"

	"electro_store/database/jsonstore"
	"electro_store/events"
	"electro_store/middleware"
	"electro_store/model"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

type recorder struct {
	events []events.Event
}

func (r *recorder) Publish(ctx context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return nil
}

func newStore(t *testing.T) *jsonstore.Store {
	t.Helper()
	s, err := jsonstore.Open(t.TempDir())
	require.NoError(t, err)
	return s
}

func newTokens() *middleware.TokenIssuer {
	return middleware.NewTokenIssuer("test-secret", time.Hour)
}

func addProduct(t *testing.T, s *jsonstore.Store, name string, price float64, inStock bool) model.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), model.Product{
		Name: name, CurrentPrice: price, Category: "audio", InStock: inStock, Image: name + ".png",
	})
	require.NoError(t, err)
	return p
}

func customer(id string) model.User {
	return model.User{
		ID: id, Name: "Customer " + id, Email: id + "@example.com", Phone: "98765", IsActive: true,
		ShippingAddress: &model.ShippingAddress{Address: "1 Main St", City: "Pune", PostalCode: "411001", Country: "IN"},
	}
}
