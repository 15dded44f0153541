package service

import (
	"context"
	"testing"

	"electro_store/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, svc *ProductService) {
	t.Helper()
	for _, req := range []model.ProductRequest{
		{Name: "Wireless Earbuds", CurrentPrice: 2999, Rating: 4.5, Category: "Audio", InStock: true, Description: "Bluetooth 5.3"},
		{Name: "Bookshelf Speaker", CurrentPrice: 8999, Rating: 4.1, Category: "Audio", InStock: false},
		{Name: "USB-C Cable", CurrentPrice: 299, Rating: 3.9, Category: "Accessories", InStock: true},
		{Name: "Smartwatch", CurrentPrice: 5499, Rating: 4.8, Category: "Wearables", InStock: true, Description: "bluetooth calling"},
	} {
		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
	}
}

func names(list []model.Product) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.Name)
	}
	return out
}

func TestProductList(t *testing.T) {
	svc := NewProductService(newStore(t))
	seedCatalog(t, svc)
	ctx := context.Background()
	lo, hi := 1000.0, 6000.0

	tests := []struct {
		name   string
		filter model.ProductFilter
		want   []string
	}{
		{"all", model.ProductFilter{}, []string{"Wireless Earbuds", "Bookshelf Speaker", "USB-C Cable", "Smartwatch"}},
		{"search description", model.ProductFilter{Search: "BLUETOOTH"}, []string{"Wireless Earbuds", "Smartwatch"}},
		{"category", model.ProductFilter{Category: "audio"}, []string{"Wireless Earbuds", "Bookshelf Speaker"}},
		{"category all", model.ProductFilter{Category: "all", InStockOnly: true}, []string{"Wireless Earbuds", "USB-C Cable", "Smartwatch"}},
		{"price range", model.ProductFilter{MinPrice: &lo, MaxPrice: &hi}, []string{"Wireless Earbuds", "Smartwatch"}},
		{"price low", model.ProductFilter{Sort: model.SortByPriceAsc}, []string{"USB-C Cable", "Wireless Earbuds", "Smartwatch", "Bookshelf Speaker"}},
		{"price high", model.ProductFilter{Sort: model.SortByPriceDesc}, []string{"Bookshelf Speaker", "Smartwatch", "Wireless Earbuds", "USB-C Cable"}},
		{"rating", model.ProductFilter{Sort: model.SortByRating}, []string{"Smartwatch", "Wireless Earbuds", "Bookshelf Speaker", "USB-C Cable"}},
		{"name", model.ProductFilter{Sort: model.SortByName}, []string{"Bookshelf Speaker", "Smartwatch", "USB-C Cable", "Wireless Earbuds"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := svc.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(list))
		})
	}

	_, err := svc.List(ctx, model.ProductFilter{Sort: "popularity"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProductCRUD(t *testing.T) {
	store := newStore(t)
	svc := NewProductService(store)
	ctx := context.Background()

	p, err := svc.Create(ctx, model.ProductRequest{Name: " Amp ", CurrentPrice: 100, Category: "Audio", Features: []string{"class D"}})
	require.NoError(t, err)
	assert.Equal(t, "Amp", p.Name)
	assert.NotZero(t, p.ID)

	price := 120.0
	stock := true
	updated, err := svc.Update(ctx, p.ID, model.ProductPatch{CurrentPrice: &price, InStock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.CurrentPrice)
	assert.True(t, updated.InStock)
	assert.Equal(t, "Amp", updated.Name)
	assert.Equal(t, []string{"class D"}, []string(updated.Features))

	zero := 0.0
	_, err = svc.Update(ctx, p.ID, model.ProductPatch{CurrentPrice: &zero})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(ctx, 404, model.ProductPatch{CurrentPrice: &price})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.AddToWishlist(ctx, "u1", p.ID))
	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrNotFound)

	list, err := store.ListWishlist(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
