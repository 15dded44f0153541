package service

import (
	"context"
	"errors"
	"fmt"

	"electro_store/database"
	"electro_store/model"
)

type wishlistStore interface {
	database.ProductStore
	database.WishlistStore
}

type WishlistService struct {
	store wishlistStore
}

func NewWishlistService(store wishlistStore) *WishlistService {
	return &WishlistService{store: store}
}

func (s *WishlistService) List(ctx context.Context, userID string) ([]model.Product, error) {
	return s.store.ListWishlist(ctx, userID)
}

// Add is idempotent and returns the updated list.
func (s *WishlistService) Add(ctx context.Context, userID string, productID int64) ([]model.Product, error) {
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		return nil, storeError(err, fmt.Sprintf("product %d", productID))
	}
	if err := s.store.AddToWishlist(ctx, userID, productID); err != nil {
		return nil, storeError(err, fmt.Sprintf("product %d", productID))
	}
	return s.store.ListWishlist(ctx, userID)
}

func (s *WishlistService) Remove(ctx context.Context, userID string, productID int64) ([]model.Product, error) {
	err := s.store.RemoveFromWishlist(ctx, userID, productID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: product not found in wishlist", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s.store.ListWishlist(ctx, userID)
}
