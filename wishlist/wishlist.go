// Package wishlist is the client-side wishlist. Changes are applied locally
// straight away and then replaced by the server's list; a failed call puts
// the previous list back.
package wishlist

import (
	"context"
	"slices"
	"sync"

	"electro_store/model"

	"github.com/sirupsen/logrus"
)

// Remote is the server side of the wishlist. Every call returns the
// canonical list after the change.
type Remote interface {
	Wishlist(ctx context.Context) ([]model.Product, error)
	AddToWishlist(ctx context.Context, productID int64) ([]model.Product, error)
	RemoveFromWishlist(ctx context.Context, productID int64) ([]model.Product, error)
}

type Store struct {
	mu     sync.Mutex
	remote Remote
	items  []model.Product
}

func New(remote Remote) *Store {
	return &Store{remote: remote, items: []model.Product{}}
}

// Sync replaces the local list with the server's. Call it after sign-in.
func (s *Store) Sync(ctx context.Context) error {
	items, err := s.remote.Wishlist(ctx)
	if err != nil {
		logrus.Errorf("wishlist: failed to fetch wishlist err = %v", err)
		return err
	}
	s.mu.Lock()
	s.items = normalize(items)
	s.mu.Unlock()
	return nil
}

// Reset drops local state, e.g. on sign-out.
func (s *Store) Reset() {
	s.mu.Lock()
	s.items = []model.Product{}
	s.mu.Unlock()
}

func (s *Store) Items() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) Contains(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return index(s.items, id) >= 0
}

// Add is a no-op when the product is already listed.
func (s *Store) Add(ctx context.Context, product model.Product) error {
	s.mu.Lock()
	if index(s.items, product.ID) >= 0 {
		s.mu.Unlock()
		return nil
	}
	s.items = append(slices.Clone(s.items), product)
	s.mu.Unlock()

	undo := func(items []model.Product) []model.Product {
		if i := index(items, product.ID); i >= 0 {
			return slices.Delete(items, i, i+1)
		}
		return items
	}
	return s.reconcile(undo, func() ([]model.Product, error) {
		return s.remote.AddToWishlist(ctx, product.ID)
	})
}

func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	i := index(s.items, id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	removed := s.items[i]
	s.items = slices.Delete(slices.Clone(s.items), i, i+1)
	s.mu.Unlock()

	undo := func(items []model.Product) []model.Product {
		if index(items, id) >= 0 {
			return items
		}
		return slices.Insert(items, min(i, len(items)), removed)
	}
	return s.reconcile(undo, func() ([]model.Product, error) {
		return s.remote.RemoveFromWishlist(ctx, id)
	})
}

// reconcile adopts the server's list on success. On failure only this call's
// own change is reverted, against whatever the list holds by then, so results
// of calls that finished in the meantime are kept.
func (s *Store) reconcile(undo func([]model.Product) []model.Product, call func() ([]model.Product, error)) error {
	items, err := call()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		logrus.Errorf("wishlist: remote update failed, reverting local change err = %v", err)
		s.items = undo(slices.Clone(s.items))
		return err
	}
	s.items = normalize(items)
	return nil
}

func normalize(items []model.Product) []model.Product {
	if items == nil {
		return []model.Product{}
	}
	return slices.Clone(items)
}

func index(items []model.Product, id int64) int {
	return slices.IndexFunc(items, func(p model.Product) bool { return p.ID == id })
}
