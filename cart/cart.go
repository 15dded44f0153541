// Package cart is the client-side shopping cart. Totals are always derived
// from the line items and the full state is saved after every change.
package cart

import (
	"encoding/json"
	"slices"
	"sync"

	"electro_store/model"
	"electro_store/pricing"

	"github.com/sirupsen/logrus"
)

const StorageKey = "cart"

type State struct {
	Items     []model.CartItem `json:"items"`
	Total     float64          `json:"total"`
	ItemCount int              `json:"itemCount"`
}

// persisted is used only to check the shape of a saved state.
type persisted struct {
	Items     *[]model.CartItem `json:"items"`
	Total     *float64          `json:"total"`
	ItemCount *int              `json:"itemCount"`
}

type Store struct {
	mu      sync.Mutex
	storage Storage
	state   State
}

// New restores the saved cart when it is well formed and starts empty otherwise.
func New(storage Storage) *Store {
	s := &Store{storage: storage, state: State{Items: []model.CartItem{}}}
	if items, ok := restore(storage); ok {
		s.state = derive(items)
	}
	return s
}

func restore(storage Storage) ([]model.CartItem, bool) {
	data, err := storage.Load(StorageKey)
	if err != nil {
		logrus.Warnf("cart: failed to load saved cart err = %v", err)
		return nil, false
	}
	if data == nil {
		return nil, false
	}
	var saved persisted
	if err := json.Unmarshal(data, &saved); err != nil {
		logrus.Debugf("cart: discarding saved cart err = %v", err)
		return nil, false
	}
	if saved.Items == nil || saved.Total == nil || saved.ItemCount == nil {
		logrus.Debug("cart: discarding saved cart with missing fields")
		return nil, false
	}
	items := slices.DeleteFunc(*saved.Items, func(i model.CartItem) bool { return i.Quantity < 1 })
	return items, true
}

func derive(items []model.CartItem) State {
	if items == nil {
		items = []model.CartItem{}
	}
	return State{
		Items:     items,
		Total:     pricing.Subtotal(items),
		ItemCount: pricing.ItemCount(items),
	}
}

// State returns a copy of the current cart.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Items = slices.Clone(s.state.Items)
	return st
}

func (s *Store) Items() []model.CartItem {
	return s.State().Items
}

// AddToCart increments the quantity of a product already in the cart, or
// appends it with quantity 1.
func (s *Store) AddToCart(product model.Product) {
	s.mutate(func(items []model.CartItem) []model.CartItem {
		if i := index(items, product.ID); i >= 0 {
			items[i].Quantity++
			return items
		}
		return append(items, model.CartItem{Product: product, Quantity: 1})
	})
}

func (s *Store) RemoveFromCart(id int64) {
	s.mutate(func(items []model.CartItem) []model.CartItem {
		return slices.DeleteFunc(items, func(i model.CartItem) bool { return i.ID == id })
	})
}

// UpdateQuantity sets the quantity of a line. A quantity below 1 removes it.
func (s *Store) UpdateQuantity(id int64, quantity int) {
	s.mutate(func(items []model.CartItem) []model.CartItem {
		i := index(items, id)
		if i < 0 {
			return items
		}
		if quantity <= 0 {
			return slices.Delete(items, i, i+1)
		}
		items[i].Quantity = quantity
		return items
	})
}

// Subtract takes the given quantities back out of the cart, dropping lines
// that reach zero. Quantities added after lines were read are kept.
func (s *Store) Subtract(lines []model.CartItem) {
	s.mutate(func(items []model.CartItem) []model.CartItem {
		for _, l := range lines {
			i := index(items, l.ID)
			if i < 0 {
				continue
			}
			items[i].Quantity -= l.Quantity
			if items[i].Quantity <= 0 {
				items = slices.Delete(items, i, i+1)
			}
		}
		return items
	})
}

func (s *Store) ClearCart() {
	s.mutate(func([]model.CartItem) []model.CartItem { return nil })
}

func (s *Store) mutate(fn func([]model.CartItem) []model.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = derive(fn(slices.Clone(s.state.Items)))
	s.persist()
}

func (s *Store) persist() {
	data, err := json.Marshal(s.state)
	if err != nil {
		logrus.Errorf("cart: failed to encode cart err = %v", err)
		return
	}
	if err := s.storage.Save(StorageKey, data); err != nil {
		logrus.Errorf("cart: failed to save cart err = %v", err)
	}
}

func index(items []model.CartItem, id int64) int {
	return slices.IndexFunc(items, func(i model.CartItem) bool { return i.ID == id })
}
