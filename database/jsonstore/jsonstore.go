// Package jsonstore keeps each collection as one JSON document on disk.
//
// Every operation holds the store mutex for its whole read-modify-write, and
// a collection file is replaced by writing a temp file, syncing it, and
// renaming it over the old one. In-memory state only changes after the new
// file is in place, so a failed write leaves both disk and memory untouched.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"electro_store/database"
	"electro_store/model"

	"github.com/sirupsen/logrus"
)

const (
	usersFile    = "users.json"
	productsFile = "products.json"
	ordersFile   = "orders.json"
	wishlistFile = "wishlist.json"
)

// userRecord keeps the password hash, which model.User never serialises.
type userRecord struct {
	model.User
	Password string `json:"password"`
}

type Store struct {
	mu  sync.Mutex
	dir string

	users         []userRecord
	products      []model.Product
	orders        []model.Order
	wishlists     map[string][]int64
	nextProductID int64
}

var _ database.Store = (*Store)(nil)

// Open loads every collection under dir, creating the directory if needed.
// Missing files start empty; a malformed file is an error.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{dir: dir, wishlists: map[string][]int64{}}
	if err := s.load(usersFile, &s.users); err != nil {
		return nil, err
	}
	if err := s.load(productsFile, &s.products); err != nil {
		return nil, err
	}
	if err := s.load(ordersFile, &s.orders); err != nil {
		return nil, err
	}
	if err := s.load(wishlistFile, &s.wishlists); err != nil {
		return nil, err
	}
	if s.wishlists == nil {
		s.wishlists = map[string][]int64{}
	}
	s.nextProductID = 1
	for _, p := range s.products {
		if p.ID >= s.nextProductID {
			s.nextProductID = p.ID + 1
		}
	}
	return s, nil
}

func (s *Store) load(name string, dest interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) write(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logrus.Warnf("jsonstore: failed to remove temp file %s err = %v", tmpName, rmErr)
		}
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}

func (s *Store) Close() error { return nil }

// users

func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = model.NormalizeEmail(user.Email)
	if s.userIndex(func(r userRecord) bool { return r.Email == user.Email }) >= 0 {
		return database.ErrDuplicate
	}
	if s.userIndex(func(r userRecord) bool { return r.ID == user.ID }) >= 0 {
		return database.ErrDuplicate
	}

	next := append(slices.Clone(s.users), toRecord(user))
	if err := s.write(usersFile, next); err != nil {
		return err
	}
	s.users = next
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(func(r userRecord) bool { return r.ID == id })
	if i < 0 {
		return model.User{}, database.ErrNotFound
	}
	return s.users[i].toUser(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = model.NormalizeEmail(email)
	i := s.userIndex(func(r userRecord) bool { return r.Email == email })
	if i < 0 {
		return model.User{}, database.ErrNotFound
	}
	return s.users[i].toUser(), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]model.User, 0, len(s.users))
	for _, r := range s.users {
		list = append(list, r.toUser())
	}
	return list, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, fn func(*model.User) error) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(func(r userRecord) bool { return r.ID == id })
	if i < 0 {
		return model.User{}, database.ErrNotFound
	}
	user := s.users[i].toUser()
	if err := fn(&user); err != nil {
		return model.User{}, err
	}
	user.ID = id
	user.Email = model.NormalizeEmail(user.Email)
	if s.userIndex(func(r userRecord) bool { return r.Email == user.Email && r.ID != id }) >= 0 {
		return model.User{}, database.ErrDuplicate
	}

	next := slices.Clone(s.users)
	next[i] = toRecord(user)
	if err := s.write(usersFile, next); err != nil {
		return model.User{}, err
	}
	s.users = next
	return next[i].toUser(), nil
}

// DeleteUser also drops the user's wishlist. Orders keep their customer copy.
// The user is gone once users.json is replaced; a failed wishlist rewrite
// after that is logged and leaves an entry no account can reach.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(func(r userRecord) bool { return r.ID == id })
	if i < 0 {
		return database.ErrNotFound
	}
	next := slices.Delete(slices.Clone(s.users), i, i+1)
	if err := s.write(usersFile, next); err != nil {
		return err
	}
	s.users = next

	if _, ok := s.wishlists[id]; ok {
		wl := cloneWishlists(s.wishlists)
		delete(wl, id)
		if err := s.write(wishlistFile, wl); err != nil {
			logrus.Errorf("DeleteUser: user %s deleted but wishlist not cleared err = %v", id, err)
			return nil
		}
		s.wishlists = wl
	}
	return nil
}

func (s *Store) userIndex(match func(userRecord) bool) int {
	return slices.IndexFunc(s.users, match)
}

// products

func (s *Store) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = s.nextProductID
	next := append(slices.Clone(s.products), cloneProduct(product))
	if err := s.write(productsFile, next); err != nil {
		return model.Product{}, err
	}
	s.products = next
	s.nextProductID++
	return cloneProduct(product), nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return model.Product{}, database.ErrNotFound
	}
	return cloneProduct(s.products[i]), nil
}

func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, cloneProduct(p))
	}
	return list, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, fn func(*model.Product) error) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return model.Product{}, database.ErrNotFound
	}
	p := cloneProduct(s.products[i])
	if err := fn(&p); err != nil {
		return model.Product{}, err
	}
	p.ID = id

	next := slices.Clone(s.products)
	next[i] = p
	if err := s.write(productsFile, next); err != nil {
		return model.Product{}, err
	}
	s.products = next
	return cloneProduct(p), nil
}

// DeleteProduct removes the product and then every wishlist reference to it.
// If the wishlist write fails the product is already gone, so the failure is
// only logged; dangling ids are skipped by ListWishlist.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return database.ErrNotFound
	}
	next := slices.Delete(slices.Clone(s.products), i, i+1)
	if err := s.write(productsFile, next); err != nil {
		return err
	}
	s.products = next

	wl := cloneWishlists(s.wishlists)
	changed := false
	for userID, ids := range wl {
		if j := slices.Index(ids, id); j >= 0 {
			wl[userID] = slices.Delete(ids, j, j+1)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := s.write(wishlistFile, wl); err != nil {
		logrus.Errorf("DeleteProduct: product %d deleted but wishlists not cleared err = %v", id, err)
		return nil
	}
	s.wishlists = wl
	return nil
}

func (s *Store) productIndex(id int64) int {
	return slices.IndexFunc(s.products, func(p model.Product) bool { return p.ID == id })
}

// orders

func (s *Store) CreateOrder(ctx context.Context, order model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.orderIndex(order.ID) >= 0 {
		return database.ErrDuplicate
	}
	next := append(slices.Clone(s.orders), cloneOrder(order))
	if err := s.write(ordersFile, next); err != nil {
		return err
	}
	s.orders = next
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return model.Order{}, database.ErrNotFound
	}
	return cloneOrder(s.orders[i]), nil
}

func (s *Store) ListOrders(ctx context.Context) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selectOrders(func(model.Order) bool { return true }), nil
}

func (s *Store) ListOrdersByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selectOrders(func(o model.Order) bool { return o.CustomerID == customerID }), nil
}

// selectOrders returns matching orders newest first.
func (s *Store) selectOrders(match func(model.Order) bool) []model.Order {
	list := make([]model.Order, 0)
	for _, o := range s.orders {
		if match(o) {
			list = append(list, cloneOrder(o))
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].OrderDate.After(list[j].OrderDate)
	})
	return list
}

func (s *Store) UpdateOrder(ctx context.Context, id string, fn func(*model.Order) error) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return model.Order{}, database.ErrNotFound
	}
	o := cloneOrder(s.orders[i])
	if err := fn(&o); err != nil {
		return model.Order{}, err
	}
	o.ID = id

	next := slices.Clone(s.orders)
	next[i] = o
	if err := s.write(ordersFile, next); err != nil {
		return model.Order{}, err
	}
	s.orders = next
	return cloneOrder(o), nil
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return database.ErrNotFound
	}
	next := slices.Delete(slices.Clone(s.orders), i, i+1)
	if err := s.write(ordersFile, next); err != nil {
		return err
	}
	s.orders = next
	return nil
}

func (s *Store) orderIndex(id string) int {
	return slices.IndexFunc(s.orders, func(o model.Order) bool { return o.ID == id })
}

// wishlists

func (s *Store) AddToWishlist(ctx context.Context, userID string, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.productIndex(productID) < 0 {
		return database.ErrNotFound
	}
	if slices.Contains(s.wishlists[userID], productID) {
		return nil
	}
	wl := cloneWishlists(s.wishlists)
	wl[userID] = append(wl[userID], productID)
	if err := s.write(wishlistFile, wl); err != nil {
		return err
	}
	s.wishlists = wl
	return nil
}

func (s *Store) RemoveFromWishlist(ctx context.Context, userID string, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j := slices.Index(s.wishlists[userID], productID)
	if j < 0 {
		return database.ErrNotFound
	}
	wl := cloneWishlists(s.wishlists)
	wl[userID] = slices.Delete(wl[userID], j, j+1)
	if err := s.write(wishlistFile, wl); err != nil {
		return err
	}
	s.wishlists = wl
	return nil
}

func (s *Store) ListWishlist(ctx context.Context, userID string) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]model.Product, 0, len(s.wishlists[userID]))
	for _, id := range s.wishlists[userID] {
		if i := s.productIndex(id); i >= 0 {
			list = append(list, cloneProduct(s.products[i]))
		}
	}
	return list, nil
}

func toRecord(u model.User) userRecord {
	return userRecord{User: cloneUser(u), Password: u.Password}
}

func (r userRecord) toUser() model.User {
	u := cloneUser(r.User)
	u.Password = r.Password
	return u
}

func cloneUser(u model.User) model.User {
	if u.ShippingAddress != nil {
		addr := *u.ShippingAddress
		u.ShippingAddress = &addr
	}
	return u
}

func cloneProduct(p model.Product) model.Product {
	if p.OriginalPrice != nil {
		v := *p.OriginalPrice
		p.OriginalPrice = &v
	}
	if p.Discount != nil {
		v := *p.Discount
		p.Discount = &v
	}
	p.Features = slices.Clone(p.Features)
	return p
}

func cloneOrder(o model.Order) model.Order {
	o.Items = slices.Clone(o.Items)
	if o.EstimatedDelivery != nil {
		v := *o.EstimatedDelivery
		o.EstimatedDelivery = &v
	}
	return o
}

func cloneWishlists(in map[string][]int64) map[string][]int64 {
	out := make(map[string][]int64, len(in))
	for k, v := range in {
		out[k] = slices.Clone(v)
	}
	return out
}
