package database

import (
	"context"
	"errors"

	"electro_store/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserStore interface {
	// CreateUser returns ErrDuplicate when the email is already registered.
	CreateUser(ctx context.Context, user model.User) error
	GetUserByID(ctx context.Context, id string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	// UpdateUser applies fn to the stored user and saves the result atomically.
	UpdateUser(ctx context.Context, id string, fn func(*model.User) error) (model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type ProductStore interface {
	// CreateProduct assigns the next numeric id and returns the stored product.
	CreateProduct(ctx context.Context, product model.Product) (model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, id int64, fn func(*model.Product) error) (model.Product, error)
	// DeleteProduct also drops the product from every wishlist.
	DeleteProduct(ctx context.Context, id int64) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order model.Order) error
	GetOrder(ctx context.Context, id string) (model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]model.Order, error)
	UpdateOrder(ctx context.Context, id string, fn func(*model.Order) error) (model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

type WishlistStore interface {
	// AddToWishlist is idempotent.
	AddToWishlist(ctx context.Context, userID string, productID int64) error
	// RemoveFromWishlist returns ErrNotFound when the product is not on the list.
	RemoveFromWishlist(ctx context.Context, userID string, productID int64) error
	ListWishlist(ctx context.Context, userID string) ([]model.Product, error)
}

// Store is the keyed collection storage behind every service.
type Store interface {
	UserStore
	ProductStore
	OrderStore
	WishlistStore
	Ping(ctx context.Context) error
	Close() error
}
