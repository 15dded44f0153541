package model

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

type Role string
type ProductSort string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

const (
	SortByName      ProductSort = "name"
	SortByPriceAsc  ProductSort = "price-low"
	SortByPriceDesc ProductSort = "price-high"
	SortByRating    ProductSort = "rating"
)

type Product struct {
	ID            int64          `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	Image         string         `json:"image" db:"image"`
	CurrentPrice  float64        `json:"currentPrice" db:"current_price"`
	OriginalPrice *float64       `json:"originalPrice,omitempty" db:"original_price"`
	Discount      *string        `json:"discount,omitempty" db:"discount"`
	Rating        float64        `json:"rating" db:"rating"`
	Reviews       int            `json:"reviews" db:"reviews"`
	Description   string         `json:"description" db:"description"`
	Category      string         `json:"category" db:"category"`
	InStock       bool           `json:"inStock" db:"in_stock"`
	Features      pq.StringArray `json:"features,omitempty" db:"features"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`
}

// CartItem is a product line held by the client-side cart.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (c CartItem) UnitPrice() float64 { return c.CurrentPrice }
func (c CartItem) Units() int         { return c.Quantity }

type ProductFilter struct {
	Search      string
	Category    string
	MinPrice    *float64
	MaxPrice    *float64
	InStockOnly bool
	Sort        ProductSort
}

type ProductRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=200"`
	Image         string   `json:"image" validate:"omitempty,max=2048"`
	CurrentPrice  float64  `json:"currentPrice" validate:"gt=0"`
	OriginalPrice *float64 `json:"originalPrice" validate:"omitempty,gt=0"`
	Discount      *string  `json:"discount" validate:"omitempty,max=32"`
	Rating        float64  `json:"rating" validate:"omitempty,min=1,max=5"`
	Reviews       int      `json:"reviews" validate:"min=0"`
	Description   string   `json:"description"`
	Category      string   `json:"category" validate:"required"`
	InStock       bool     `json:"inStock"`
	Features      []string `json:"features"`
}

type ProductPatch struct {
	Name          *string   `json:"name" validate:"omitempty,min=2,max=200"`
	Image         *string   `json:"image" validate:"omitempty,max=2048"`
	CurrentPrice  *float64  `json:"currentPrice" validate:"omitempty,gt=0"`
	OriginalPrice *float64  `json:"originalPrice" validate:"omitempty,gt=0"`
	Discount      *string   `json:"discount" validate:"omitempty,max=32"`
	Rating        *float64  `json:"rating" validate:"omitempty,min=1,max=5"`
	Reviews       *int      `json:"reviews" validate:"omitempty,min=0"`
	Description   *string   `json:"description"`
	Category      *string   `json:"category" validate:"omitempty,min=1"`
	InStock       *bool     `json:"inStock"`
	Features      *[]string `json:"features"`
}

type User struct {
	ID              string           `json:"id" db:"id"`
	Name            string           `json:"name" db:"name"`
	Email           string           `json:"email" db:"email"`
	Password        string           `json:"-" db:"password"`
	Phone           string           `json:"phone,omitempty" db:"phone"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty" db:"shipping_address"`
	IsAdmin         bool             `json:"isAdmin" db:"is_admin"`
	IsActive        bool             `json:"isActive" db:"is_active"`
	IsBlocked       bool             `json:"isBlocked" db:"is_blocked"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`
}

func (u User) Role() Role {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// CanSignIn reports whether the account is neither deactivated nor blocked.
func (u User) CanSignIn() bool {
	return u.IsActive && !u.IsBlocked
}

// NormalizeEmail is the canonical form used for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UserRequestBody struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequestBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     Role   `json:"role" validate:"required,oneof=admin user"`
}

type UpdateUserRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	IsAdmin   *bool   `json:"isAdmin"`
	IsActive  *bool   `json:"isActive"`
	IsBlocked *bool   `json:"isBlocked"`
}

type UpdateProfileRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=2,max=100"`
	Email           *string          `json:"email" validate:"omitempty,email"`
	Phone           *string          `json:"phone" validate:"omitempty,max=32"`
	ShippingAddress *ShippingAddress `json:"shippingAddress"`
}

type WishlistRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
