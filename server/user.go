package server

import (
	"electro_store/database/handler"

	"github.com/go-chi/chi/v5"
)

// PublicRoute and UserRoute share path prefixes with AdminRoute, so every
// route is registered flat on the /api router instead of through Route().
func PublicRoute(r chi.Router, h *handler.Handler) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Get("/products", h.GetAllProducts)
	r.Get("/products/{id}", h.GetProductByID)
}

func UserRoute(r chi.Router, h *handler.Handler) {
	r.Get("/auth/me", h.Me)

	r.Get("/users/me", h.GetProfile)
	r.Patch("/users/me", h.UpdateProfile)

	r.Post("/orders", h.CreateOrder)
	r.Get("/orders/my", h.MyOrders)
	r.Get("/orders/{id}", h.GetOrderByID)

	r.Get("/wishlist", h.GetWishlist)
	r.Post("/wishlist", h.AddToWishlist)
	r.Delete("/wishlist/{productId}", h.RemoveFromWishlist)
}
