package server

import (
	"electro_store/database/handler"

	"github.com/go-chi/chi/v5"
)

func AdminRoute(r chi.Router, h *handler.Handler) {
	r.Post("/products", h.CreateProduct)
	r.Get("/products/export", h.ExportProducts)
	r.Put("/products/{id}", h.UpdateProduct)
	r.Delete("/products/{id}", h.DeleteProduct)

	r.Get("/users", h.GetAllUsers)
	r.Post("/users", h.CreateUser)
	r.Patch("/users/{id}", h.UpdateUser)
	r.Delete("/users/{id}", h.DeleteUser)

	r.Get("/orders", h.GetAllOrders)
	r.Put("/orders/{id}", h.UpdateOrder)
	r.Delete("/orders/{id}", h.DeleteOrder)
}
