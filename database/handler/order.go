package handler

import (
	"net/http"

	"electro_store/model"
	"electro_store/utils"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orders.List(r.Context())
	if err != nil {
		respondServiceError(w, err, "failed to fetch orders")
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}

func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orders.ListForCustomer(r.Context(), currentUser(r).ID)
	if err != nil {
		respondServiceError(w, err, "failed to fetch orders")
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}

func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "failed to fetch order")
		return
	}
	utils.RespondJSON(w, http.StatusOK, order)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var body model.CreateOrderRequest
	if !h.parseAndValidate(w, r, &body) {
		return
	}

	order, err := h.Orders.Create(r.Context(), currentUser(r), body)
	if err != nil {
		respondServiceError(w, err, "failed to place order")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, order)
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var body model.UpdateOrderRequest
	if !h.parseAndValidate(w, r, &body) {
		return
	}

	order, err := h.Orders.Update(r.Context(), currentUser(r), chi.URLParam(r, "id"), body)
	if err != nil {
		respondServiceError(w, err, "failed to update order")
		return
	}
	utils.RespondJSON(w, http.StatusOK, model.OrderUpdatedResponse{Message: "Order updated", Order: order})
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.Orders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err, "failed to delete order")
		return
	}
	utils.RespondJSON(w, http.StatusOK, model.MessageResponse{Message: "Order deleted"})
}

// OrdersWS streams order events to an admin dashboard.
func (h *Handler) OrdersWS(w http.ResponseWriter, r *http.Request) {
	h.Hub.ServeWS(w, r)
}
