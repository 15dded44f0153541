package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"electro_store/events"
	"electro_store/middleware"
	"electro_store/model"
	"electro_store/service"
	"electro_store/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Products *service.ProductService
	Orders   *service.OrderService
	Wishlist *service.WishlistService
	Hub      *events.Hub
	Store    Pinger

	validate *validator.Validate
}

func New(h Handler) *Handler {
	h.validate = validator.New()
	return &h
}

// parseAndValidate decodes the body into out and checks its validate tags.
// It writes the 400 response itself and reports whether the caller may go on.
func (h *Handler) parseAndValidate(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := utils.ParseBody(r.Body, out); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "Failed to parse request body")
		return false
	}
	if err := h.validate.Struct(out); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, "input field is invalid")
		return false
	}
	return true
}

// respondServiceError maps service sentinels onto status codes.
func respondServiceError(w http.ResponseWriter, err error, messageToUser string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		utils.RespondError(w, http.StatusBadRequest, err, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		utils.RespondError(w, http.StatusUnauthorized, err, err.Error())
	case errors.Is(err, service.ErrForbidden):
		utils.RespondError(w, http.StatusForbidden, err, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, err, err.Error())
	case errors.Is(err, service.ErrConflict):
		utils.RespondError(w, http.StatusConflict, err, err.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, err, messageToUser)
	}
}

func currentUser(r *http.Request) model.User {
	user, _ := middleware.UserFromContext(r.Context())
	return user
}

func productIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("product id must be a positive integer")
	}
	return id, nil
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, err, "storage is unavailable")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
