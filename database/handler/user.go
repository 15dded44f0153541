package handler

import (
	"net/http"

	"electro_store/model"
	"electro_store/utils"

	"github.com/go-chi/chi/v5"
)

type userResponse struct {
	Message string     `json:"message"`
	User    model.User `json:"user"`
}

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Users.List(r.Context())
	if err != nil {
		respondServiceError(w, err, "failed to fetch users")
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body model.CreateUserRequest
	if !h.parseAndValidate(w, r, &body) {
		return
	}

	user, err := h.Users.Create(r.Context(), body)
	if err != nil {
		respondServiceError(w, err, "failed to create user")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, userResponse{Message: "User created", User: user})
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var body model.UpdateUserRequest
	if !h.parseAndValidate(w, r, &body) {
		return
	}

	user, err := h.Users.Update(r.Context(), currentUser(r), chi.URLParam(r, "id"), body)
	if err != nil {
		respondServiceError(w, err, "failed to update user")
		return
	}
	utils.RespondJSON(w, http.StatusOK, userResponse{Message: "User updated", User: user})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Delete(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err, "failed to delete user")
		return
	}
	utils.RespondJSON(w, http.StatusOK, model.MessageResponse{Message: "User deleted successfully"})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Profile(r.Context(), currentUser(r).ID)
	if err != nil {
		respondServiceError(w, err, "failed to fetch profile")
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body model.UpdateProfileRequest
	if !h.parseAndValidate(w, r, &body) {
		return
	}

	user, err := h.Users.UpdateProfile(r.Context(), currentUser(r).ID, body)
	if err != nil {
		respondServiceError(w, err, "failed to update profile")
		return
	}
	utils.RespondJSON(w, http.StatusOK, user)
}
