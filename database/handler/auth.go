package handler

import (
	"net/http"

	"electro_store/model"
	"electro_store/utils"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body model.UserRequestBody
	if !h.parseAndValidate(w, r, &body) {
		return
	}

	resp, err := h.Auth.Register(r.Context(), body)
	if err != nil {
		respondServiceError(w, err, "failed to create user")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body model.LoginRequestBody
	if !h.parseAndValidate(w, r, &body) {
		return
	}

	resp, err := h.Auth.Login(r.Context(), body)
	if err != nil {
		respondServiceError(w, err, "failed to sign in")
		return
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, currentUser(r))
}
