package handler

import (
	"net/http"

	"electro_store/model"
	"electro_store/utils"
)

func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	list, err := h.Wishlist.List(r.Context(), currentUser(r).ID)
	if err != nil {
		respondServiceError(w, err, "failed to fetch wishlist")
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}

func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var body model.WishlistRequest
	if !h.parseAndValidate(w, r, &body) {
		return
	}

	list, err := h.Wishlist.Add(r.Context(), currentUser(r).ID, body.ID)
	if err != nil {
		respondServiceError(w, err, "failed to add to wishlist")
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}

func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r, "productId")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, err.Error())
		return
	}

	list, err := h.Wishlist.Remove(r.Context(), currentUser(r).ID, id)
	if err != nil {
		respondServiceError(w, err, "failed to remove from wishlist")
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}
