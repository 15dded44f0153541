package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"electro_store/model"
	"electro_store/utils"
)

func parseProductFilter(r *http.Request) (model.ProductFilter, error) {
	q := r.URL.Query()
	filter := model.ProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     model.ProductSort(q.Get("sort")),
	}
	for key, dest := range map[string]**float64{"minPrice": &filter.MinPrice, "maxPrice": &filter.MaxPrice} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return model.ProductFilter{}, fmt.Errorf("%s must be a non-negative number", key)
		}
		*dest = &v
	}
	if raw := q.Get("inStock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			return model.ProductFilter{}, fmt.Errorf("inStock must be true or false")
		}
		filter.InStockOnly = inStock
	}
	return filter, nil
}

func (h *Handler) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, err.Error())
		return
	}

	list, err := h.Products.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err, "failed to fetch products")
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}

func (h *Handler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, err.Error())
		return
	}

	product, err := h.Products.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "failed to fetch product")
		return
	}
	utils.RespondJSON(w, http.StatusOK, product)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var body model.ProductRequest
	if !h.parseAndValidate(w, r, &body) {
		return
	}

	product, err := h.Products.Create(r.Context(), body)
	if err != nil {
		respondServiceError(w, err, "Failed to create product")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, err.Error())
		return
	}
	var body model.ProductPatch
	if !h.parseAndValidate(w, r, &body) {
		return
	}

	product, err := h.Products.Update(r.Context(), id, body)
	if err != nil {
		respondServiceError(w, err, "failed to update product")
		return
	}
	utils.RespondJSON(w, http.StatusOK, product)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err, err.Error())
		return
	}

	if err := h.Products.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err, "failed to delete product")
		return
	}
	utils.RespondJSON(w, http.StatusOK, model.MessageResponse{Message: "Product deleted"})
}
