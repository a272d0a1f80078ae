package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/isomaug/impelatradingcc/internal/catalog"
	"github.com/isomaug/impelatradingcc/internal/domain"
)

type ProductHandler struct {
	repo catalog.ProductRepository
}

func NewProductHandler(repo catalog.ProductRepository) *ProductHandler {
	return &ProductHandler{repo: repo}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load products")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.repo.Get(r.Context(), id)
	if err != nil {
		handleProductError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if p.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_product", "name is required")
		return
	}
	if p.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_product", "price must not be negative")
		return
	}

	created, err := h.repo.Create(r.Context(), p)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create product")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if p.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_product", "price must not be negative")
		return
	}
	p.ID = id

	if err := h.repo.Update(r.Context(), p); err != nil {
		handleProductError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleProductError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleProductError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
