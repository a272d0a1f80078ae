package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/isomaug/impelatradingcc/internal/cart"
	"github.com/isomaug/impelatradingcc/internal/catalog"
	"github.com/isomaug/impelatradingcc/internal/currency"
	"github.com/isomaug/impelatradingcc/internal/domain"
)

type CartHandler struct {
	carts    *cart.Service
	currency *currency.Service
	taxRate  float64
}

func NewCartHandler(carts *cart.Service, currency *currency.Service, taxRate float64) *CartHandler {
	return &CartHandler{
		carts:    carts,
		currency: currency,
		taxRate:  taxRate,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// CartTotals carries the numeric totals in the reference currency together
// with display strings in the session's selected currency.
type CartTotals struct {
	Currency            string  `json:"currency"`
	ItemCount           int     `json:"item_count"`
	Subtotal            float64 `json:"subtotal"`
	TaxRate             float64 `json:"tax_rate"`
	Tax                 float64 `json:"tax"`
	GrandTotal          float64 `json:"grand_total"`
	FormattedSubtotal   string  `json:"formatted_subtotal"`
	FormattedTax        string  `json:"formatted_tax"`
	FormattedGrandTotal string  `json:"formatted_grand_total"`
}

type CartResponseDTO struct {
	Cart   *domain.Cart `json:"cart"`
	Totals CartTotals   `json:"totals"`
}

func (h *CartHandler) respondCart(w http.ResponseWriter, r *http.Request, status int, c *domain.Cart) {
	code := h.currency.Selected(r.Context(), c.SessionID)
	respondJSON(w, status, CartResponseDTO{
		Cart: c,
		Totals: CartTotals{
			Currency:            code,
			ItemCount:           c.ItemCount(),
			Subtotal:            c.Subtotal(),
			TaxRate:             h.taxRate,
			Tax:                 c.Tax(h.taxRate),
			GrandTotal:          c.GrandTotal(h.taxRate),
			FormattedSubtotal:   h.currency.Format(code, c.Subtotal()),
			FormattedTax:        h.currency.Format(code, c.Tax(h.taxRate)),
			FormattedGrandTotal: h.currency.Format(code, c.GrandTotal(h.taxRate)),
		},
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session ID resolved")
		return
	}

	h.respondCart(w, r, http.StatusOK, h.carts.Get(r.Context(), sessionID))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session ID resolved")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	c, err := h.carts.AddItem(r.Context(), sessionID, req.ProductID, req.Quantity)
	if err != nil {
		handleCartError(w, err)
		return
	}

	h.respondCart(w, r, http.StatusCreated, c)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session ID resolved")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	// Zero or negative removes the line.
	c, err := h.carts.UpdateQuantity(r.Context(), sessionID, productID, req.Quantity)
	if err != nil {
		handleCartError(w, err)
		return
	}

	h.respondCart(w, r, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session ID resolved")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	c, err := h.carts.RemoveItem(r.Context(), sessionID, productID)
	if err != nil {
		handleCartError(w, err)
		return
	}

	h.respondCart(w, r, http.StatusOK, c)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session ID resolved")
		return
	}

	c, err := h.carts.Clear(r.Context(), sessionID)
	if err != nil {
		handleCartError(w, err)
		return
	}

	h.respondCart(w, r, http.StatusOK, c)
}

func handleCartError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
