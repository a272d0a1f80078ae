package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isomaug/impelatradingcc/internal/currency"
)

type CurrencyHandler struct {
	currency *currency.Service
}

func NewCurrencyHandler(svc *currency.Service) *CurrencyHandler {
	return &CurrencyHandler{currency: svc}
}

type RatesResponseDTO struct {
	Base     string             `json:"base"`
	Rates    map[string]float64 `json:"rates"`
	Selected string             `json:"selected"`
}

type SetCurrencyRequestDTO struct {
	Code string `json:"code"`
}

func (h *CurrencyHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	respondJSON(w, http.StatusOK, RatesResponseDTO{
		Base:     currency.ReferenceCurrency,
		Rates:    h.currency.Rates(),
		Selected: h.currency.Selected(r.Context(), sessionID),
	})
}

func (h *CurrencyHandler) SetCurrency(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no session ID resolved")
		return
	}

	var req SetCurrencyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.currency.SetCurrency(r.Context(), sessionID, req.Code); err != nil {
		if errors.Is(err, currency.ErrUnsupportedCurrency) {
			respondError(w, http.StatusBadRequest, "unsupported_currency", "currency code is not supported")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save currency selection")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"selected": req.Code})
}

// Refresh pulls a fresh table from the upstream source. Failure keeps the
// previous table, so we report the upstream problem without losing state.
func (h *CurrencyHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.currency.Refresh(r.Context()); err != nil {
		respondError(w, http.StatusBadGateway, "rates_unavailable", "could not refresh exchange rates")
		return
	}

	respondJSON(w, http.StatusOK, RatesResponseDTO{
		Base:     currency.ReferenceCurrency,
		Rates:    h.currency.Rates(),
		Selected: h.currency.Selected(r.Context(), getSessionID(r.Context())),
	})
}
