package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/isomaug/impelatradingcc/internal/domain"
)

// ratesPayload is the wire shape of the upstream endpoint:
// { "base": "ZAR", "rates": { "USD": 0.054, ... } }.
type ratesPayload struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// HTTPProvider fetches the rate table from an external endpoint. The call
// runs behind a circuit breaker so a flapping upstream is shed quickly
// instead of stalling every refresh.
type HTTPProvider struct {
	url       string
	reference string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[domain.RateTable]
}

func NewHTTPProvider(url, reference string) *HTTPProvider {
	return &HTTPProvider{
		url:       url,
		reference: reference,
		client:    &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[domain.RateTable](gobreaker.Settings{
			Name:    "exchange-rates",
			Timeout: 30 * time.Second,
		}),
	}
}

func (p *HTTPProvider) Fetch(ctx context.Context) (domain.RateTable, error) {
	return p.breaker.Execute(func() (domain.RateTable, error) {
		return p.fetch(ctx)
	})
}

func (p *HTTPProvider) fetch(ctx context.Context) (domain.RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("rates endpoint returned status %d", resp.StatusCode)
	}

	var payload ratesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if payload.Base != p.reference {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrBaseMismatch, payload.Base, p.reference)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("%w: empty rates", ErrMalformedResponse)
	}

	table := make(domain.RateTable, len(payload.Rates))
	for code, rate := range payload.Rates {
		if rate <= 0 {
			return nil, fmt.Errorf("%w: non-positive rate for %s", ErrMalformedResponse, code)
		}
		table[code] = rate
	}

	// The reference currency converts to itself 1:1 regardless of what the
	// upstream claims.
	table[p.reference] = 1

	return table, nil
}
