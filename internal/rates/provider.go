package rates

import (
	"context"
	"errors"

	"github.com/isomaug/impelatradingcc/internal/domain"
)

// Provider fetches a full exchange-rate table. Implementations must return
// either a complete, valid table or an error; callers keep their previous
// table on error.
type Provider interface {
	Fetch(ctx context.Context) (domain.RateTable, error)
}

var (
	ErrMalformedResponse = errors.New("malformed rates response")
	ErrBaseMismatch      = errors.New("rates response base does not match reference currency")
)
