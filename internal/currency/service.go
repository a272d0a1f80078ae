package currency

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/isomaug/impelatradingcc/internal/domain"
	"github.com/isomaug/impelatradingcc/internal/rates"
	"github.com/isomaug/impelatradingcc/internal/session"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency code")

// Service owns the exchange-rate table and per-session display-currency
// selection, and renders reference-currency amounts as localized strings.
//
// The table has one logical writer (Refresh) and many readers; a failed
// refresh leaves the last-known-good table in place.
type Service struct {
	mu       sync.RWMutex
	table    domain.RateTable
	provider rates.Provider
	store    session.Store
	logger   *zap.Logger
	sfg      singleflight.Group // collapses concurrent refreshes
	printer  *message.Printer
}

func NewService(provider rates.Provider, store session.Store, logger *zap.Logger) *Service {
	return &Service{
		table:    DefaultRates(),
		provider: provider,
		store:    store,
		logger:   logger,
		printer:  message.NewPrinter(language.English),
	}
}

// Rates returns a copy of the current table.
func (s *Service) Rates() domain.RateTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Clone()
}

// Refresh replaces the table wholesale from the provider. On any failure
// the previous table is retained and the error is returned for logging;
// nothing downstream should treat it as fatal.
func (s *Service) Refresh(ctx context.Context) error {
	_, err, _ := s.sfg.Do("refresh", func() (interface{}, error) {
		table, err := s.provider.Fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch rates: %w", err)
		}
		if table[ReferenceCurrency] != 1 {
			return nil, fmt.Errorf("%w: reference rate must be 1", rates.ErrMalformedResponse)
		}

		s.mu.Lock()
		s.table = table
		s.mu.Unlock()

		s.logger.Info("exchange rates refreshed", zap.Int("currencies", len(table)))
		return nil, nil
	})
	return err
}

// SetCurrency records the session's display currency. Codes absent from the
// current table are rejected without touching the stored selection.
func (s *Service) SetCurrency(ctx context.Context, sessionID, code string) error {
	if !s.Rates().Has(code) {
		return ErrUnsupportedCurrency
	}
	if err := s.store.Set(ctx, selectionKey(sessionID), code); err != nil {
		return fmt.Errorf("failed to persist currency selection: %w", err)
	}
	return nil
}

// Selected returns the session's display currency, falling back to the
// reference currency when nothing is stored or the stored code is no
// longer recognized.
func (s *Service) Selected(ctx context.Context, sessionID string) string {
	code, err := s.store.Get(ctx, selectionKey(sessionID))
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			s.logger.Warn("failed to read currency selection", zap.Error(err))
		}
		return ReferenceCurrency
	}
	if !s.Rates().Has(code) {
		return ReferenceCurrency
	}
	return code
}

// Format converts a reference-currency amount into code's units and renders
// it with the currency's symbol and decimal policy: whole-unit currencies
// round to the nearest integer with thousands grouping, all others show
// exactly two decimals. Unrecognized codes render in the reference currency.
func (s *Service) Format(code string, amount float64) string {
	desc, ok := Descriptors[code]
	rate := s.rate(code)
	if !ok || rate <= 0 {
		desc = Descriptors[ReferenceCurrency]
		rate = 1
	}

	converted := amount * rate
	if desc.DecimalPlaces == 0 {
		return s.printer.Sprintf("%s%d", desc.Symbol, int64(math.Round(converted)))
	}
	return s.printer.Sprintf("%s%.2f", desc.Symbol, converted)
}

// FormatFor formats in the session's selected currency.
func (s *Service) FormatFor(ctx context.Context, sessionID string, amount float64) string {
	return s.Format(s.Selected(ctx, sessionID), amount)
}

func (s *Service) rate(code string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table[code]
}

func selectionKey(sessionID string) string {
	return fmt.Sprintf("currency:%s", sessionID)
}
