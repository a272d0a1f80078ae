package currency

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Refresher keeps the rate table fresh in the background. Failures are
// logged and the loop keeps going on the last-known-good table.
type Refresher struct {
	service  *Service
	interval time.Duration
	logger   *zap.Logger
}

func NewRefresher(service *Service, interval time.Duration, logger *zap.Logger) *Refresher {
	return &Refresher{service: service, interval: interval, logger: logger}
}

func (r *Refresher) Run(ctx context.Context) {
	if err := r.service.Refresh(ctx); err != nil {
		r.logger.Warn("initial rates refresh failed, using defaults", zap.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.service.Refresh(ctx); err != nil {
				r.logger.Warn("rates refresh failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}
