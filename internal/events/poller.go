package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/isomaug/impelatradingcc/internal/domain"
)

// CartClearer is the slice of the cart service the poller needs.
type CartClearer interface {
	Clear(ctx context.Context, sessionID string) (*domain.Cart, error)
}

// Poller consumes checkout-completed events and empties the corresponding
// session carts. Malformed messages are logged and skipped.
type Poller struct {
	carts  CartClearer
	reader *kafka.Reader
	logger *zap.Logger
}

func NewPoller(carts CartClearer, logger *zap.Logger, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "checkout-completed",
		GroupID:  "storefront-cart",
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{carts: carts, reader: reader, logger: logger}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		m, err := p.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				p.logger.Error("failed to read checkout event", zap.Error(err))
			}
			continue
		}

		if err := p.handle(ctx, m.Value); err != nil {
			p.logger.Error("failed to process checkout event", zap.Error(err))
		}
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		p.logger.Error("failed to close kafka reader", zap.Error(err))
	}
}

func (p *Poller) handle(ctx context.Context, value []byte) error {
	var payload map[string]interface{}
	if err := json.Unmarshal(value, &payload); err != nil {
		return fmt.Errorf("failed to parse checkout event: %w", err)
	}

	sessionID, ok := payload["session_id"].(string)
	if !ok || sessionID == "" {
		return fmt.Errorf("checkout event missing session_id")
	}

	if _, err := p.carts.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear cart for session %s: %w", sessionID, err)
	}

	p.logger.Info("cart cleared after checkout", zap.String("session_id", sessionID))
	return nil
}
