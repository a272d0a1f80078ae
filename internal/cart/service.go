package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/isomaug/impelatradingcc/internal/catalog"
	"github.com/isomaug/impelatradingcc/internal/domain"
	"github.com/isomaug/impelatradingcc/internal/session"
)

// Service tracks what a session intends to buy. Lines hold product
// snapshots taken at add time, so later catalog edits never reprice a
// cart. Every mutation persists the full cart through the session store.
type Service struct {
	store   session.Store
	catalog catalog.ProductRepository
	logger  *zap.Logger
}

func NewService(store session.Store, catalog catalog.ProductRepository, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		logger:  logger,
	}
}

// Get loads the session's cart. A missing or corrupt persisted payload
// yields an empty cart, never an error; a stale cart is better than a
// broken page.
func (s *Service) Get(ctx context.Context, sessionID string) *domain.Cart {
	data, err := s.store.Get(ctx, cartKey(sessionID))
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			s.logger.Warn("failed to load cart, starting empty",
				zap.String("session_id", sessionID), zap.Error(err))
		}
		return s.emptyCart(sessionID)
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		s.logger.Warn("corrupt cart payload, starting empty",
			zap.String("session_id", sessionID), zap.Error(err))
		return s.emptyCart(sessionID)
	}

	cart.SessionID = sessionID
	return &cart
}

// AddItem snapshots the product from the catalog and merges it into the
// cart: an existing line has its quantity incremented, otherwise a new
// line is appended. Non-positive quantities are clamped to 1.
func (s *Service) AddItem(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot product: %w", err)
	}

	cart := s.Get(ctx, sessionID)
	if i := cart.Find(productID); i >= 0 {
		cart.Lines[i].Quantity += quantity
	} else {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID: productID,
			Product:   product,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		})
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets the line's quantity; a value of zero or less removes
// the line entirely so a zero-quantity line can never be displayed.
// Unknown product IDs are a no-op.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	cart := s.Get(ctx, sessionID)

	i := cart.Find(productID)
	if i < 0 {
		return cart, nil
	}

	if quantity <= 0 {
		cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
	} else {
		cart.Lines[i].Quantity = quantity
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes the line if present; removing an absent product is
// not an error.
func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	cart := s.Get(ctx, sessionID)

	i := cart.Find(productID)
	if i < 0 {
		return cart, nil
	}
	cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart := s.emptyCart(sessionID)
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := s.store.Set(ctx, cartKey(cart.SessionID), string(data)); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (s *Service) emptyCart(sessionID string) *domain.Cart {
	now := time.Now()
	return &domain.Cart{
		SessionID: sessionID,
		Lines:     nil,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
