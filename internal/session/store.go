package session

import (
	"context"
	"errors"
)

// Store is the key-value port behind which per-session state (carts,
// currency selections) is persisted. Consumers define this interface, not
// the Redis implementation.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("session key not found")
