package catalog

import (
	"context"
	"errors"

	"github.com/isomaug/impelatradingcc/internal/domain"
)

// ProductRepository defines the catalog operations the storefront needs.
// Consumers define this interface, not the storage implementations.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id string) error
}

var ErrProductNotFound = errors.New("product not found")
