package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/isomaug/impelatradingcc/internal/domain"
)

// FileRepository stores the catalog as one pretty-printed JSON array on
// disk. A missing file reads as an empty catalog. New products get the
// next numeric id after the current maximum.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) readAll() ([]domain.Product, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	return products, nil
}

func (r *FileRepository) writeAll(products []domain.Product) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create catalog dir: %w", err)
		}
	}

	// Write-then-rename keeps the catalog readable if we crash mid-write.
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace catalog file: %w", err)
	}
	return nil
}

func (r *FileRepository) List(_ context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readAll()
}

func (r *FileRepository) Get(_ context.Context, id string) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.readAll()
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}

func (r *FileRepository) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.readAll()
	if err != nil {
		return domain.Product{}, err
	}

	p.ID = strconv.Itoa(nextID(products))
	products = append(products, p)
	if err := r.writeAll(products); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *FileRepository) Update(_ context.Context, p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.readAll()
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = p
			return r.writeAll(products)
		}
	}
	return ErrProductNotFound
}

func (r *FileRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.readAll()
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == id {
			products = append(products[:i], products[i+1:]...)
			return r.writeAll(products)
		}
	}
	return ErrProductNotFound
}

// nextID is max(existing numeric ids) + 1, starting at 1 for an empty
// catalog. Non-numeric ids are ignored.
func nextID(products []domain.Product) int {
	max := 0
	for _, p := range products {
		if n, err := strconv.Atoi(p.ID); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}
