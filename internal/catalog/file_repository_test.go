package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isomaug/impelatradingcc/internal/domain"
)

func newTestRepo(t *testing.T) *FileRepository {
	return NewFileRepository(filepath.Join(t.TempDir(), "products.json"))
}

func TestFileRepository_MissingFileReadsEmpty(t *testing.T) {
	sut := newTestRepo(t)

	products, err := sut.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFileRepository_CreateAssignsNextID(t *testing.T) {
	sut := newTestRepo(t)
	ctx := context.Background()

	first, err := sut.Create(ctx, domain.Product{Name: "Belt", Price: 450})
	require.NoError(t, err)
	assert.Equal(t, "1", first.ID)

	second, err := sut.Create(ctx, domain.Product{Name: "Wallet", Price: 320})
	require.NoError(t, err)
	assert.Equal(t, "2", second.ID)

	products, err := sut.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestFileRepository_NextIDSkipsGaps(t *testing.T) {
	sut := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := sut.Create(ctx, domain.Product{Name: "P"})
		require.NoError(t, err)
	}
	require.NoError(t, sut.Delete(ctx, "2"))

	// Max existing id is 3, so the next one is 4 even with the gap at 2.
	p, err := sut.Create(ctx, domain.Product{Name: "Q"})
	require.NoError(t, err)
	assert.Equal(t, "4", p.ID)
}

func TestFileRepository_GetAndUpdate(t *testing.T) {
	sut := newTestRepo(t)
	ctx := context.Background()

	created, err := sut.Create(ctx, domain.Product{Name: "Belt", Price: 450, Category: "Accessories"})
	require.NoError(t, err)

	got, err := sut.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Belt", got.Name)

	got.Price = 499
	require.NoError(t, sut.Update(ctx, got))

	updated, err := sut.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.InDelta(t, 499.0, updated.Price, 1e-9)
}

func TestFileRepository_NotFoundSentinels(t *testing.T) {
	sut := newTestRepo(t)
	ctx := context.Background()

	_, err := sut.Get(ctx, "42")
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, sut.Update(ctx, domain.Product{ID: "42"}), ErrProductNotFound)
	assert.ErrorIs(t, sut.Delete(ctx, "42"), ErrProductNotFound)
}

func TestFileRepository_Delete(t *testing.T) {
	sut := newTestRepo(t)
	ctx := context.Background()

	created, err := sut.Create(ctx, domain.Product{Name: "Belt"})
	require.NoError(t, err)
	require.NoError(t, sut.Delete(ctx, created.ID))

	_, err = sut.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFileRepository_PersistsPrettyJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	sut := NewFileRepository(path)
	ctx := context.Background()

	_, err := sut.Create(ctx, domain.Product{Name: "Belt", Images: []string{"a.png"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  ")

	// A second repository over the same file sees the data.
	other := NewFileRepository(path)
	products, err := other.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}
