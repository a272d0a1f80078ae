package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/isomaug/impelatradingcc/internal/catalog"
	"github.com/isomaug/impelatradingcc/internal/domain"
	"github.com/isomaug/impelatradingcc/internal/session"
)

type mockStore struct {
	m      sync.RWMutex
	values map[string]string
	err    error
}

func newMockStore() *mockStore {
	return &mockStore{values: make(map[string]string)}
}

func (m *mockStore) Get(_ context.Context, key string) (string, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.values[key]
	if !ok {
		return "", session.ErrNotFound
	}
	return v, nil
}

func (m *mockStore) Set(_ context.Context, key, value string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func (m *mockStore) Delete(_ context.Context, key string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.values, key)
	return nil
}

type mockCatalog struct {
	m        sync.RWMutex
	products map[string]domain.Product
}

func newMockCatalog(products ...domain.Product) *mockCatalog {
	c := &mockCatalog{products: make(map[string]domain.Product)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (m *mockCatalog) List(context.Context) ([]domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockCatalog) Get(_ context.Context, id string) (domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, catalog.ErrProductNotFound
	}
	return p, nil
}

func (m *mockCatalog) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.products[p.ID] = p
	return p, nil
}

func (m *mockCatalog) Update(_ context.Context, p domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.products[p.ID] = p
	return nil
}

func (m *mockCatalog) Delete(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.products, id)
	return nil
}

func newTestService(products ...domain.Product) (*Service, *mockStore, *mockCatalog) {
	store := newMockStore()
	cat := newMockCatalog(products...)
	return NewService(store, cat, zap.NewNop()), store, cat
}

func TestAddItem_NewLine(t *testing.T) {
	sut, _, _ := newTestService(domain.Product{ID: "7", Name: "Belt", Price: 50})

	c, err := sut.AddItem(context.Background(), "s1", "7", 2)
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, "7", c.Lines[0].ProductID)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.InDelta(t, 50.0, c.Lines[0].Product.Price, 1e-9)
}

func TestAddItem_MergesQuantities(t *testing.T) {
	sut, _, _ := newTestService(domain.Product{ID: "7", Price: 50})
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s1", "7", 2)
	require.NoError(t, err)
	c, err := sut.AddItem(ctx, "s1", "7", 3)
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, 5, c.ItemCount())
	assert.InDelta(t, 250.0, c.Subtotal(), 1e-9)
}

func TestAddItem_ClampsNonPositiveQuantity(t *testing.T) {
	sut, _, _ := newTestService(domain.Product{ID: "7", Price: 50})

	c, err := sut.AddItem(context.Background(), "s1", "7", -4)
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	sut, _, _ := newTestService()

	_, err := sut.AddItem(context.Background(), "s1", "missing", 1)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestAddItem_SnapshotIgnoresLaterCatalogEdits(t *testing.T) {
	product := domain.Product{ID: "7", Name: "Belt", Price: 50}
	sut, _, cat := newTestService(product)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s1", "7", 1)
	require.NoError(t, err)

	// Reprice the catalog after the line was added.
	product.Price = 999
	require.NoError(t, cat.Update(ctx, product))

	c := sut.Get(ctx, "s1")
	assert.InDelta(t, 50.0, c.Lines[0].Product.Price, 1e-9)
	assert.InDelta(t, 50.0, c.Subtotal(), 1e-9)
}

func TestUpdateQuantity_SetsValue(t *testing.T) {
	sut, _, _ := newTestService(domain.Product{ID: "7", Price: 50})
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s1", "7", 2)
	require.NoError(t, err)

	c, err := sut.UpdateQuantity(ctx, "s1", "7", 9)
	require.NoError(t, err)
	assert.Equal(t, 9, c.Lines[0].Quantity)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	sut, _, _ := newTestService(domain.Product{ID: "7", Price: 50})
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s1", "7", 2)
	require.NoError(t, err)

	c, err := sut.UpdateQuantity(ctx, "s1", "7", 0)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)

	c, err = sut.UpdateQuantity(ctx, "s1", "7", -3)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}

func TestUpdateQuantity_UnknownProductIsNoop(t *testing.T) {
	sut, _, _ := newTestService(domain.Product{ID: "7", Price: 50})
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s1", "7", 2)
	require.NoError(t, err)

	c, err := sut.UpdateQuantity(ctx, "s1", "other", 5)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	sut, _, _ := newTestService(
		domain.Product{ID: "7", Price: 50},
		domain.Product{ID: "8", Price: 20},
	)
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s1", "7", 1)
	require.NoError(t, err)
	_, err = sut.AddItem(ctx, "s1", "8", 1)
	require.NoError(t, err)

	c, err := sut.RemoveItem(ctx, "s1", "7")
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "8", c.Lines[0].ProductID)

	// Removing an absent product is not an error.
	c, err = sut.RemoveItem(ctx, "s1", "7")
	require.NoError(t, err)
	assert.Len(t, c.Lines, 1)
}

func TestClear(t *testing.T) {
	sut, _, _ := newTestService(domain.Product{ID: "7", Price: 50})
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s1", "7", 3)
	require.NoError(t, err)

	c, err := sut.Clear(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, c.Lines)

	// The cleared state is persisted.
	assert.Empty(t, sut.Get(ctx, "s1").Lines)
}

func TestGet_CorruptPayloadStartsEmpty(t *testing.T) {
	sut, store, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart:s1", "not json"))

	c := sut.Get(ctx, "s1")
	assert.Empty(t, c.Lines)
	assert.Equal(t, "s1", c.SessionID)
}

func TestGet_MissingCartIsEmpty(t *testing.T) {
	sut, _, _ := newTestService()

	c := sut.Get(context.Background(), "fresh")
	assert.Empty(t, c.Lines)
	assert.Zero(t, c.Subtotal())
}

func TestMutations_PersistAcrossLoads(t *testing.T) {
	sut, _, _ := newTestService(domain.Product{ID: "7", Price: 50})
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s1", "7", 2)
	require.NoError(t, err)

	// A fresh load sees the same lines, as after a page reload.
	c := sut.Get(ctx, "s1")
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestCarts_AreIsolatedPerSession(t *testing.T) {
	sut, _, _ := newTestService(domain.Product{ID: "7", Price: 50})
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s1", "7", 2)
	require.NoError(t, err)

	assert.Empty(t, sut.Get(ctx, "s2").Lines)
}

func TestAtMostOneLinePerProduct(t *testing.T) {
	sut, _, _ := newTestService(
		domain.Product{ID: "1", Price: 10},
		domain.Product{ID: "2", Price: 20},
	)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := sut.AddItem(ctx, "s1", "1", 1)
		require.NoError(t, err)
		_, err = sut.AddItem(ctx, "s1", "2", 2)
		require.NoError(t, err)
	}
	_, err := sut.UpdateQuantity(ctx, "s1", "1", 7)
	require.NoError(t, err)

	c := sut.Get(ctx, "s1")
	require.Len(t, c.Lines, 2)
	assert.Equal(t, 7, c.Lines[0].Quantity)
	assert.Equal(t, 8, c.Lines[1].Quantity)
}
