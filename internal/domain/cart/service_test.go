package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KhanhPN03/Hanfoods-sub000/internal/domain/product"
)

// --- Mock implementations ---

type mockCartRepo struct {
	mu        sync.Mutex
	byUser    map[string]*Cart
	createErr error
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{byUser: make(map[string]*Cart)}
}

func (m *mockCartRepo) GetByUser(_ context.Context, userID string) (*Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byUser[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	cp.Items = append([]Item(nil), c.Items...)
	return &cp, nil
}

func (m *mockCartRepo) Create(_ context.Context, c *Cart) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byUser[c.UserID] = c
	return nil
}

func (m *mockCartRepo) ReplaceItems(_ context.Context, cartID string, items []Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byUser {
		if c.ID == cartID {
			c.Items = append([]Item(nil), items...)
			return nil
		}
	}
	return ErrNotFound
}

type mockProductRepo struct {
	byID map[string]*product.Product
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) { return nil, nil }

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	var out []product.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Create(_ context.Context, _ *product.Product) error { return nil }
func (m *mockProductRepo) Update(_ context.Context, _ *product.Product) error { return nil }

// --- Helpers ---

func newCatalog(products ...product.Product) *mockProductRepo {
	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return &mockProductRepo{byID: byID}
}

func catalogProduct(id string, price, salePrice int64, stock int) product.Product {
	return product.Product{
		ID:        id,
		Name:      "Product " + id,
		Price:     decimal.NewFromInt(price),
		SalePrice: decimal.NewFromInt(salePrice),
		Stock:     stock,
	}
}

// --- Tests ---

func TestGetOrCreate_PersistsEmptyCart(t *testing.T) {
	repo := newMockCartRepo()
	svc := NewService(repo, newCatalog(), nil)

	c, err := svc.GetOrCreate(context.Background(), "u1")
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	assert.Empty(t, c.Items)

	// Second call returns the same persisted cart.
	again, err := svc.GetOrCreate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
}

func TestAddItem_ClampsQuantityToOne(t *testing.T) {
	svc := NewService(newMockCartRepo(), newCatalog(catalogProduct("p1", 100, 0, 5)), nil)

	c, err := svc.AddItem(context.Background(), "u1", "p1", 0)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestAddItem_MergesQuantities(t *testing.T) {
	svc := NewService(newMockCartRepo(), newCatalog(catalogProduct("p1", 100, 0, 5)), nil)

	_, err := svc.AddItem(context.Background(), "u1", "p1", 2)
	require.NoError(t, err)
	c, err := svc.AddItem(context.Background(), "u1", "p1", 3)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestAddItem_InsufficientStock(t *testing.T) {
	tests := []struct {
		name  string
		stock int
		adds  []int
	}{
		{name: "single add exceeds stock", stock: 3, adds: []int{4}},
		{name: "merge exceeds stock", stock: 5, adds: []int{3, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMockCartRepo(), newCatalog(catalogProduct("p1", 100, 0, tt.stock)), nil)

			var err error
			for _, q := range tt.adds {
				_, err = svc.AddItem(context.Background(), "u1", "p1", q)
			}
			require.ErrorIs(t, err, ErrInsufficientStock)

			// Failed add leaves the cart unchanged.
			c, getErr := svc.GetOrCreate(context.Background(), "u1")
			require.NoError(t, getErr)
			total := 0
			for _, it := range c.Items {
				total += it.Quantity
			}
			assert.LessOrEqual(t, total, tt.stock)
		})
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc := NewService(newMockCartRepo(), newCatalog(), nil)

	_, err := svc.AddItem(context.Background(), "u1", "missing", 1)
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestUpdateItem_ReplacesQuantity(t *testing.T) {
	svc := NewService(newMockCartRepo(), newCatalog(catalogProduct("p1", 100, 0, 10)), nil)

	_, err := svc.AddItem(context.Background(), "u1", "p1", 2)
	require.NoError(t, err)
	c, err := svc.UpdateItem(context.Background(), "u1", "p1", 7)
	require.NoError(t, err)

	assert.Equal(t, 7, c.Items[0].Quantity)
}

func TestUpdateItem_Errors(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		wantErr  error
	}{
		{name: "zero quantity", quantity: 0, wantErr: ErrInvalidQuantity},
		{name: "negative quantity", quantity: -1, wantErr: ErrInvalidQuantity},
		{name: "exceeds stock", quantity: 11, wantErr: ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMockCartRepo(), newCatalog(catalogProduct("p1", 100, 0, 10)), nil)
			_, err := svc.AddItem(context.Background(), "u1", "p1", 1)
			require.NoError(t, err)

			_, err = svc.UpdateItem(context.Background(), "u1", "p1", tt.quantity)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateItem_AbsentLine(t *testing.T) {
	svc := NewService(newMockCartRepo(), newCatalog(catalogProduct("p1", 100, 0, 10)), nil)

	_, err := svc.UpdateItem(context.Background(), "u1", "p1", 2)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItem_Idempotent(t *testing.T) {
	svc := NewService(newMockCartRepo(), newCatalog(catalogProduct("p1", 100, 0, 10)), nil)

	_, err := svc.AddItem(context.Background(), "u1", "p1", 2)
	require.NoError(t, err)

	c, err := svc.RemoveItem(context.Background(), "u1", "p1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	// Removing again is a no-op, not an error.
	c, err = svc.RemoveItem(context.Background(), "u1", "p1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestClear_EmptiesCart(t *testing.T) {
	svc := NewService(newMockCartRepo(), newCatalog(catalogProduct("p1", 100, 0, 10)), nil)

	_, err := svc.AddItem(context.Background(), "u1", "p1", 2)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(context.Background(), "u1"))

	c, err := svc.GetOrCreate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestView_PrefersSalePrice(t *testing.T) {
	// Product A: price 100, no sale, qty 2. Product B: price 50, sale 40, qty 1.
	// Expected total: 100*2 + 40*1 = 240.
	catalog := newCatalog(
		catalogProduct("a", 100, 0, 5),
		catalogProduct("b", 50, 40, 10),
	)
	svc := NewService(newMockCartRepo(), catalog, nil)

	_, err := svc.AddItem(context.Background(), "u1", "a", 2)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), "u1", "b", 1)
	require.NoError(t, err)

	v, err := svc.View(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, v.Lines, 2)
	assert.True(t, decimal.NewFromInt(240).Equal(v.Total), "total = %s", v.Total)
	assert.True(t, decimal.NewFromInt(40).Equal(v.Lines[1].UnitPrice))
}

func TestView_EmptyCart(t *testing.T) {
	svc := NewService(newMockCartRepo(), newCatalog(), nil)

	v, err := svc.View(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, v.Lines)
	assert.True(t, v.Total.IsZero())
}

type mockCache struct {
	byUser  map[string]*Cart
	deletes int
}

func (m *mockCache) Get(_ context.Context, userID string) (*Cart, error) {
	if c, ok := m.byUser[userID]; ok {
		return c, nil
	}
	return nil, ErrCacheMiss
}

func (m *mockCache) Set(_ context.Context, userID string, c *Cart) error {
	m.byUser[userID] = c
	return nil
}

func (m *mockCache) Delete(_ context.Context, userID string) error {
	m.deletes++
	delete(m.byUser, userID)
	return nil
}

func TestGetOrCreate_CachedCartIsCopied(t *testing.T) {
	cache := &mockCache{byUser: make(map[string]*Cart)}
	svc := NewService(newMockCartRepo(), newCatalog(catalogProduct("p1", 100, 0, 10)), cache)

	_, err := svc.GetOrCreate(context.Background(), "u1")
	require.NoError(t, err)
	cache.byUser["u1"].Items = []Item{{ProductID: "p1", Quantity: 1}}

	// A cache hit must hand out a copy; mutating it may not corrupt the
	// cached document.
	c, err := svc.GetOrCreate(context.Background(), "u1")
	require.NoError(t, err)
	c.Items[0].Quantity = 5

	assert.Equal(t, 1, cache.byUser["u1"].Items[0].Quantity)
}

// slowCartRepo blocks reads until released, keeping one cart lookup in
// flight long enough for concurrent callers to join it.
type slowCartRepo struct {
	*mockCartRepo
	release chan struct{}
}

func (r *slowCartRepo) GetByUser(ctx context.Context, userID string) (*Cart, error) {
	<-r.release
	return r.mockCartRepo.GetByUser(ctx, userID)
}

func TestAddItem_ConcurrentCallersDoNotShareCart(t *testing.T) {
	repo := &slowCartRepo{mockCartRepo: newMockCartRepo(), release: make(chan struct{})}
	repo.byUser["u1"] = &Cart{ID: "c1", UserID: "u1"}
	catalog := newCatalog(
		catalogProduct("p1", 100, 0, 10),
		catalogProduct("p2", 50, 0, 10),
	)
	svc := NewService(repo, catalog, nil)

	carts := make([]*Cart, 2)
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i, id := range []string{"p1", "p2"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			carts[i], errs[i] = svc.AddItem(context.Background(), "u1", id, 1)
		}()
	}

	// Give both goroutines time to reach the lookup, then let the shared
	// flight complete. Each caller must receive its own cart copy; the race
	// detector flags this test if they mutate a shared one.
	time.Sleep(50 * time.Millisecond)
	close(repo.release)
	wg.Wait()

	for i := range errs {
		require.NoError(t, errs[i])
	}
	require.NotSame(t, carts[0], carts[1])
	require.Len(t, carts[0].Items, 1)
	require.Len(t, carts[1].Items, 1)
	assert.NotEqual(t, carts[0].Items[0].ProductID, carts[1].Items[0].ProductID)
}

func TestCache_InvalidatedOnWrite(t *testing.T) {
	cache := &mockCache{byUser: make(map[string]*Cart)}
	svc := NewService(newMockCartRepo(), newCatalog(catalogProduct("p1", 100, 0, 10)), cache)

	_, err := svc.GetOrCreate(context.Background(), "u1")
	require.NoError(t, err)
	require.Contains(t, cache.byUser, "u1")

	_, err = svc.AddItem(context.Background(), "u1", "p1", 1)
	require.NoError(t, err)
	assert.NotContains(t, cache.byUser, "u1")
	assert.Equal(t, 1, cache.deletes)
}
