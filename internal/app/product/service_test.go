package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/app/cacheaside"
	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

const tenantID = "6f1c1c1e-4f0e-4b7a-9d55-0a8f3f1c2b11"

type memRepo struct {
	products  map[string]*domain.Product
	history   map[string][]domain.InventoryHistoryEntry
	lists     int
	threshold int
}

func newMemRepo() *memRepo {
	return &memRepo{products: map[string]*domain.Product{}, history: map[string][]domain.InventoryHistoryEntry{}}
}

func (r *memRepo) Create(_ context.Context, _ tenant.Scope, p *domain.Product) error {
	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			return domain.Conflictf("product with this SKU already exists")
		}
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memRepo) FindByID(_ context.Context, _ tenant.Scope, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.NotFoundf("product not found")
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) List(context.Context, tenant.Scope) ([]*domain.Product, error) {
	r.lists++
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, _ tenant.Scope, p *domain.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memRepo) AdjustStock(_ context.Context, _ tenant.Scope, id string, change int, reason string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.NotFoundf("product not found")
	}
	if p.Stock+change < 0 {
		return nil, &domain.InsufficientStockError{ProductID: id, ProductName: p.Name, Requested: -change, Available: p.Stock}
	}
	p.Stock += change
	r.history[id] = append([]domain.InventoryHistoryEntry{{ProductID: id, Change: change, Reason: reason}}, r.history[id]...)
	cp := *p
	return &cp, nil
}

func (r *memRepo) ListLowStock(_ context.Context, _ tenant.Scope, threshold int) ([]*domain.Product, error) {
	r.threshold = threshold
	var out []*domain.Product
	for _, p := range r.products {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memRepo) History(_ context.Context, _ tenant.Scope, id string, limit int) ([]domain.InventoryHistoryEntry, error) {
	h := r.history[id]
	if len(h) > limit {
		h = h[:limit]
	}
	return h, nil
}

type mapCache map[string]any

func (c mapCache) Get(_ context.Context, key string, dst any) (bool, error) {
	v, ok := c[key]
	if !ok {
		return false, nil
	}
	*(dst.(*[]*domain.Product)) = v.([]*domain.Product)
	return true, nil
}

func (c mapCache) Set(_ context.Context, key string, value any) error {
	c[key] = value
	return nil
}

func (c mapCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c, k)
	}
	return nil
}

func newService(repo *memRepo, cache mapCache) *Service {
	return NewService(repo, cacheaside.New[[]*domain.Product](cache, logger.Nop()), logger.Nop(), 10)
}

func createCmd(sku string, stock int) interfaces.CreateProductCommand {
	return interfaces.CreateProductCommand{
		Name:  "Sticker pack",
		SKU:   sku,
		Price: decimal.NewFromInt(1500),
		Cost:  decimal.NewFromInt(600),
		Unit:  "pcs",
		Stock: stock,
	}
}

func TestCreateProduct(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, mapCache{})
	scope := tenant.MustNew(tenantID)

	p, err := svc.CreateProduct(context.Background(), scope, createCmd("STK-1", 5))
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, tenantID, p.TenantID)

	_, err = svc.CreateProduct(context.Background(), scope, createCmd("STK-1", 1))
	assert.ErrorIs(t, err, domain.ErrConflict)

	bad := createCmd("STK-2", 1)
	bad.Price = decimal.NewFromInt(-1)
	_, err = svc.CreateProduct(context.Background(), scope, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateProduct(context.Background(), scope, createCmd(" ", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListProductsIsCachedAndInvalidated(t *testing.T) {
	repo := newMemRepo()
	cache := mapCache{}
	svc := newService(repo, cache)
	scope := tenant.MustNew(tenantID)

	p, err := svc.CreateProduct(context.Background(), scope, createCmd("STK-1", 5))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		list, err := svc.ListProducts(context.Background(), scope)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	}
	assert.Equal(t, 1, repo.lists)

	_, err = svc.AdjustStock(context.Background(), scope, p.ID, 3, "restock")
	require.NoError(t, err)
	assert.NotContains(t, cache, cacheaside.ProductsKey(scope))

	list, err := svc.ListProducts(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, 8, list[0].Stock)
	assert.Equal(t, 2, repo.lists)
}

func TestAdjustStock(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, mapCache{})
	scope := tenant.MustNew(tenantID)
	p, err := svc.CreateProduct(context.Background(), scope, createCmd("STK-1", 3))
	require.NoError(t, err)

	_, err = svc.AdjustStock(context.Background(), scope, p.ID, -5, "damaged")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = svc.AdjustStock(context.Background(), scope, p.ID, 0, "noop")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.AdjustStock(context.Background(), scope, p.ID, 1, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := svc.AdjustStock(context.Background(), scope, p.ID, -3, "damaged")
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)

	got, err := svc.GetProduct(context.Background(), scope, p.ID)
	require.NoError(t, err)
	require.Len(t, got.History, 1)
	assert.Equal(t, -3, got.History[0].Change)
	assert.Equal(t, "damaged", got.History[0].Reason)
}

func TestUpdateProduct(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, mapCache{})
	scope := tenant.MustNew(tenantID)
	p, err := svc.CreateProduct(context.Background(), scope, createCmd("STK-1", 3))
	require.NoError(t, err)

	name := "Sticker pack XL"
	price := decimal.NewFromInt(2000)
	updated, err := svc.UpdateProduct(context.Background(), scope, p.ID, interfaces.UpdateProductCommand{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Sticker pack XL", updated.Name)
	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, "STK-1", updated.SKU)
	assert.Equal(t, 3, updated.Stock)

	_, err = svc.UpdateProduct(context.Background(), scope, "missing", interfaces.UpdateProductCommand{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLowStock(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, mapCache{})
	scope := tenant.MustNew(tenantID)

	_, err := svc.LowStock(context.Background(), scope, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.threshold)

	three := 3
	_, err = svc.LowStock(context.Background(), scope, &three)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.threshold)

	negative := -1
	_, err = svc.LowStock(context.Background(), scope, &negative)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
