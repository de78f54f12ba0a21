package order

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

// In-memory repositories keyed by tenant then id.

type memProducts struct {
	mu    sync.Mutex
	items map[string]map[string]*domain.Product
	lists int
}

func newMemProducts() *memProducts {
	return &memProducts{items: map[string]map[string]*domain.Product{}}
}

func (m *memProducts) put(tenantID string, p *domain.Product) {
	if m.items[tenantID] == nil {
		m.items[tenantID] = map[string]*domain.Product{}
	}
	p.TenantID = tenantID
	m.items[tenantID][p.ID] = p
}

func (m *memProducts) Create(_ context.Context, scope tenant.Scope, p *domain.Product) error {
	m.put(scope.ID(), p)
	return nil
}

func (m *memProducts) FindByID(_ context.Context, scope tenant.Scope, id string) (*domain.Product, error) {
	p, ok := m.items[scope.ID()][id]
	if !ok {
		return nil, domain.NotFoundf("product not found")
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) List(_ context.Context, scope tenant.Scope) ([]*domain.Product, error) {
	m.mu.Lock()
	m.lists++
	m.mu.Unlock()
	var out []*domain.Product
	for _, p := range m.items[scope.ID()] {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memProducts) Update(context.Context, tenant.Scope, *domain.Product) error { return nil }

func (m *memProducts) AdjustStock(context.Context, tenant.Scope, string, int, string) (*domain.Product, error) {
	return nil, errors.New("not used")
}

func (m *memProducts) ListLowStock(context.Context, tenant.Scope, int) ([]*domain.Product, error) {
	return nil, nil
}

func (m *memProducts) History(context.Context, tenant.Scope, string, int) ([]domain.InventoryHistoryEntry, error) {
	return nil, nil
}

type memCustomers struct {
	items map[string]map[string]*domain.Customer
}

func (m *memCustomers) Create(context.Context, tenant.Scope, *domain.Customer) error { return nil }

func (m *memCustomers) FindByID(_ context.Context, scope tenant.Scope, id string) (*domain.Customer, error) {
	c, ok := m.items[scope.ID()][id]
	if !ok {
		return nil, domain.NotFoundf("customer not found")
	}
	return c, nil
}

func (m *memCustomers) FindByPhone(context.Context, tenant.Scope, string) (*domain.Customer, error) {
	return nil, domain.NotFoundf("customer not found")
}

func (m *memCustomers) List(context.Context, tenant.Scope) ([]*domain.Customer, error) { return nil, nil }
func (m *memCustomers) Update(context.Context, tenant.Scope, *domain.Customer) error   { return nil }

type memTemplates struct {
	items map[string]map[string]*domain.PricingTemplate
}

func (m *memTemplates) Create(context.Context, tenant.Scope, *domain.PricingTemplate) error { return nil }

func (m *memTemplates) FindByID(_ context.Context, scope tenant.Scope, id string) (*domain.PricingTemplate, error) {
	t, ok := m.items[scope.ID()][id]
	if !ok {
		return nil, domain.NotFoundf("delivery template not found")
	}
	return t, nil
}

func (m *memTemplates) List(context.Context, tenant.Scope) ([]*domain.PricingTemplate, error) {
	return nil, nil
}
func (m *memTemplates) Update(context.Context, tenant.Scope, *domain.PricingTemplate) error { return nil }
func (m *memTemplates) Delete(context.Context, tenant.Scope, string) error                 { return nil }

// memOrders applies the same stock effects the Postgres repository does,
// against memProducts.
type memOrders struct {
	products *memProducts
	orders   map[string]*domain.Order
	counters map[string]int64
	history  map[string][]*domain.StatusLog
	err      error
}

func newMemOrders(products *memProducts) *memOrders {
	return &memOrders{
		products: products,
		orders:   map[string]*domain.Order{},
		counters: map[string]int64{},
		history:  map[string][]*domain.StatusLog{},
	}
}

func (m *memOrders) Create(_ context.Context, scope tenant.Scope, order *domain.Order) error {
	if m.err != nil {
		return m.err
	}
	for _, item := range order.Items {
		p := m.products.items[scope.ID()][item.ProductID]
		if p == nil || p.Stock < item.Quantity {
			return &domain.InsufficientStockError{ProductID: item.ProductID, Requested: item.Quantity}
		}
	}
	for _, item := range order.Items {
		m.products.items[scope.ID()][item.ProductID].Stock -= item.Quantity
	}
	m.counters[scope.ID()]++
	order.Number = m.counters[scope.ID()]
	m.orders[order.ID] = order
	m.history[order.ID] = append(m.history[order.ID], &domain.StatusLog{OrderID: order.ID, Status: order.Status})
	return nil
}

func (m *memOrders) FindByID(_ context.Context, scope tenant.Scope, id string) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok || o.TenantID != scope.ID() {
		return nil, domain.NotFoundf("order not found")
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) FindByIDs(_ context.Context, scope tenant.Scope, ids []string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, id := range ids {
		if o, ok := m.orders[id]; ok && o.TenantID == scope.ID() {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *memOrders) List(_ context.Context, scope tenant.Scope, filter domain.OrderFilter) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range m.orders {
		if o.TenantID != scope.ID() {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *memOrders) ListByStatus(ctx context.Context, scope tenant.Scope, status domain.Status) ([]*domain.Order, error) {
	return m.List(ctx, scope, domain.OrderFilter{Status: &status})
}

func (m *memOrders) UpdateStatus(_ context.Context, scope tenant.Scope, order *domain.Order, from domain.Status, changedBy string) error {
	stored, ok := m.orders[order.ID]
	if !ok || stored.TenantID != scope.ID() {
		return domain.NotFoundf("order not found")
	}
	if stored.Status != from {
		return domain.Conflictf("order was modified concurrently")
	}
	cp := *order
	m.orders[order.ID] = &cp
	m.history[order.ID] = append(m.history[order.ID], &domain.StatusLog{OrderID: order.ID, Status: order.Status, ChangedBy: changedBy})
	return nil
}

func (m *memOrders) GetStatusHistory(_ context.Context, _ tenant.Scope, orderID string) ([]*domain.StatusLog, error) {
	return m.history[orderID], nil
}

type recordingPublisher struct {
	events []interfaces.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, event interfaces.OrderEvent) error {
	p.events = append(p.events, event)
	return p.err
}
