package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

// Repository ports (adapter/postgres). Every method is scoped to a tenant;
// rows of other tenants behave as if they did not exist.

type OrderRepository interface {
	// Create assigns the next order number and persists the order, its
	// items, the stock decrements and the inventory history in one
	// transaction.
	Create(ctx context.Context, scope tenant.Scope, order *domain.Order) error
	FindByID(ctx context.Context, scope tenant.Scope, id string) (*domain.Order, error)
	FindByIDs(ctx context.Context, scope tenant.Scope, ids []string) ([]*domain.Order, error)
	List(ctx context.Context, scope tenant.Scope, filter domain.OrderFilter) ([]*domain.Order, error)
	ListByStatus(ctx context.Context, scope tenant.Scope, status domain.Status) ([]*domain.Order, error)
	// UpdateStatus persists order.Status if the stored status is still from.
	// Cancelling puts the ordered quantities back into stock.
	UpdateStatus(ctx context.Context, scope tenant.Scope, order *domain.Order, from domain.Status, changedBy string) error
	GetStatusHistory(ctx context.Context, scope tenant.Scope, orderID string) ([]*domain.StatusLog, error)
}

type ProductRepository interface {
	Create(ctx context.Context, scope tenant.Scope, p *domain.Product) error
	FindByID(ctx context.Context, scope tenant.Scope, id string) (*domain.Product, error)
	List(ctx context.Context, scope tenant.Scope) ([]*domain.Product, error)
	Update(ctx context.Context, scope tenant.Scope, p *domain.Product) error
	AdjustStock(ctx context.Context, scope tenant.Scope, id string, change int, reason string) (*domain.Product, error)
	ListLowStock(ctx context.Context, scope tenant.Scope, threshold int) ([]*domain.Product, error)
	History(ctx context.Context, scope tenant.Scope, productID string, limit int) ([]domain.InventoryHistoryEntry, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, scope tenant.Scope, c *domain.Customer) error
	FindByID(ctx context.Context, scope tenant.Scope, id string) (*domain.Customer, error)
	FindByPhone(ctx context.Context, scope tenant.Scope, phone string) (*domain.Customer, error)
	List(ctx context.Context, scope tenant.Scope) ([]*domain.Customer, error)
	Update(ctx context.Context, scope tenant.Scope, c *domain.Customer) error
}

type DeliveryTemplateRepository interface {
	// Create and Update clear the tenant's other defaults when t.IsDefault.
	Create(ctx context.Context, scope tenant.Scope, t *domain.PricingTemplate) error
	FindByID(ctx context.Context, scope tenant.Scope, id string) (*domain.PricingTemplate, error)
	List(ctx context.Context, scope tenant.Scope) ([]*domain.PricingTemplate, error)
	Update(ctx context.Context, scope tenant.Scope, t *domain.PricingTemplate) error
	Delete(ctx context.Context, scope tenant.Scope, id string) error
}

type AnalyticsRepository interface {
	RevenueByDay(ctx context.Context, scope tenant.Scope, since time.Time) ([]domain.RevenuePoint, error)
	CountByStatus(ctx context.Context, scope tenant.Scope) (map[domain.Status]int, error)
	TopProducts(ctx context.Context, scope tenant.Scope, limit int) ([]domain.ProductSales, error)
	TotalRevenue(ctx context.Context, scope tenant.Scope) (decimal.Decimal, error)
	CountLowStock(ctx context.Context, scope tenant.Scope, threshold int) (int, error)
	CountCustomers(ctx context.Context, scope tenant.Scope) (int, error)
}
