package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/pricing"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

//go:generate mockgen -destination=mocks/service_mock.go -package=mocks . OrderService,ProductService,CustomerService,DeliveryService,AnalyticsService

// Service ports (business logic), consumed by adapter/http.

type OrderService interface {
	CreateOrder(ctx context.Context, scope tenant.Scope, cmd CreateOrderCommand) (*domain.Order, error)
	CalculateDeliveryFee(ctx context.Context, scope tenant.Scope, templateID string, weight decimal.Decimal) (decimal.Decimal, error)
	PreviewOrder(ctx context.Context, scope tenant.Scope, cmd PreviewOrderCommand) (*pricing.Quote, error)
	GetOrder(ctx context.Context, scope tenant.Scope, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, scope tenant.Scope, filter domain.OrderFilter) ([]*domain.Order, error)
	ReadyForDispatch(ctx context.Context, scope tenant.Scope) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, scope tenant.Scope, id string, status *domain.Status) (*domain.Order, error)
	GetStatusHistory(ctx context.Context, scope tenant.Scope, id string) ([]*domain.StatusLog, error)
	ExportForCourier(ctx context.Context, scope tenant.Scope, ids []string) ([]domain.CourierRow, error)
}

type ProductService interface {
	CreateProduct(ctx context.Context, scope tenant.Scope, cmd CreateProductCommand) (*domain.Product, error)
	ListProducts(ctx context.Context, scope tenant.Scope) ([]*domain.Product, error)
	GetProduct(ctx context.Context, scope tenant.Scope, id string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, scope tenant.Scope, id string, cmd UpdateProductCommand) (*domain.Product, error)
	AdjustStock(ctx context.Context, scope tenant.Scope, id string, change int, reason string) (*domain.Product, error)
	LowStock(ctx context.Context, scope tenant.Scope, threshold *int) ([]*domain.Product, error)
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, scope tenant.Scope, cmd CreateCustomerCommand) (*domain.Customer, error)
	ListCustomers(ctx context.Context, scope tenant.Scope) ([]*domain.Customer, error)
	GetCustomer(ctx context.Context, scope tenant.Scope, id string) (*domain.Customer, error)
	FindByPhone(ctx context.Context, scope tenant.Scope, phone string) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, scope tenant.Scope, id string, cmd UpdateCustomerCommand) (*domain.Customer, error)
}

type DeliveryService interface {
	CreateTemplate(ctx context.Context, scope tenant.Scope, cmd CreateTemplateCommand) (*domain.PricingTemplate, error)
	ListTemplates(ctx context.Context, scope tenant.Scope) ([]*domain.PricingTemplate, error)
	GetTemplate(ctx context.Context, scope tenant.Scope, id string) (*domain.PricingTemplate, error)
	UpdateTemplate(ctx context.Context, scope tenant.Scope, id string, cmd UpdateTemplateCommand) (*domain.PricingTemplate, error)
	DeleteTemplate(ctx context.Context, scope tenant.Scope, id string) error
}

type AnalyticsService interface {
	Revenue(ctx context.Context, scope tenant.Scope, period string) ([]domain.RevenuePoint, error)
	OrderStats(ctx context.Context, scope tenant.Scope) (domain.OrderStats, error)
	TopProducts(ctx context.Context, scope tenant.Scope, limit int) ([]domain.ProductSales, error)
	Dashboard(ctx context.Context, scope tenant.Scope) (*domain.DashboardStats, error)
}

// Commands

type CreateOrderCommand struct {
	CustomerID         string
	Items              []CreateOrderItemCommand
	DeliveryTemplateID string
	TotalWeight        decimal.Decimal
	Discount           decimal.Decimal
	PaymentMethod      string
	OrderSource        string
}

type CreateOrderItemCommand struct {
	ProductID string
	Quantity  int
}

type PreviewOrderCommand struct {
	Items              []CreateOrderItemCommand
	DeliveryTemplateID string
	TotalWeight        decimal.Decimal
	Discount           decimal.Decimal
}

type CreateProductCommand struct {
	Name     string
	SKU      string
	Category string
	Price    decimal.Decimal
	Cost     decimal.Decimal
	Unit     string
	Stock    int
}

// UpdateProductCommand is a partial update; nil fields are left untouched.
// Stock is changed only through AdjustStock.
type UpdateProductCommand struct {
	Name     *string
	SKU      *string
	Category *string
	Price    *decimal.Decimal
	Cost     *decimal.Decimal
	Unit     *string
}

type CreateCustomerCommand struct {
	Name    string
	Phone   string
	Address string
	City    string
}

type UpdateCustomerCommand struct {
	Name    *string
	Phone   *string
	Address *string
	City    *string
}

type CreateTemplateCommand struct {
	Name         string
	FirstKgPrice decimal.Decimal
	ExtraKgPrice decimal.Decimal
	IsDefault    bool
}

type UpdateTemplateCommand struct {
	Name         *string
	FirstKgPrice *decimal.Decimal
	ExtraKgPrice *decimal.Decimal
	IsDefault    *bool
}
