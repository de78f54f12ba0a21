package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/app/cacheaside"
	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
	"github.com/YelzhanWeb/orderdesk/internal/pricing"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

const changedBy = "order-service"

type Options struct {
	// RejectNegativeTotal refuses orders whose discount exceeds subtotal
	// plus delivery fee. By default such orders are stored as computed.
	RejectNegativeTotal bool
}

type Service struct {
	orders    interfaces.OrderRepository
	products  interfaces.ProductRepository
	customers interfaces.CustomerRepository
	templates interfaces.DeliveryTemplateRepository
	catalog   *cacheaside.Loader[[]*domain.Product]
	publisher interfaces.MessagePublisher
	logger    logger.Logger
	opts      Options
}

func NewService(
	orders interfaces.OrderRepository,
	products interfaces.ProductRepository,
	customers interfaces.CustomerRepository,
	templates interfaces.DeliveryTemplateRepository,
	catalog *cacheaside.Loader[[]*domain.Product],
	publisher interfaces.MessagePublisher,
	logger logger.Logger,
	opts Options,
) *Service {
	return &Service{
		orders:    orders,
		products:  products,
		customers: customers,
		templates: templates,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
		opts:      opts,
	}
}

var _ interfaces.OrderService = (*Service)(nil)

func validateCreate(cmd interfaces.CreateOrderCommand) error {
	if len(cmd.Items) == 0 {
		return domain.InvalidInputf("order must contain at least one item")
	}
	for _, item := range cmd.Items {
		if item.Quantity < 1 {
			return domain.InvalidInputf("quantity for product %s must be at least 1", item.ProductID)
		}
	}
	if cmd.Discount.IsNegative() {
		return domain.InvalidInputf("discount cannot be negative")
	}
	if cmd.TotalWeight.IsNegative() {
		return domain.InvalidInputf("total weight cannot be negative")
	}
	if strings.TrimSpace(cmd.PaymentMethod) == "" {
		return domain.InvalidInputf("payment method is required")
	}
	if strings.TrimSpace(cmd.OrderSource) == "" {
		return domain.InvalidInputf("order source is required")
	}
	return nil
}

// CreateOrder prices the order from current product prices and commits it
// together with the stock decrements. Nothing is written if any item
// cannot be covered.
func (s *Service) CreateOrder(ctx context.Context, scope tenant.Scope, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	requestID := logger.RequestID(ctx)

	if err := validateCreate(cmd); err != nil {
		s.logger.Warn("validation_failed", "Order validation failed", requestID, map[string]any{"error": err.Error()})
		return nil, err
	}

	customer, err := s.customers.FindByID(ctx, scope, cmd.CustomerID)
	if err != nil {
		return nil, err
	}

	order := domain.NewOrder(scope.ID(), customer.ID, cmd.PaymentMethod, cmd.OrderSource)
	order.Customer = customer

	for _, item := range cmd.Items {
		product, err := s.products.FindByID(ctx, scope, item.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NotFoundf("product %s not found", item.ProductID)
			}
			return nil, err
		}
		if product.Stock < item.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   item.Quantity,
				Available:   product.Stock,
			}
		}
		order.AddItem(product, item.Quantity)
	}

	fee := decimal.Zero
	if cmd.DeliveryTemplateID != "" {
		tmpl, err := s.templates.FindByID(ctx, scope, cmd.DeliveryTemplateID)
		if err != nil {
			return nil, err
		}
		if cmd.TotalWeight.IsPositive() {
			if fee, err = pricing.DeliveryFee(*tmpl, cmd.TotalWeight); err != nil {
				return nil, err
			}
		}
		id := tmpl.ID
		order.DeliveryTemplateID = &id
	}

	order.ApplyPricing(cmd.Discount, fee)
	if order.TotalAmount.IsNegative() && s.opts.RejectNegativeTotal {
		return nil, domain.InvalidInputf("discount %s exceeds order total %s",
			cmd.Discount.StringFixed(2), order.Subtotal().Add(fee).StringFixed(2))
	}

	if err := s.orders.Create(ctx, scope, order); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to create order", requestID, nil, err)
		return nil, err
	}

	s.catalog.Invalidate(ctx, cacheaside.ProductsKey(scope))

	s.logger.Info("order_created", fmt.Sprintf("Order #%d created", order.Number), requestID, map[string]any{
		"tenant_id":    scope.ID(),
		"order_id":     order.ID,
		"order_number": order.Number,
		"total_amount": order.TotalAmount.StringFixed(2),
	})

	s.publish(ctx, interfaces.OrderEvent{
		Type:        interfaces.OrderCreated,
		TenantID:    scope.ID(),
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Status:      order.Status,
		TotalAmount: order.TotalAmount.StringFixed(2),
		OrderSource: order.OrderSource,
		Timestamp:   order.CreatedAt,
	})

	return order, nil
}

// publish sends the event after the change is committed. A failure only
// loses the notification, so it is logged rather than returned.
func (s *Service) publish(ctx context.Context, event interfaces.OrderEvent) {
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish order event", logger.RequestID(ctx),
			map[string]any{"order_number": event.OrderNumber, "type": event.Type}, err)
		return
	}
	s.logger.Debug("order_event_published", "Order event published", logger.RequestID(ctx),
		map[string]any{"order_number": event.OrderNumber, "type": event.Type})
}

func (s *Service) CalculateDeliveryFee(ctx context.Context, scope tenant.Scope, templateID string, weight decimal.Decimal) (decimal.Decimal, error) {
	tmpl, err := s.templates.FindByID(ctx, scope, templateID)
	if err != nil {
		return decimal.Zero, err
	}
	return pricing.DeliveryFee(*tmpl, weight)
}

// PreviewOrder prices a draft against the cached catalog. It never fails
// on pricing input: unknown products are skipped and an unusable template
// or weight yields a zero fee.
func (s *Service) PreviewOrder(ctx context.Context, scope tenant.Scope, cmd interfaces.PreviewOrderCommand) (*pricing.Quote, error) {
	products, err := s.catalog.Get(ctx, cacheaside.ProductsKey(scope), func(ctx context.Context) ([]*domain.Product, error) {
		return s.products.List(ctx, scope)
	})
	if err != nil {
		return nil, err
	}
	catalog := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	var tmpl *domain.PricingTemplate
	if cmd.DeliveryTemplateID != "" {
		tmpl, err = s.templates.FindByID(ctx, scope, cmd.DeliveryTemplateID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	lines := make([]pricing.Line, len(cmd.Items))
	for i, item := range cmd.Items {
		lines[i] = pricing.Line{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	quote := pricing.Preview(lines, catalog, tmpl, cmd.TotalWeight, cmd.Discount)
	return &quote, nil
}

func (s *Service) GetOrder(ctx context.Context, scope tenant.Scope, id string) (*domain.Order, error) {
	return s.orders.FindByID(ctx, scope, id)
}

func (s *Service) ListOrders(ctx context.Context, scope tenant.Scope, filter domain.OrderFilter) ([]*domain.Order, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, domain.InvalidInputf("unknown order status %q", *filter.Status)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, domain.InvalidInputf("endDate must not be before startDate")
	}
	return s.orders.List(ctx, scope, filter)
}

func (s *Service) ReadyForDispatch(ctx context.Context, scope tenant.Scope) ([]*domain.Order, error) {
	return s.orders.ListByStatus(ctx, scope, domain.StatusReady)
}

// UpdateStatus moves the order along the status graph. A nil status
// returns the order unchanged.
func (s *Service) UpdateStatus(ctx context.Context, scope tenant.Scope, id string, status *domain.Status) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return order, nil
	}

	from := order.Status
	if err := order.TransitionTo(*status); err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, scope, order, from, changedBy); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to update order status", logger.RequestID(ctx),
			map[string]any{"order_number": order.Number}, err)
		return nil, err
	}

	s.logger.Info("order_status_changed",
		fmt.Sprintf("Order #%d moved from %s to %s", order.Number, from, order.Status), logger.RequestID(ctx),
		map[string]any{"tenant_id": scope.ID(), "order_id": order.ID})

	s.publish(ctx, interfaces.OrderEvent{
		Type:        interfaces.OrderStatusChanged,
		TenantID:    scope.ID(),
		OrderID:     order.ID,
		OrderNumber: order.Number,
		OldStatus:   from,
		Status:      order.Status,
		TotalAmount: order.TotalAmount.StringFixed(2),
		OrderSource: order.OrderSource,
		Timestamp:   order.UpdatedAt,
	})

	return order, nil
}

func (s *Service) GetStatusHistory(ctx context.Context, scope tenant.Scope, id string) ([]*domain.StatusLog, error) {
	if _, err := s.orders.FindByID(ctx, scope, id); err != nil {
		return nil, err
	}
	return s.orders.GetStatusHistory(ctx, scope, id)
}

// ExportForCourier flattens the requested orders into courier upload rows,
// ordered by order number. Ids outside the tenant are skipped.
func (s *Service) ExportForCourier(ctx context.Context, scope tenant.Scope, ids []string) ([]domain.CourierRow, error) {
	if len(ids) == 0 {
		return nil, domain.InvalidInputf("orderIds must not be empty")
	}

	orders, err := s.orders.FindByIDs(ctx, scope, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.CourierRow, 0, len(orders))
	for _, o := range orders {
		row := domain.CourierRow{
			OrderNumber:   o.Number,
			TotalAmount:   o.TotalAmount,
			DeliveryFee:   o.DeliveryFee,
			PaymentMethod: o.PaymentMethod,
			Items:         describeItems(o.Items),
		}
		if o.Customer != nil {
			row.CustomerName = o.Customer.Name
			row.Phone = o.Customer.Phone
			row.Address = o.Customer.Address
			row.City = o.Customer.City
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func describeItems(items []domain.OrderItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%s x%d", item.ProductName, item.Quantity)
	}
	return strings.Join(parts, ", ")
}
