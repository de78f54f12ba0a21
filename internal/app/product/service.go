package product

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/app/cacheaside"
	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

const historyLimit = 50

type Service struct {
	repo              interfaces.ProductRepository
	catalog           *cacheaside.Loader[[]*domain.Product]
	logger            logger.Logger
	lowStockThreshold int
}

func NewService(repo interfaces.ProductRepository, catalog *cacheaside.Loader[[]*domain.Product], logger logger.Logger, lowStockThreshold int) *Service {
	return &Service{
		repo:              repo,
		catalog:           catalog,
		logger:            logger,
		lowStockThreshold: lowStockThreshold,
	}
}

var _ interfaces.ProductService = (*Service)(nil)

func validate(p *domain.Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return domain.InvalidInputf("name is required")
	case strings.TrimSpace(p.SKU) == "":
		return domain.InvalidInputf("sku is required")
	case p.Price.IsNegative():
		return domain.InvalidInputf("price cannot be negative")
	case p.Cost.IsNegative():
		return domain.InvalidInputf("cost cannot be negative")
	case p.Stock < 0:
		return domain.InvalidInputf("stock cannot be negative")
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, scope tenant.Scope, cmd interfaces.CreateProductCommand) (*domain.Product, error) {
	now := time.Now().UTC()
	p := &domain.Product{
		ID:        uuid.NewString(),
		TenantID:  scope.ID(),
		Name:      strings.TrimSpace(cmd.Name),
		SKU:       strings.TrimSpace(cmd.SKU),
		Category:  cmd.Category,
		Price:     cmd.Price,
		Cost:      cmd.Cost,
		Unit:      cmd.Unit,
		Stock:     cmd.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validate(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, scope, p); err != nil {
		return nil, err
	}
	s.catalog.Invalidate(ctx, cacheaside.ProductsKey(scope))

	s.logger.Info("product_created", "Product created", logger.RequestID(ctx),
		map[string]any{"tenant_id": scope.ID(), "product_id": p.ID, "sku": p.SKU})
	return p, nil
}

// ListProducts serves the tenant catalog from cache when possible.
func (s *Service) ListProducts(ctx context.Context, scope tenant.Scope) ([]*domain.Product, error) {
	return s.catalog.Get(ctx, cacheaside.ProductsKey(scope), func(ctx context.Context) ([]*domain.Product, error) {
		return s.repo.List(ctx, scope)
	})
}

// GetProduct returns the product with its most recent inventory history.
func (s *Service) GetProduct(ctx context.Context, scope tenant.Scope, id string) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	p.History, err = s.repo.History(ctx, scope, p.ID, historyLimit)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, scope tenant.Scope, id string, cmd interfaces.UpdateProductCommand) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		p.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.SKU != nil {
		p.SKU = strings.TrimSpace(*cmd.SKU)
	}
	if cmd.Category != nil {
		p.Category = *cmd.Category
	}
	if cmd.Price != nil {
		p.Price = *cmd.Price
	}
	if cmd.Cost != nil {
		p.Cost = *cmd.Cost
	}
	if cmd.Unit != nil {
		p.Unit = *cmd.Unit
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, scope, p); err != nil {
		return nil, err
	}
	s.catalog.Invalidate(ctx, cacheaside.ProductsKey(scope))
	return p, nil
}

// AdjustStock applies a manual stock correction. The result may not go
// below zero.
func (s *Service) AdjustStock(ctx context.Context, scope tenant.Scope, id string, change int, reason string) (*domain.Product, error) {
	if change == 0 {
		return nil, domain.InvalidInputf("change must not be zero")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.InvalidInputf("reason is required")
	}

	p, err := s.repo.AdjustStock(ctx, scope, id, change, reason)
	if err != nil {
		return nil, err
	}
	s.catalog.Invalidate(ctx, cacheaside.ProductsKey(scope))

	s.logger.Info("stock_adjusted", "Stock adjusted", logger.RequestID(ctx), map[string]any{
		"tenant_id":  scope.ID(),
		"product_id": p.ID,
		"change":     change,
		"stock":      p.Stock,
		"reason":     reason,
	})
	return p, nil
}

// LowStock lists products at or below threshold, or the configured default
// when threshold is nil.
func (s *Service) LowStock(ctx context.Context, scope tenant.Scope, threshold *int) ([]*domain.Product, error) {
	limit := s.lowStockThreshold
	if threshold != nil {
		limit = *threshold
	}
	if limit < 0 {
		return nil, domain.InvalidInputf("threshold cannot be negative")
	}
	return s.repo.ListLowStock(ctx, scope, limit)
}
