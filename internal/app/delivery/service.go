package delivery

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

type Service struct {
	repo   interfaces.DeliveryTemplateRepository
	cache  *cacheaside.Loader[[]*domain.PricingTemplate]
	logger logger.Logger
}

func NewService(repo interfaces.DeliveryTemplateRepository, cache *cacheaside.Loader[[]*domain.PricingTemplate], logger logger.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

var _ interfaces.DeliveryService = (*Service)(nil)

func validate(t *domain.PricingTemplate) error {
	switch {
	case t.Name == "":
		return domain.InvalidInputf("name is required")
	case t.FirstKgPrice.IsNegative():
		return domain.InvalidInputf("firstKgPrice cannot be negative")
	case t.ExtraKgPrice.IsNegative():
		return domain.InvalidInputf("extraKgPrice cannot be negative")
	}
	return nil
}

// CreateTemplate stores a pricing template. Marking it default unsets the
// tenant's previous default.
func (s *Service) CreateTemplate(ctx context.Context, scope tenant.Scope, cmd interfaces.CreateTemplateCommand) (*domain.PricingTemplate, error) {
	now := time.Now().UTC()
	t := &domain.PricingTemplate{
		ID:           uuid.NewString(),
		TenantID:     scope.ID(),
		Name:         strings.TrimSpace(cmd.Name),
		FirstKgPrice: cmd.FirstKgPrice,
		ExtraKgPrice: cmd.ExtraKgPrice,
		IsDefault:    cmd.IsDefault,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := validate(t); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, scope, t); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cacheaside.TemplatesKey(scope))
	return t, nil
}

// ListTemplates returns the tenant's templates, default first.
func (s *Service) ListTemplates(ctx context.Context, scope tenant.Scope) ([]*domain.PricingTemplate, error) {
	return s.cache.Get(ctx, cacheaside.TemplatesKey(scope), func(ctx context.Context) ([]*domain.PricingTemplate, error) {
		return s.repo.List(ctx, scope)
	})
}

func (s *Service) GetTemplate(ctx context.Context, scope tenant.Scope, id string) (*domain.PricingTemplate, error) {
	return s.repo.FindByID(ctx, scope, id)
}

func (s *Service) UpdateTemplate(ctx context.Context, scope tenant.Scope, id string, cmd interfaces.UpdateTemplateCommand) (*domain.PricingTemplate, error) {
	t, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		t.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.FirstKgPrice != nil {
		t.FirstKgPrice = *cmd.FirstKgPrice
	}
	if cmd.ExtraKgPrice != nil {
		t.ExtraKgPrice = *cmd.ExtraKgPrice
	}
	if cmd.IsDefault != nil {
		t.IsDefault = *cmd.IsDefault
	}
	if err := validate(t); err != nil {
		return nil, err
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, scope, t); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cacheaside.TemplatesKey(scope))
	return t, nil
}

// DeleteTemplate removes a template that no order references.
func (s *Service) DeleteTemplate(ctx context.Context, scope tenant.Scope, id string) error {
	if err := s.repo.Delete(ctx, scope, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cacheaside.TemplatesKey(scope))

	s.logger.Info("delivery_template_deleted", "Delivery template deleted", logger.RequestID(ctx),
		map[string]any{"tenant_id": scope.ID(), "template_id": id})
	return nil
}
