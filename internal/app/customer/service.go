package customer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

type Service struct {
	repo   interfaces.CustomerRepository
	logger logger.Logger
}

func NewService(repo interfaces.CustomerRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

var _ interfaces.CustomerService = (*Service)(nil)

func validate(c *domain.Customer) error {
	if c.Name == "" {
		return domain.InvalidInputf("name is required")
	}
	if c.Phone == "" {
		return domain.InvalidInputf("phone is required")
	}
	return nil
}

func (s *Service) CreateCustomer(ctx context.Context, scope tenant.Scope, cmd interfaces.CreateCustomerCommand) (*domain.Customer, error) {
	now := time.Now().UTC()
	c := &domain.Customer{
		ID:        uuid.NewString(),
		TenantID:  scope.ID(),
		Name:      strings.TrimSpace(cmd.Name),
		Phone:     strings.TrimSpace(cmd.Phone),
		Address:   cmd.Address,
		City:      cmd.City,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, scope, c); err != nil {
		return nil, err
	}

	s.logger.Info("customer_created", "Customer created", logger.RequestID(ctx),
		map[string]any{"tenant_id": scope.ID(), "customer_id": c.ID})
	return c, nil
}

func (s *Service) ListCustomers(ctx context.Context, scope tenant.Scope) ([]*domain.Customer, error) {
	return s.repo.List(ctx, scope)
}

func (s *Service) GetCustomer(ctx context.Context, scope tenant.Scope, id string) (*domain.Customer, error) {
	return s.repo.FindByID(ctx, scope, id)
}

func (s *Service) FindByPhone(ctx context.Context, scope tenant.Scope, phone string) (*domain.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, domain.InvalidInputf("phone is required")
	}
	return s.repo.FindByPhone(ctx, scope, phone)
}

func (s *Service) UpdateCustomer(ctx context.Context, scope tenant.Scope, id string, cmd interfaces.UpdateCustomerCommand) (*domain.Customer, error) {
	c, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		c.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Phone != nil {
		c.Phone = strings.TrimSpace(*cmd.Phone)
	}
	if cmd.Address != nil {
		c.Address = *cmd.Address
	}
	if cmd.City != nil {
		c.City = *cmd.City
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, scope, c); err != nil {
		return nil, err
	}
	return c, nil
}
