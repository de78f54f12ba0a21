package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

const maxTopProducts = 100

type Service struct {
	repo              interfaces.AnalyticsRepository
	logger            logger.Logger
	lowStockThreshold int
	now               func() time.Time
}

func NewService(repo interfaces.AnalyticsRepository, logger logger.Logger, lowStockThreshold int) *Service {
	return &Service{
		repo:              repo,
		logger:            logger,
		lowStockThreshold: lowStockThreshold,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

var _ interfaces.AnalyticsService = (*Service)(nil)

// windowStart maps a reporting period to the start of its window.
func windowStart(period string, now time.Time) (time.Time, error) {
	switch period {
	case "", "daily":
		return now.AddDate(0, 0, -30), nil
	case "weekly":
		return now.AddDate(0, 0, -90), nil
	case "monthly":
		return now.AddDate(-1, 0, 0), nil
	}
	return time.Time{}, domain.InvalidInputf("period must be one of daily, weekly, monthly")
}

// Revenue returns per-day revenue of non-cancelled orders within the
// period's window.
func (s *Service) Revenue(ctx context.Context, scope tenant.Scope, period string) ([]domain.RevenuePoint, error) {
	since, err := windowStart(period, s.now())
	if err != nil {
		return nil, err
	}
	return s.repo.RevenueByDay(ctx, scope, since)
}

// OrderStats counts orders per status. Every known status is present.
func (s *Service) OrderStats(ctx context.Context, scope tenant.Scope) (domain.OrderStats, error) {
	counts, err := s.repo.CountByStatus(ctx, scope)
	if err != nil {
		return domain.OrderStats{}, err
	}

	stats := domain.OrderStats{Counts: make(map[domain.Status]int, len(domain.AllStatuses))}
	for _, status := range domain.AllStatuses {
		stats.Counts[status] = counts[status]
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func (s *Service) TopProducts(ctx context.Context, scope tenant.Scope, limit int) ([]domain.ProductSales, error) {
	if limit < 1 || limit > maxTopProducts {
		return nil, domain.InvalidInputf("limit must be between 1 and %d", maxTopProducts)
	}
	return s.repo.TopProducts(ctx, scope, limit)
}

// Dashboard gathers the headline numbers concurrently.
func (s *Service) Dashboard(ctx context.Context, scope tenant.Scope) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		orders, err := s.OrderStats(ctx, scope)
		stats.Orders = orders
		return err
	})
	g.Go(func() error {
		total, err := s.repo.TotalRevenue(ctx, scope)
		stats.TotalRevenue = total
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountLowStock(ctx, scope, s.lowStockThreshold)
		stats.LowStockCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountCustomers(ctx, scope)
		stats.CustomerCount = n
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("dashboard_failed", "Failed to build dashboard", logger.RequestID(ctx), nil, err)
		return nil, err
	}
	return &stats, nil
}
