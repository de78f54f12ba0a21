package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

type analyticsRepository struct {
	db DB
}

func NewAnalyticsRepository(db DB) interfaces.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) RevenueByDay(ctx context.Context, scope tenant.Scope, since time.Time) ([]domain.RevenuePoint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, SUM(total_amount)
		FROM orders
		WHERE tenant_id = $1 AND created_at >= $2 AND status <> $3
		GROUP BY day
		ORDER BY day
	`, scope.ID(), since, domain.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue: %w", err)
	}
	defer rows.Close()

	points := make([]domain.RevenuePoint, 0)
	for rows.Next() {
		var p domain.RevenuePoint
		if err := rows.Scan(&p.Date, &p.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan revenue: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read revenue: %w", err)
	}
	return points, nil
}

func (r *analyticsRepository) CountByStatus(ctx context.Context, scope tenant.Scope) (map[domain.Status]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM orders WHERE tenant_id = $1 GROUP BY status`, scope.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Status]int)
	for rows.Next() {
		var status domain.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan order count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order counts: %w", err)
	}
	return counts, nil
}

func (r *analyticsRepository) TopProducts(ctx context.Context, scope tenant.Scope, limit int) ([]domain.ProductSales, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.tenant_id, p.name, p.sku, p.category, p.price, p.cost, p.unit, p.stock, p.created_at, p.updated_at,
		       SUM(oi.quantity) AS sold
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.tenant_id = $1 AND o.status <> $2
		GROUP BY p.id
		ORDER BY sold DESC, p.name
		LIMIT $3
	`, scope.ID(), domain.StatusCancelled, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer rows.Close()

	sales := make([]domain.ProductSales, 0)
	for rows.Next() {
		var p domain.Product
		var sold int
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.SKU, &p.Category, &p.Price, &p.Cost,
			&p.Unit, &p.Stock, &p.CreatedAt, &p.UpdatedAt, &sold); err != nil {
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		sales = append(sales, domain.ProductSales{Product: &p, TotalSold: sold})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read top products: %w", err)
	}
	return sales, nil
}

func (r *analyticsRepository) TotalRevenue(ctx context.Context, scope tenant.Scope) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE tenant_id = $1 AND status <> $2
	`, scope.ID(), domain.StatusCancelled).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}

func (r *analyticsRepository) CountLowStock(ctx context.Context, scope tenant.Scope, threshold int) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM products WHERE tenant_id = $1 AND stock <= $2`, scope.ID(), threshold)
}

func (r *analyticsRepository) CountCustomers(ctx context.Context, scope tenant.Scope) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM customers WHERE tenant_id = $1`, scope.ID())
}

func (r *analyticsRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}
