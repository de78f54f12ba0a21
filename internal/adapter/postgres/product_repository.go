package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

const productNotFound = "product not found"

type productRepository struct {
	db DB
}

func NewProductRepository(db DB) interfaces.ProductRepository {
	return &productRepository{db: db}
}

const selectProducts = `
	SELECT id, tenant_id, name, sku, category, price, cost, unit, stock, created_at, updated_at
	FROM products
`

func scanProduct(row Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.SKU, &p.Category, &p.Price, &p.Cost,
		&p.Unit, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, scope tenant.Scope, p *domain.Product) error {
	p.TenantID = scope.ID()
	return WithTx(ctx, r.db, func(tx Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO products (id, tenant_id, name, sku, category, price, cost, unit, stock, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, p.ID, p.TenantID, p.Name, p.SKU, p.Category, p.Price, p.Cost, p.Unit, p.Stock, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return translate(err, productNotFound)
		}
		if p.Stock == 0 {
			return nil
		}
		return appendHistory(ctx, tx, p.ID, p.Stock, "Initial stock", p.CreatedAt)
	})
}

func (r *productRepository) FindByID(ctx context.Context, scope tenant.Scope, id string) (*domain.Product, error) {
	if !isUUID(id) {
		return nil, domain.NotFoundf(productNotFound)
	}
	p, err := scanProduct(r.db.QueryRow(ctx, selectProducts+` WHERE tenant_id = $1 AND id = $2`, scope.ID(), id))
	if err != nil {
		return nil, translate(err, productNotFound)
	}
	return p, nil
}

func (r *productRepository) List(ctx context.Context, scope tenant.Scope) ([]*domain.Product, error) {
	return r.list(ctx, selectProducts+` WHERE tenant_id = $1 ORDER BY name`, scope.ID())
}

func (r *productRepository) ListLowStock(ctx context.Context, scope tenant.Scope, threshold int) ([]*domain.Product, error) {
	return r.list(ctx, selectProducts+` WHERE tenant_id = $1 AND stock <= $2 ORDER BY stock, name`, scope.ID(), threshold)
}

func (r *productRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

// Update writes the descriptive fields. Stock only moves through
// AdjustStock and orders.
func (r *productRepository) Update(ctx context.Context, scope tenant.Scope, p *domain.Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $1, sku = $2, category = $3, price = $4, cost = $5, unit = $6, updated_at = $7
		WHERE id = $8 AND tenant_id = $9
	`, p.Name, p.SKU, p.Category, p.Price, p.Cost, p.Unit, p.UpdatedAt, p.ID, scope.ID())
	if err != nil {
		return translate(err, productNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf(productNotFound)
	}
	return nil
}

func (r *productRepository) AdjustStock(ctx context.Context, scope tenant.Scope, id string, change int, reason string) (*domain.Product, error) {
	if !isUUID(id) {
		return nil, domain.NotFoundf(productNotFound)
	}

	var product *domain.Product
	err := WithTx(ctx, r.db, func(tx Tx) error {
		now := time.Now().UTC()
		p, err := scanProduct(tx.QueryRow(ctx, `
			UPDATE products
			SET stock = stock + $1, updated_at = $2
			WHERE id = $3 AND tenant_id = $4 AND stock + $1 >= 0
			RETURNING id, tenant_id, name, sku, category, price, cost, unit, stock, created_at, updated_at
		`, change, now, id, scope.ID()))
		if err == nil {
			product = p
			return appendHistory(ctx, tx, id, change, reason, now)
		}

		current, lookupErr := scanProduct(tx.QueryRow(ctx, selectProducts+` WHERE tenant_id = $1 AND id = $2`, scope.ID(), id))
		if lookupErr != nil {
			return translate(lookupErr, productNotFound)
		}
		if translated := translate(err, productNotFound); !errors.Is(translated, domain.ErrNotFound) {
			return translated
		}
		return &domain.InsufficientStockError{
			ProductID:   current.ID,
			ProductName: current.Name,
			Requested:   -change,
			Available:   current.Stock,
		}
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) History(ctx context.Context, scope tenant.Scope, productID string, limit int) ([]domain.InventoryHistoryEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT h.id, h.product_id, h.change, h.reason, h.created_at
		FROM inventory_history h
		JOIN products p ON p.id = h.product_id
		WHERE p.tenant_id = $1 AND h.product_id = $2
		ORDER BY h.created_at DESC
		LIMIT $3
	`, scope.ID(), productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory history: %w", err)
	}
	defer rows.Close()

	history := make([]domain.InventoryHistoryEntry, 0)
	for rows.Next() {
		var h domain.InventoryHistoryEntry
		if err := rows.Scan(&h.ID, &h.ProductID, &h.Change, &h.Reason, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory history: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inventory history: %w", err)
	}
	return history, nil
}
