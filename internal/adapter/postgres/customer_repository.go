package postgres

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

const customerNotFound = "customer not found"

type customerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) interfaces.CustomerRepository {
	return &customerRepository{db: db}
}

const selectCustomers = `
	SELECT id, tenant_id, name, phone, address, city, created_at, updated_at
	FROM customers
`

func scanCustomer(row Row) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Phone, &c.Address, &c.City, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) Create(ctx context.Context, scope tenant.Scope, c *domain.Customer) error {
	c.TenantID = scope.ID()
	_, err := r.db.Exec(ctx, `
		INSERT INTO customers (id, tenant_id, name, phone, address, city, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.TenantID, c.Name, c.Phone, c.Address, c.City, c.CreatedAt, c.UpdatedAt)
	return translate(err, customerNotFound)
}

func (r *customerRepository) FindByID(ctx context.Context, scope tenant.Scope, id string) (*domain.Customer, error) {
	if !isUUID(id) {
		return nil, domain.NotFoundf(customerNotFound)
	}
	c, err := scanCustomer(r.db.QueryRow(ctx, selectCustomers+` WHERE tenant_id = $1 AND id = $2`, scope.ID(), id))
	if err != nil {
		return nil, translate(err, customerNotFound)
	}
	return c, nil
}

func (r *customerRepository) FindByPhone(ctx context.Context, scope tenant.Scope, phone string) (*domain.Customer, error) {
	c, err := scanCustomer(r.db.QueryRow(ctx, selectCustomers+` WHERE tenant_id = $1 AND phone = $2`, scope.ID(), phone))
	if err != nil {
		return nil, translate(err, customerNotFound)
	}
	return c, nil
}

func (r *customerRepository) List(ctx context.Context, scope tenant.Scope) ([]*domain.Customer, error) {
	rows, err := r.db.Query(ctx, selectCustomers+` WHERE tenant_id = $1 ORDER BY name`, scope.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]*domain.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read customers: %w", err)
	}
	return customers, nil
}

func (r *customerRepository) Update(ctx context.Context, scope tenant.Scope, c *domain.Customer) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE customers
		SET name = $1, phone = $2, address = $3, city = $4, updated_at = $5
		WHERE id = $6 AND tenant_id = $7
	`, c.Name, c.Phone, c.Address, c.City, c.UpdatedAt, c.ID, scope.ID())
	if err != nil {
		return translate(err, customerNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf(customerNotFound)
	}
	return nil
}
