package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

const orderNotFound = "order not found"

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, scope tenant.Scope, order *domain.Order) error {
	return WithTx(ctx, r.db, func(tx Tx) error {
		number, err := nextOrderNumber(ctx, tx, scope)
		if err != nil {
			return err
		}
		order.Number = number
		order.TenantID = scope.ID()

		query := `
			INSERT INTO orders (id, tenant_id, number, customer_id, discount, delivery_fee, total_amount,
			                    delivery_template_id, payment_method, order_source, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`
		_, err = tx.Exec(ctx, query,
			order.ID, scope.ID(), order.Number, order.CustomerID, order.Discount, order.DeliveryFee,
			order.TotalAmount, order.DeliveryTemplateID, order.PaymentMethod, order.OrderSource,
			order.Status, order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", translate(err, orderNotFound))
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			_, err = tx.Exec(ctx, `
				INSERT INTO order_items (id, order_id, product_id, quantity, price, position)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, item.ID, order.ID, item.ProductID, item.Quantity, item.Price, i+1)
			if err != nil {
				return fmt.Errorf("failed to insert order item: %w", translate(err, orderNotFound))
			}
		}

		reason := fmt.Sprintf("Order #%d", order.Number)
		for _, item := range order.Items {
			if err := decrementStock(ctx, tx, scope, item); err != nil {
				return err
			}
			if err := appendHistory(ctx, tx, item.ProductID, -item.Quantity, reason, order.CreatedAt); err != nil {
				return err
			}
		}

		return logStatus(ctx, tx, order.ID, order.Status, "order-service", order.CreatedAt)
	})
}

// nextOrderNumber hands out the tenant's next sequential order number. The
// counter row stays locked until the surrounding transaction ends.
func nextOrderNumber(ctx context.Context, tx Tx, scope tenant.Scope) (int64, error) {
	query := `
		INSERT INTO tenant_order_counters (tenant_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (tenant_id) DO UPDATE SET last_number = tenant_order_counters.last_number + 1
		RETURNING last_number
	`
	var number int64
	if err := tx.QueryRow(ctx, query, scope.ID()).Scan(&number); err != nil {
		return 0, fmt.Errorf("failed to generate order number: %w", err)
	}
	return number, nil
}

// decrementStock takes item.Quantity out of stock only if enough is left,
// so concurrent orders cannot oversell regardless of isolation level.
func decrementStock(ctx context.Context, tx Tx, scope tenant.Scope, item domain.OrderItem) error {
	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET stock = stock - $1, updated_at = $2
		WHERE id = $3 AND tenant_id = $4 AND stock >= $1
	`, item.Quantity, time.Now().UTC(), item.ProductID, scope.ID())
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", translate(err, "product not found"))
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var name string
	var available int
	err = tx.QueryRow(ctx, `SELECT name, stock FROM products WHERE id = $1 AND tenant_id = $2`,
		item.ProductID, scope.ID()).Scan(&name, &available)
	if err != nil {
		return translate(err, fmt.Sprintf("product %s not found", item.ProductID))
	}
	return &domain.InsufficientStockError{
		ProductID:   item.ProductID,
		ProductName: name,
		Requested:   item.Quantity,
		Available:   available,
	}
}

func appendHistory(ctx context.Context, q Querier, productID string, change int, reason string, at time.Time) error {
	_, err := q.Exec(ctx, `
		INSERT INTO inventory_history (id, product_id, change, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), productID, change, reason, at)
	if err != nil {
		return fmt.Errorf("failed to log inventory change: %w", err)
	}
	return nil
}

func logStatus(ctx context.Context, q Querier, orderID string, status domain.Status, changedBy string, at time.Time) error {
	_, err := q.Exec(ctx, `
		INSERT INTO order_status_log (id, order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), orderID, status, changedBy, at)
	if err != nil {
		return fmt.Errorf("failed to log status: %w", err)
	}
	return nil
}

const selectOrders = `
	SELECT o.id, o.tenant_id, o.number, o.customer_id, o.discount, o.delivery_fee, o.total_amount,
	       o.delivery_template_id, o.payment_method, o.order_source, o.status, o.created_at, o.updated_at,
	       c.name, c.phone, c.address, c.city
	FROM orders o
	JOIN customers c ON c.id = o.customer_id
`

func (r *orderRepository) FindByID(ctx context.Context, scope tenant.Scope, id string) (*domain.Order, error) {
	if !isUUID(id) {
		return nil, domain.NotFoundf(orderNotFound)
	}
	orders, err := r.query(ctx, selectOrders+` WHERE o.tenant_id = $1 AND o.id = $2`, scope.ID(), id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domain.NotFoundf(orderNotFound)
	}
	return orders[0], nil
}

func (r *orderRepository) FindByIDs(ctx context.Context, scope tenant.Scope, ids []string) ([]*domain.Order, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if isUUID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}
	return r.query(ctx, selectOrders+` WHERE o.tenant_id = $1 AND o.id = ANY($2) ORDER BY o.number`, scope.ID(), valid)
}

func (r *orderRepository) List(ctx context.Context, scope tenant.Scope, filter domain.OrderFilter) ([]*domain.Order, error) {
	conds := []string{"o.tenant_id = $1"}
	args := []any{scope.ID()}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Status != nil {
		add("o.status = $%d", *filter.Status)
	}
	if filter.OrderSource != "" {
		add("o.order_source = $%d", filter.OrderSource)
	}
	if filter.StartDate != nil {
		add("o.created_at >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("o.created_at <= $%d", *filter.EndDate)
	}

	query := selectOrders + " WHERE " + strings.Join(conds, " AND ") + " ORDER BY o.created_at DESC"
	return r.query(ctx, query, args...)
}

func (r *orderRepository) ListByStatus(ctx context.Context, scope tenant.Scope, status domain.Status) ([]*domain.Order, error) {
	return r.query(ctx, selectOrders+` WHERE o.tenant_id = $1 AND o.status = $2 ORDER BY o.created_at ASC`, scope.ID(), status)
}

func (r *orderRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	byID := make(map[string]*domain.Order)
	for rows.Next() {
		order := &domain.Order{Customer: &domain.Customer{}}
		if err := rows.Scan(
			&order.ID, &order.TenantID, &order.Number, &order.CustomerID, &order.Discount, &order.DeliveryFee,
			&order.TotalAmount, &order.DeliveryTemplateID, &order.PaymentMethod, &order.OrderSource,
			&order.Status, &order.CreatedAt, &order.UpdatedAt,
			&order.Customer.Name, &order.Customer.Phone, &order.Customer.Address, &order.Customer.City,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		order.Customer.ID = order.CustomerID
		order.Customer.TenantID = order.TenantID
		orders = append(orders, order)
		byID[order.ID] = order
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	rows.Close()

	if len(orders) == 0 {
		return orders, nil
	}
	if err := r.loadItems(ctx, byID); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, byID map[string]*domain.Order) error {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	rows, err := r.db.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.position
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read order items: %w", err)
	}
	return nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, scope tenant.Scope, order *domain.Order, from domain.Status, changedBy string) error {
	return WithTx(ctx, r.db, func(tx Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE orders
			SET status = $1, updated_at = $2
			WHERE id = $3 AND tenant_id = $4 AND status = $5
		`, order.Status, order.UpdatedAt, order.ID, scope.ID(), from)
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.Conflictf("order %d was modified concurrently, please retry", order.Number)
		}

		return logStatus(ctx, tx, order.ID, order.Status, changedBy, order.UpdatedAt)
	})
}

func (r *orderRepository) GetStatusHistory(ctx context.Context, scope tenant.Scope, orderID string) ([]*domain.StatusLog, error) {
	if !isUUID(orderID) {
		return nil, domain.NotFoundf(orderNotFound)
	}

	rows, err := r.db.Query(ctx, `
		SELECT l.id, l.order_id, l.status, l.changed_by, l.changed_at
		FROM order_status_log l
		JOIN orders o ON o.id = l.order_id
		WHERE o.tenant_id = $1 AND l.order_id = $2
		ORDER BY l.changed_at ASC
	`, scope.ID(), orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var logs []*domain.StatusLog
	for rows.Next() {
		var log domain.StatusLog
		if err := rows.Scan(&log.ID, &log.OrderID, &log.Status, &log.ChangedBy, &log.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status log: %w", err)
		}
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status history: %w", err)
	}
	return logs, nil
}

func isUUID(id string) bool {
	return uuid.Validate(id) == nil
}
