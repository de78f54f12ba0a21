package postgres

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

const templateNotFound = "delivery template not found"

type deliveryTemplateRepository struct {
	db DB
}

func NewDeliveryTemplateRepository(db DB) interfaces.DeliveryTemplateRepository {
	return &deliveryTemplateRepository{db: db}
}

const selectTemplates = `
	SELECT id, tenant_id, name, first_kg_price, extra_kg_price, is_default, created_at, updated_at
	FROM delivery_templates
`

func scanTemplate(row Row) (*domain.PricingTemplate, error) {
	var t domain.PricingTemplate
	err := row.Scan(&t.ID, &t.TenantID, &t.Name, &t.FirstKgPrice, &t.ExtraKgPrice, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// clearDefaults unsets is_default on every template of the tenant except keep.
func clearDefaults(ctx context.Context, tx Tx, scope tenant.Scope, keep string) error {
	_, err := tx.Exec(ctx, `
		UPDATE delivery_templates SET is_default = false
		WHERE tenant_id = $1 AND id <> $2 AND is_default
	`, scope.ID(), keep)
	if err != nil {
		return fmt.Errorf("failed to clear default templates: %w", err)
	}
	return nil
}

func (r *deliveryTemplateRepository) Create(ctx context.Context, scope tenant.Scope, t *domain.PricingTemplate) error {
	t.TenantID = scope.ID()
	return WithTx(ctx, r.db, func(tx Tx) error {
		if t.IsDefault {
			if err := clearDefaults(ctx, tx, scope, t.ID); err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO delivery_templates (id, tenant_id, name, first_kg_price, extra_kg_price, is_default, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, t.ID, t.TenantID, t.Name, t.FirstKgPrice, t.ExtraKgPrice, t.IsDefault, t.CreatedAt, t.UpdatedAt)
		return translate(err, templateNotFound)
	})
}

func (r *deliveryTemplateRepository) FindByID(ctx context.Context, scope tenant.Scope, id string) (*domain.PricingTemplate, error) {
	if !isUUID(id) {
		return nil, domain.NotFoundf(templateNotFound)
	}
	t, err := scanTemplate(r.db.QueryRow(ctx, selectTemplates+` WHERE tenant_id = $1 AND id = $2`, scope.ID(), id))
	if err != nil {
		return nil, translate(err, templateNotFound)
	}
	return t, nil
}

func (r *deliveryTemplateRepository) List(ctx context.Context, scope tenant.Scope) ([]*domain.PricingTemplate, error) {
	rows, err := r.db.Query(ctx, selectTemplates+` WHERE tenant_id = $1 ORDER BY is_default DESC, name`, scope.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery templates: %w", err)
	}
	defer rows.Close()

	templates := make([]*domain.PricingTemplate, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read delivery templates: %w", err)
	}
	return templates, nil
}

func (r *deliveryTemplateRepository) Update(ctx context.Context, scope tenant.Scope, t *domain.PricingTemplate) error {
	return WithTx(ctx, r.db, func(tx Tx) error {
		if t.IsDefault {
			if err := clearDefaults(ctx, tx, scope, t.ID); err != nil {
				return err
			}
		}
		tag, err := tx.Exec(ctx, `
			UPDATE delivery_templates
			SET name = $1, first_kg_price = $2, extra_kg_price = $3, is_default = $4, updated_at = $5
			WHERE id = $6 AND tenant_id = $7
		`, t.Name, t.FirstKgPrice, t.ExtraKgPrice, t.IsDefault, t.UpdatedAt, t.ID, scope.ID())
		if err != nil {
			return translate(err, templateNotFound)
		}
		if tag.RowsAffected() == 0 {
			return domain.NotFoundf(templateNotFound)
		}
		return nil
	})
}

// Delete fails with a conflict while any order still references the template.
func (r *deliveryTemplateRepository) Delete(ctx context.Context, scope tenant.Scope, id string) error {
	if !isUUID(id) {
		return domain.NotFoundf(templateNotFound)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM delivery_templates WHERE id = $1 AND tenant_id = $2`, id, scope.ID())
	if err != nil {
		return translate(err, templateNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf(templateNotFound)
	}
	return nil
}
