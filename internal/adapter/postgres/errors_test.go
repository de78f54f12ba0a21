package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/tenant"
)

var errNoRows = pgx.ErrNoRows

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    error
		message string
	}{
		{"no rows", pgx.ErrNoRows, domain.ErrNotFound, "thing not found"},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), domain.ErrNotFound, "thing not found"},
		{
			"duplicate sku",
			&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "products_tenant_id_sku_key"},
			domain.ErrConflict, "product with this SKU already exists",
		},
		{
			"template in use",
			&pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "orders_delivery_template_id_fkey"},
			domain.ErrConflict, "delivery template is used by existing orders",
		},
		{
			"negative stock",
			&pgconn.PgError{Code: codeCheckViolation, ConstraintName: "products_stock_check"},
			domain.ErrInvalidInput, "stock cannot become negative",
		},
		{
			"unknown unique constraint",
			&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "x_key"},
			domain.ErrConflict, "conflicting data: x_key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translate(tt.err, "thing not found")
			assert.ErrorIs(t, err, tt.kind)
			assert.EqualError(t, err, tt.message)
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, translate(nil, "x"))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		assert.Same(t, boom, translate(boom, "x"))
	})
}

func TestDeliveryTemplateDeleteInUse(t *testing.T) {
	tx := &fakeTx{
		exec: func(sql string, args []any) (CommandTag, error) {
			return nil, &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "orders_delivery_template_id_fkey"}
		},
	}
	repo := NewDeliveryTemplateRepository(&fakeDB{tx: tx})

	err := repo.Delete(context.Background(), tenant.MustNew(testTenant), "a3bb189e-8bf9-3888-9912-ace4e6543002")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDeliveryTemplateCreateDefaultClearsOthers(t *testing.T) {
	tx := &fakeTx{}
	repo := NewDeliveryTemplateRepository(&fakeDB{tx: tx})

	tmpl := &domain.PricingTemplate{ID: "a3bb189e-8bf9-3888-9912-ace4e6543002", Name: "Courier", IsDefault: true}
	assert.NoError(t, repo.Create(context.Background(), tenant.MustNew(testTenant), tmpl))

	clears := tx.executed("SET is_default = false")
	if assert.Len(t, clears, 1) {
		assert.Equal(t, tmpl.ID, clears[0].args[1])
	}
	assert.True(t, tx.committed)
}

func TestProductAdjustStockBelowZero(t *testing.T) {
	tx := &fakeTx{
		row: func(sql string, args []any) Row {
			if len(args) == 4 {
				return fakeRow{err: pgx.ErrNoRows}
			}
			return fakeRow{vals: []any{
				"a3bb189e-8bf9-3888-9912-ace4e6543002", testTenant, "Widget", "W-1", "", decimalZero, decimalZero, "pcs", 2, epoch, epoch,
			}}
		},
	}
	repo := NewProductRepository(&fakeDB{tx: tx})

	_, err := repo.AdjustStock(context.Background(), tenant.MustNew(testTenant), "a3bb189e-8bf9-3888-9912-ace4e6543002", -5, "damaged")

	var stockErr *domain.InsufficientStockError
	if assert.ErrorAs(t, err, &stockErr) {
		assert.Equal(t, 2, stockErr.Available)
		assert.Equal(t, 5, stockErr.Requested)
	}
	assert.True(t, tx.rolledBack)
	assert.Empty(t, tx.executed("inventory_history"))
}

func TestZeroScopeMatchesNothing(t *testing.T) {
	tx := &fakeTx{
		row: func(sql string, args []any) Row {
			return fakeRow{err: errNoRows}
		},
	}
	repo := NewProductRepository(&fakeDB{tx: tx})

	_, err := repo.FindByID(context.Background(), tenant.Scope{}, "a3bb189e-8bf9-3888-9912-ace4e6543002")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	lookups := tx.executed("WHERE tenant_id = $1")
	require.Len(t, lookups, 1)
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", lookups[0].args[0])
}
