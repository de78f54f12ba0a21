package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/YelzhanWeb/orderdesk/internal/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

var constraintMessages = map[string]string{
	"products_tenant_id_sku_key":       "product with this SKU already exists",
	"customers_tenant_id_phone_key":    "customer with this phone number already exists",
	"orders_delivery_template_id_fkey": "delivery template is used by existing orders",
	"products_stock_check":             "stock cannot become negative",
}

// translate maps driver errors onto domain error kinds. notFound is the
// message used when the query matched no row.
func translate(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFoundf("%s", notFound)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	msg, known := constraintMessages[pgErr.ConstraintName]
	switch pgErr.Code {
	case codeUniqueViolation, codeForeignKeyViolation:
		if !known {
			msg = fmt.Sprintf("conflicting data: %s", pgErr.ConstraintName)
		}
		return domain.Conflictf("%s", msg)
	case codeCheckViolation:
		if !known {
			msg = fmt.Sprintf("invalid data: %s", pgErr.ConstraintName)
		}
		return domain.InvalidInputf("%s", msg)
	}
	return err
}
