package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_ApplyPricing(t *testing.T) {
	order := NewOrder("tenant", "customer", "COD", "WEB")
	order.AddItem(&Product{ID: "a", Name: "A", Price: decimal.NewFromInt(100)}, 2)
	order.AddItem(&Product{ID: "b", Name: "B", Price: decimal.NewFromInt(50)}, 1)

	order.ApplyPricing(decimal.NewFromInt(20), decimal.NewFromInt(275))

	assert.True(t, order.Subtotal().Equal(decimal.NewFromInt(250)))
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(505)), "got %s", order.TotalAmount)
	assert.Equal(t, StatusPending, order.Status)
	for _, item := range order.Items {
		assert.Equal(t, order.ID, item.OrderID)
	}
}

func TestOrder_ApplyPricingDoesNotClamp(t *testing.T) {
	order := NewOrder("tenant", "customer", "COD", "WEB")
	order.AddItem(&Product{ID: "a", Price: decimal.NewFromInt(10)}, 1)
	order.ApplyPricing(decimal.NewFromInt(30), decimal.Zero)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(-20)))
}

func TestOrder_TransitionTo(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusConfirmed, StatusReady, true},
		{StatusReady, StatusDispatched, true},
		{StatusDispatched, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusDispatched, StatusCancelled, true},
		{StatusPending, StatusReady, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusPending, StatusPending, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			order := &Order{Status: tc.from}
			err := order.TransitionTo(tc.to)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.to, order.Status)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidStatusTransition))
			assert.Equal(t, tc.from, order.Status)
		})
	}

	t.Run("unknown status", func(t *testing.T) {
		order := &Order{Status: StatusPending}
		err := order.TransitionTo("LOST")
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
}

func TestInsufficientStockError(t *testing.T) {
	err := error(&InsufficientStockError{ProductID: "p1", ProductName: "Rice", Requested: 5, Available: 3})
	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.Equal(t, "insufficient stock for Rice: requested 5, available 3", err.Error())

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 3, stockErr.Available)
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, errors.Is(NotFoundf("customer not found"), ErrNotFound))
	assert.True(t, errors.Is(Conflictf("dup"), ErrConflict))
	assert.True(t, errors.Is(InvalidInputf("bad"), ErrInvalidInput))
	assert.Equal(t, "product p1 not found", NotFoundf("product %s not found", "p1").Error())
}
