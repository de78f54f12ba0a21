// Package pricing holds the delivery fee formula and order totals. It is
// shared by order creation, which trusts its result, and by previews,
// which only display it.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/orderdesk/internal/domain"
)

var one = decimal.NewFromInt(1)

// DeliveryFee prices a parcel of weight kilograms:
// FirstKgPrice + (weight - 1) * ExtraKgPrice, rounded to cents half away
// from zero. Parcels up to one kilogram pay FirstKgPrice.
func DeliveryFee(t domain.PricingTemplate, weight decimal.Decimal) (decimal.Decimal, error) {
	if !weight.IsPositive() {
		return decimal.Zero, domain.InvalidInputf("weight must be greater than 0")
	}
	if weight.LessThanOrEqual(one) {
		return t.FirstKgPrice, nil
	}
	fee := t.FirstKgPrice.Add(weight.Sub(one).Mul(t.ExtraKgPrice))
	return fee.Round(2), nil
}

// PreviewFee is the advisory variant: no template or a non-positive weight
// means no delivery fee instead of an error.
func PreviewFee(t *domain.PricingTemplate, weight decimal.Decimal) decimal.Decimal {
	if t == nil || !weight.IsPositive() {
		return decimal.Zero
	}
	fee, err := DeliveryFee(*t, weight)
	if err != nil {
		return decimal.Zero
	}
	return fee
}

// Total is subtotal - discount + deliveryFee, unclamped.
func Total(subtotal, discount, deliveryFee decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(deliveryFee)
}

type Line struct {
	ProductID string
	Quantity  int
}

type Quote struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Discount    decimal.Decimal
	TotalAmount decimal.Decimal
	ItemsTotal  map[string]decimal.Decimal
}

// Preview prices a draft order against a catalog snapshot. Lines whose
// product is missing from the snapshot are ignored and the total never
// drops below zero.
func Preview(lines []Line, catalog map[string]*domain.Product, t *domain.PricingTemplate, weight, discount decimal.Decimal) Quote {
	q := Quote{
		Subtotal:   decimal.Zero,
		Discount:   discount,
		ItemsTotal: make(map[string]decimal.Decimal, len(lines)),
	}
	for _, line := range lines {
		p, ok := catalog[line.ProductID]
		if !ok {
			continue
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		q.ItemsTotal[line.ProductID] = lineTotal
		q.Subtotal = q.Subtotal.Add(lineTotal)
	}
	q.DeliveryFee = PreviewFee(t, weight)
	q.TotalAmount = decimal.Max(decimal.Zero, Total(q.Subtotal, discount, q.DeliveryFee))
	return q
}
