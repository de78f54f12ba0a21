package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a customer order. Apart from Status it never changes after
// creation.
type Order struct {
	ID                 string
	TenantID           string
	Number             int64
	CustomerID         string
	Customer           *Customer
	Items              []OrderItem
	Discount           decimal.Decimal
	DeliveryFee        decimal.Decimal
	TotalAmount        decimal.Decimal
	DeliveryTemplateID *string
	PaymentMethod      string
	OrderSource        string
	Status             Status
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OrderItem is a line item. Price is the product's unit price at the time
// the order was placed.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func NewOrder(tenantID, customerID, paymentMethod, orderSource string) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:            uuid.NewString(),
		TenantID:      tenantID,
		CustomerID:    customerID,
		PaymentMethod: paymentMethod,
		OrderSource:   orderSource,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// AddItem appends a line priced from the product's current price.
func (o *Order) AddItem(p *Product, quantity int) {
	o.Items = append(o.Items, OrderItem{
		ID:          uuid.NewString(),
		OrderID:     o.ID,
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		Price:       p.Price,
	})
}

func (o *Order) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

// ApplyPricing sets discount, delivery fee and the derived total.
func (o *Order) ApplyPricing(discount, deliveryFee decimal.Decimal) {
	o.Discount = discount
	o.DeliveryFee = deliveryFee
	o.TotalAmount = o.Subtotal().Sub(discount).Add(deliveryFee)
}

// TransitionTo moves the order to next if the status graph allows it.
func (o *Order) TransitionTo(next Status) error {
	if !next.IsValid() {
		return InvalidInputf("unknown order status %q", next)
	}
	if !o.Status.CanTransitionTo(next) {
		return &Error{
			Kind:    ErrInvalidStatusTransition,
			Message: "cannot change order status from " + string(o.Status) + " to " + string(next),
		}
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	return nil
}

type OrderFilter struct {
	Status      *Status
	OrderSource string
	StartDate   *time.Time
	EndDate     *time.Time
}

// CourierRow is one line of the bulk-upload export handed to couriers.
type CourierRow struct {
	OrderNumber   int64
	CustomerName  string
	Phone         string
	Address       string
	City          string
	TotalAmount   decimal.Decimal
	DeliveryFee   decimal.Decimal
	PaymentMethod string
	Items         string
}
