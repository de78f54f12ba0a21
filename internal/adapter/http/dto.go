package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
	"github.com/YelzhanWeb/orderdesk/internal/pricing"
)

// Money is decoded into decimal (which accepts JSON numbers and strings)
// and written back as a JSON number.

func money(d decimal.Decimal) float64 { return d.InexactFloat64() }

// Requests

type orderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type createOrderRequest struct {
	CustomerID         string             `json:"customerId" binding:"required"`
	Items              []orderItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryTemplateID string             `json:"deliveryTemplateId"`
	TotalWeight        decimal.Decimal    `json:"totalWeight"`
	Discount           decimal.Decimal    `json:"discount"`
	PaymentMethod      string             `json:"paymentMethod" binding:"required"`
	OrderSource        string             `json:"orderSource" binding:"required"`
}

func (r createOrderRequest) command() interfaces.CreateOrderCommand {
	return interfaces.CreateOrderCommand{
		CustomerID:         r.CustomerID,
		Items:              itemCommands(r.Items),
		DeliveryTemplateID: r.DeliveryTemplateID,
		TotalWeight:        r.TotalWeight,
		Discount:           r.Discount,
		PaymentMethod:      r.PaymentMethod,
		OrderSource:        r.OrderSource,
	}
}

type previewOrderRequest struct {
	Items              []orderItemRequest `json:"items" binding:"dive"`
	DeliveryTemplateID string             `json:"deliveryTemplateId"`
	TotalWeight        decimal.Decimal    `json:"totalWeight"`
	Discount           decimal.Decimal    `json:"discount"`
}

func itemCommands(items []orderItemRequest) []interfaces.CreateOrderItemCommand {
	out := make([]interfaces.CreateOrderItemCommand, len(items))
	for i, item := range items {
		out[i] = interfaces.CreateOrderItemCommand{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return out
}

type updateOrderRequest struct {
	Status *domain.Status `json:"status"`
}

type calculateDeliveryRequest struct {
	DeliveryTemplateID string          `json:"deliveryTemplateId" binding:"required"`
	TotalWeight        decimal.Decimal `json:"totalWeight"`
}

type exportCourierRequest struct {
	OrderIDs []string `json:"orderIds" binding:"required,min=1"`
}

type createProductRequest struct {
	Name     string          `json:"name" binding:"required"`
	SKU      string          `json:"sku"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Cost     decimal.Decimal `json:"cost"`
	Unit     string          `json:"unit"`
	Stock    int             `json:"stock" binding:"min=0"`
}

type updateProductRequest struct {
	Name     *string          `json:"name"`
	SKU      *string          `json:"sku"`
	Category *string          `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	Cost     *decimal.Decimal `json:"cost"`
	Unit     *string          `json:"unit"`
}

type adjustStockRequest struct {
	Change int    `json:"change" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

type createCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type updateCustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	City    *string `json:"city"`
}

type createTemplateRequest struct {
	Name         string          `json:"name" binding:"required"`
	FirstKgPrice decimal.Decimal `json:"firstKgPrice"`
	ExtraKgPrice decimal.Decimal `json:"extraKgPrice"`
	IsDefault    bool            `json:"isDefault"`
}

type updateTemplateRequest struct {
	Name         *string          `json:"name"`
	FirstKgPrice *decimal.Decimal `json:"firstKgPrice"`
	ExtraKgPrice *decimal.Decimal `json:"extraKgPrice"`
	IsDefault    *bool            `json:"isDefault"`
}

// Responses

type customerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func fromCustomer(c *domain.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		City:      c.City,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type orderItemResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type orderResponse struct {
	ID                 string              `json:"id"`
	OrderNumber        int64               `json:"orderNumber"`
	CustomerID         string              `json:"customerId"`
	Customer           *customerResponse   `json:"customer,omitempty"`
	Items              []orderItemResponse `json:"items"`
	Discount           float64             `json:"discount"`
	DeliveryFee        float64             `json:"deliveryFee"`
	TotalAmount        float64             `json:"totalAmount"`
	DeliveryTemplateID *string             `json:"deliveryTemplateId"`
	PaymentMethod      string              `json:"paymentMethod"`
	OrderSource        string              `json:"orderSource"`
	Status             domain.Status       `json:"status"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

func fromOrder(o *domain.Order) orderResponse {
	resp := orderResponse{
		ID:                 o.ID,
		OrderNumber:        o.Number,
		CustomerID:         o.CustomerID,
		Items:              make([]orderItemResponse, len(o.Items)),
		Discount:           money(o.Discount),
		DeliveryFee:        money(o.DeliveryFee),
		TotalAmount:        money(o.TotalAmount),
		DeliveryTemplateID: o.DeliveryTemplateID,
		PaymentMethod:      o.PaymentMethod,
		OrderSource:        o.OrderSource,
		Status:             o.Status,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if o.Customer != nil {
		c := fromCustomer(o.Customer)
		resp.Customer = &c
	}
	for i, item := range o.Items {
		resp.Items[i] = orderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       money(item.Price),
		}
	}
	return resp
}

func fromOrders(orders []*domain.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = fromOrder(o)
	}
	return out
}

type statusLogResponse struct {
	Status    domain.Status `json:"status"`
	ChangedBy string        `json:"changedBy"`
	ChangedAt time.Time     `json:"changedAt"`
}

type courierRowResponse struct {
	OrderNumber   int64   `json:"orderNumber"`
	CustomerName  string  `json:"customerName"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	TotalAmount   float64 `json:"totalAmount"`
	DeliveryFee   float64 `json:"deliveryFee"`
	PaymentMethod string  `json:"paymentMethod"`
	Items         string  `json:"items"`
}

type quoteResponse struct {
	Subtotal    float64            `json:"subtotal"`
	DeliveryFee float64            `json:"deliveryFee"`
	Discount    float64            `json:"discount"`
	TotalAmount float64            `json:"totalAmount"`
	ItemsTotal  map[string]float64 `json:"itemsTotal"`
}

func fromQuote(q *pricing.Quote) quoteResponse {
	items := make(map[string]float64, len(q.ItemsTotal))
	for id, total := range q.ItemsTotal {
		items[id] = money(total)
	}
	return quoteResponse{
		Subtotal:    money(q.Subtotal),
		DeliveryFee: money(q.DeliveryFee),
		Discount:    money(q.Discount),
		TotalAmount: money(q.TotalAmount),
		ItemsTotal:  items,
	}
}

type inventoryEntryResponse struct {
	Change    int       `json:"change"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

type productResponse struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	SKU       string                   `json:"sku"`
	Category  string                   `json:"category"`
	Price     float64                  `json:"price"`
	Cost      float64                  `json:"cost"`
	Unit      string                   `json:"unit"`
	Stock     int                      `json:"stock"`
	History   []inventoryEntryResponse `json:"history,omitempty"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

func fromProduct(p *domain.Product) productResponse {
	resp := productResponse{
		ID:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Category:  p.Category,
		Price:     money(p.Price),
		Cost:      money(p.Cost),
		Unit:      p.Unit,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for _, h := range p.History {
		resp.History = append(resp.History, inventoryEntryResponse{Change: h.Change, Reason: h.Reason, CreatedAt: h.CreatedAt})
	}
	return resp
}

func fromProducts(products []*domain.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = fromProduct(p)
	}
	return out
}

type templateResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	FirstKgPrice float64   `json:"firstKgPrice"`
	ExtraKgPrice float64   `json:"extraKgPrice"`
	IsDefault    bool      `json:"isDefault"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func fromTemplate(t *domain.PricingTemplate) templateResponse {
	return templateResponse{
		ID:           t.ID,
		Name:         t.Name,
		FirstKgPrice: money(t.FirstKgPrice),
		ExtraKgPrice: money(t.ExtraKgPrice),
		IsDefault:    t.IsDefault,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

type revenuePointResponse struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type orderStatsResponse struct {
	Total    int                   `json:"total"`
	ByStatus map[domain.Status]int `json:"byStatus"`
}

func fromOrderStats(s domain.OrderStats) orderStatsResponse {
	return orderStatsResponse{Total: s.Total, ByStatus: s.Counts}
}

type productSalesResponse struct {
	Product   productResponse `json:"product"`
	TotalSold int             `json:"totalSold"`
}

type dashboardResponse struct {
	Orders        orderStatsResponse `json:"orders"`
	TotalRevenue  float64            `json:"totalRevenue"`
	LowStockCount int                `json:"lowStockCount"`
	CustomerCount int                `json:"customerCount"`
}
