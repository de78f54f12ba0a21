package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/orderdesk/internal/domain"
)

type OrderEventType string

const (
	OrderCreated       OrderEventType = "order.created"
	OrderStatusChanged OrderEventType = "order.status_changed"
)

// OrderEvent is published to RabbitMQ after an order change commits.
type OrderEvent struct {
	Type        OrderEventType `json:"type"`
	TenantID    string         `json:"tenant_id"`
	OrderID     string         `json:"order_id"`
	OrderNumber int64          `json:"order_number"`
	OldStatus   domain.Status  `json:"old_status,omitempty"`
	Status      domain.Status  `json:"status"`
	TotalAmount string         `json:"total_amount"`
	OrderSource string         `json:"order_source,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

type MessagePublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}

type MessageConsumer interface {
	ConsumeOrderEvents(ctx context.Context, handler OrderEventHandler) error
}

type OrderEventHandler func(ctx context.Context, body []byte) error
