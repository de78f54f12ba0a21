package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
)

// NotificationHandler turns order events into notification log lines.
type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{logger: logger}
}

func (h *NotificationHandler) HandleOrderEvent(ctx context.Context, body []byte) error {
	var event interfaces.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse order event", "", nil, err)
		return err
	}

	details := map[string]any{
		"tenant_id":    event.TenantID,
		"order_id":     event.OrderID,
		"order_number": event.OrderNumber,
		"status":       event.Status,
	}

	switch event.Type {
	case interfaces.OrderCreated:
		details["total_amount"] = event.TotalAmount
		details["order_source"] = event.OrderSource
		h.logger.Info("order_created_notification",
			fmt.Sprintf("Order #%d placed for %s", event.OrderNumber, event.TotalAmount), "", details)
	case interfaces.OrderStatusChanged:
		details["old_status"] = event.OldStatus
		h.logger.Info("status_changed_notification",
			fmt.Sprintf("Order #%d status changed from '%s' to '%s'", event.OrderNumber, event.OldStatus, event.Status), "", details)
	default:
		return fmt.Errorf("unknown order event type %q", event.Type)
	}

	return nil
}
