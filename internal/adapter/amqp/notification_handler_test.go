package amqp

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
)

func TestHandleOrderEvent(t *testing.T) {
	var buf bytes.Buffer
	h := NewNotificationHandler(logger.NewWithWriter("notification-subscriber", logger.LevelInfo, &buf))

	body, err := json.Marshal(interfaces.OrderEvent{
		Type:        interfaces.OrderStatusChanged,
		OrderNumber: 4,
		OldStatus:   domain.StatusReady,
		Status:      domain.StatusDispatched,
	})
	require.NoError(t, err)

	require.NoError(t, h.HandleOrderEvent(context.Background(), body))

	var entry logger.LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "status_changed_notification", entry.Action)
	assert.Equal(t, "Order #4 status changed from 'READY' to 'DISPATCHED'", entry.Message)
}

func TestHandleOrderEventRejectsBadInput(t *testing.T) {
	h := NewNotificationHandler(logger.Nop())

	assert.Error(t, h.HandleOrderEvent(context.Background(), []byte("{")))
	assert.Error(t, h.HandleOrderEvent(context.Background(), []byte(`{"type":"order.deleted"}`)))
}
