package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	published  []published
	bindings   map[string]string
	deliveries chan amqp.Delivery
	closed     bool
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{bindings: map[string]string{}, deliveries: make(chan amqp.Delivery, 8)}
}

func (c *fakeChannel) ExchangeDeclare(string, string, bool, bool, bool, bool, amqp.Table) error {
	return nil
}

func (c *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (Queue, error) {
	return Queue{Name: name}, nil
}

func (c *fakeChannel) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	c.bindings[name] = exchange + ":" + key
	return nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.published = append(c.published, published{exchange, key, msg})
	return nil
}

func (c *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return c.deliveries, nil
}

func (c *fakeChannel) Qos(int, int, bool) error { return nil }

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func (c *fakeChannel) NotifyClose() <-chan *amqp.Error { return make(chan *amqp.Error) }

type fakeConnection struct {
	ch           *fakeChannel
	dropped      bool
	reconnects   int
	reconnectErr error
}

func (c *fakeConnection) Channel() (Channel, error) {
	if c.dropped {
		return nil, ErrConnectionClosed
	}
	return c.ch, nil
}

func (c *fakeConnection) Close() error   { return nil }
func (c *fakeConnection) IsClosed() bool { return c.dropped }

func (c *fakeConnection) Reconnect() error {
	c.reconnects++
	if c.reconnectErr != nil {
		return c.reconnectErr
	}
	c.dropped = false
	return nil
}

type fakeAck struct {
	acked  []uint64
	nacked []uint64
}

func (a *fakeAck) Ack(tag uint64, _ bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAck) Nack(tag uint64, _, _ bool) error {
	a.nacked = append(a.nacked, tag)
	return nil
}

func (a *fakeAck) Reject(tag uint64, _ bool) error { return nil }

func TestPublishOrderEvent(t *testing.T) {
	ch := newFakeChannel()
	pub := NewPublisher(&fakeConnection{ch: ch}, "orders_topic")

	event := interfaces.OrderEvent{
		Type:        interfaces.OrderStatusChanged,
		TenantID:    "t1",
		OrderID:     "o1",
		OrderNumber: 12,
		OldStatus:   domain.StatusPending,
		Status:      domain.StatusConfirmed,
		TotalAmount: "505.00",
		Timestamp:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.PublishOrderEvent(context.Background(), event))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "orders_topic", got.exchange)
	assert.Equal(t, "order.status_changed", got.key)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.True(t, ch.closed)

	var decoded interfaces.OrderEvent
	require.NoError(t, json.Unmarshal(got.msg.Body, &decoded))
	assert.Equal(t, event, decoded)
}

func TestPublishOrderEventAfterBrokerDrop(t *testing.T) {
	event := interfaces.OrderEvent{Type: interfaces.OrderCreated, TenantID: "t1", OrderID: "o1"}

	t.Run("redials and publishes", func(t *testing.T) {
		ch := newFakeChannel()
		conn := &fakeConnection{ch: ch, dropped: true}
		pub := NewPublisher(conn, "orders_topic")

		require.NoError(t, pub.PublishOrderEvent(context.Background(), event))
		assert.Equal(t, 1, conn.reconnects)
		assert.Len(t, ch.published, 1)

		require.NoError(t, pub.PublishOrderEvent(context.Background(), event))
		assert.Equal(t, 1, conn.reconnects)
		assert.Len(t, ch.published, 2)
	})

	t.Run("redial failure is returned", func(t *testing.T) {
		ch := newFakeChannel()
		conn := &fakeConnection{ch: ch, dropped: true, reconnectErr: errors.New("dial tcp: connection refused")}
		pub := NewPublisher(conn, "orders_topic")

		err := pub.PublishOrderEvent(context.Background(), event)
		assert.ErrorContains(t, err, "connection refused")
		assert.Empty(t, ch.published)
	})
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher().PublishOrderEvent(context.Background(), interfaces.OrderEvent{}))
}

func TestConsumeOrderEvents(t *testing.T) {
	ch := newFakeChannel()
	ack := &fakeAck{}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(`{"type":"order.created"}`)}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte(`broken`)}

	c := NewConsumer(&fakeConnection{ch: ch}, "orders_topic", 10, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var bodies []string
	err := c.ConsumeOrderEvents(ctx, func(ctx context.Context, body []byte) error {
		bodies = append(bodies, string(body))
		if len(bodies) == 2 {
			cancel()
			return errors.New("cannot decode")
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, bodies, 2)
	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Equal(t, []uint64{2}, ack.nacked)
	assert.Equal(t, "orders_topic:order.#", ch.bindings[NotificationsQueue])
	assert.Equal(t, "orders_dlx:", ch.bindings["order_notifications_dlq"])
}
