package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
)

const (
	NotificationsQueue = "order_notifications"
	deadLetterExchange = "orders_dlx"
	deadLetterQueue    = "order_notifications_dlq"
)

type consumer struct {
	conn          Connection
	exchange      string
	prefetch      int
	retryInterval time.Duration
	logger        logger.Logger
}

func NewConsumer(conn Connection, exchange string, prefetch int, log logger.Logger) interfaces.MessageConsumer {
	return &consumer{
		conn:          conn,
		exchange:      exchange,
		prefetch:      prefetch,
		retryInterval: 5 * time.Second,
		logger:        log,
	}
}

// ConsumeOrderEvents delivers every order.* event to handler until ctx is
// cancelled, reconnecting after broker failures. Messages the handler
// rejects are dead-lettered.
func (c *consumer) ConsumeOrderEvents(ctx context.Context, handler interfaces.OrderEventHandler) error {
	for {
		err := c.consume(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, ErrConnectionClosed) {
			return err
		}

		c.logger.Warn("consumer_disconnected", "Order events consumer disconnected, reconnecting", "",
			map[string]any{"error": fmt.Sprint(err), "retry_in": c.retryInterval.String()})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryInterval):
		}

		if c.conn.IsClosed() {
			if err := c.conn.Reconnect(); err != nil {
				c.logger.Error("rabbitmq_reconnect_failed", "Failed to reconnect to RabbitMQ", "", nil, err)
			}
		}
	}
}

func (c *consumer) consume(ctx context.Context, handler interfaces.OrderEventHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	if err := c.setup(ch); err != nil {
		return err
	}

	msgs, err := ch.Consume(NotificationsQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return errors.New("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return errors.New("messages channel closed")
			}
			if err := handler(ctx, msg.Body); err != nil {
				c.logger.Error("message_rejected", "Order event dead-lettered", "",
					map[string]any{"routing_key": msg.RoutingKey}, err)
				msg.Nack(false, false)
				continue
			}
			msg.Ack(false)
		}
	}
}

func (c *consumer) setup(ch Channel) error {
	if err := ch.ExchangeDeclare(c.exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare orders exchange: %w", err)
	}
	if err := ch.ExchangeDeclare(deadLetterExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead letter exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(deadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead letter queue: %w", err)
	}
	if err := ch.QueueBind(deadLetterQueue, "", deadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind dead letter queue: %w", err)
	}

	args := amqp.Table{"x-dead-letter-exchange": deadLetterExchange}
	q, err := ch.QueueDeclare(NotificationsQueue, true, false, false, false, args)
	if err != nil {
		return fmt.Errorf("failed to declare notifications queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "order.#", c.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind notifications queue: %w", err)
	}
	return nil
}
