package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
)

type publisher struct {
	conn     Connection
	exchange string
}

func NewPublisher(conn Connection, exchange string) interfaces.MessagePublisher {
	return &publisher{conn: conn, exchange: exchange}
}

// PublishOrderEvent sends the event to the topic exchange with the event
// type as routing key. A connection dropped by the broker is redialled
// once before publishing.
func (p *publisher) PublishOrderEvent(ctx context.Context, event interfaces.OrderEvent) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    event.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

type nopPublisher struct{}

// NopPublisher drops every event. Used when RabbitMQ is disabled.
func NopPublisher() interfaces.MessagePublisher { return nopPublisher{} }

func (nopPublisher) PublishOrderEvent(context.Context, interfaces.OrderEvent) error { return nil }
