// Package events publishes request lifecycle events to RabbitMQ so
// interested consumers (provider apps, notification fan-out) observe status
// changes without polling. Publishing is best effort: the request flow never
// fails because the broker is down.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StatusEvent is emitted on every request status transition.
type StatusEvent struct {
	RequestID   string    `json:"request_id"`
	CustomerID  string    `json:"customer_id"`
	ProviderID  string    `json:"provider_id,omitempty"`
	ServiceType string    `json:"service_type"`
	Status      string    `json:"status"`
	ETAMinutes  int       `json:"eta_minutes,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher publishes status events to a topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// Dial connects to RabbitMQ and declares the events exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishStatusChange publishes a status event with routing key
// "request.status.<status>" (lowercased).
func (p *Publisher) PublishStatusChange(ctx context.Context, ev StatusEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	key := "request.status." + strings.ToLower(ev.Status)

	return p.ch.PublishWithContext(
		ctx,
		p.exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    ev.OccurredAt,
			Body:         body,
		},
	)
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
