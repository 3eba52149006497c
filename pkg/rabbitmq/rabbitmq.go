package rabbitmq

import (
	"encoding/json"
	"fmt"

	amqp "github.com/streadway/amqp"
)

const queueName = "order_events"

// Publisher holds the RabbitMQ connection and channel used for order
// lifecycle events. A nil *Publisher is valid and publishes nothing, so the
// broker stays optional in deployments that do not need events.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// OrderEvent is the JSON body published for every order transition.
type OrderEvent struct {
	Event       string `json:"event"`
	OrderID     int    `json:"orderId"`
	Ref         string `json:"ref"`
	UserID      string `json:"userId"`
	ProductID   string `json:"productId"`
	Status      string `json:"status"`
	TotalAmount int    `json:"totalAmount"`
}

// NewPublisher connects to RabbitMQ and declares the durable order event queue.
func NewPublisher(cfg Config) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", queueName, err)
	}

	return &Publisher{conn: conn, channel: ch}, nil
}

// Publish sends an order event to the queue. No-op on a nil publisher.
func (p *Publisher) Publish(event OrderEvent) error {
	if p == nil || p.channel == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	return p.channel.Publish(
		"",        // default exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Close closes the RabbitMQ channel and connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			return fmt.Errorf("failed to close channel: %w", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	return nil
}
