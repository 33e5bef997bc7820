package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go-storefront/services"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// RabbitPublisher sends storefront events to a durable topic exchange.
type RabbitPublisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	ch       *amqp.Channel
	exchange string
}

// NewRabbitPublisher dials url and declares exchange once at startup.
func NewRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
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
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	log.WithField("exchange", exchange).Info("Connected to RabbitMQ")
	return &RabbitPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish encodes payload as JSON and sends it with routingKey.
func (p *RabbitPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Type:         routingKey,
		Body:         body,
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// LogPublisher only logs events; it is used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, routingKey string, payload any) error {
	log.WithFields(log.Fields{"routing_key": routingKey, "payload": payload}).Debug("event")
	return nil
}

var (
	_ services.EventPublisher = (*RabbitPublisher)(nil)
	_ services.EventPublisher = LogPublisher{}
)
