package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-storefront/models"
	"go-storefront/services"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// Handler processes one delivery. A returned error nacks the message.
type Handler interface {
	Handle(ctx context.Context, d amqp.Delivery) error
}

// JSONHandler decodes the body into T before calling HandleFunc.
type JSONHandler[T any] struct {
	HandleFunc func(ctx context.Context, msg T) error
}

func (h JSONHandler[T]) Handle(ctx context.Context, d amqp.Delivery) error {
	var v T
	if err := json.Unmarshal(d.Body, &v); err != nil {
		return fmt.Errorf("%w: %v", errPoison, err)
	}
	return h.HandleFunc(ctx, v)
}

var errPoison = errors.New("undecodable message")

// AdminAlertHandler emails the shop owner about each placed order.
func AdminAlertHandler(notifier services.Notifier) JSONHandler[models.Order] {
	return JSONHandler[models.Order]{HandleFunc: func(ctx context.Context, o models.Order) error {
		return notifier.SendAdminAlertEmail(ctx, o)
	}}
}

type Consumer struct {
	ch           *amqp.Channel
	queue        string
	handler      Handler
	prefetch     int
	callTimeout  time.Duration
	requeueOnErr bool
}

// NewConsumer opens a channel on the publisher's connection, declares a
// durable queue and binds it to routingKey on the publisher's exchange.
func NewConsumer(p *RabbitPublisher, queue, routingKey string, h Handler) (*Consumer, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, routingKey, p.exchange, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("queue bind: %w", err)
	}
	return &Consumer{
		ch:           ch,
		queue:        q.Name,
		handler:      h,
		prefetch:     10,
		callTimeout:  30 * time.Second,
		requeueOnErr: true,
	}, nil
}

// Start consumes in a background goroutine until the channel closes.
func (c *Consumer) Start() error {
	if err := c.ch.Qos(c.prefetch, 0, false); err != nil {
		return err
	}
	msgs, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	go func() {
		for d := range msgs {
			c.dispatch(d)
		}
	}()
	return nil
}

func (c *Consumer) dispatch(d amqp.Delivery) {
	entry := log.WithFields(log.Fields{"queue": c.queue, "message_id": d.MessageId})
	ctx, cancel := context.WithTimeout(context.Background(), c.callTimeout)
	defer cancel()

	err := c.handler.Handle(ctx, d)
	if err == nil {
		_ = d.Ack(false)
		return
	}
	requeue := c.requeueOnErr && !d.Redelivered && !errors.Is(err, errPoison)
	entry.WithError(err).WithField("requeue", requeue).Warn("event handler failed")
	_ = d.Nack(false, requeue)
}

func (c *Consumer) Close() error {
	return c.ch.Close()
}
