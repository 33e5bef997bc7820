package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-storefront/models"
	"go-storefront/utils"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

// transitions lists the statuses reachable from each status.
var transitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:   {models.OrderStatusDelivered, models.OrderStatusCancelled},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type OrderService struct {
	orders   OrderRepository
	notifier Notifier
	events   EventPublisher
}

func NewOrderService(orders OrderRepository, notifier Notifier, events EventPublisher) *OrderService {
	return &OrderService{orders: orders, notifier: notifier, events: events}
}

func (s *OrderService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) List(ctx context.Context, status string) ([]models.Order, error) {
	return s.orders.List(ctx, status)
}

// StatusChange is the payload of the order.status_changed event.
type StatusChange struct {
	OrderID string    `json:"order_id"`
	Number  string    `json:"number"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	At      time.Time `json:"at"`
}

// UpdateStatus moves an order to status and notifies the buyer when the
// parcel ships or the order is cancelled.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status, tracking string) (*models.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}
	if err := s.orders.UpdateStatus(ctx, id, status, tracking); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	change := StatusChange{OrderID: id.Hex(), Number: order.Number, From: order.Status, To: status, At: time.Now()}
	order.Status = status
	if tracking != "" {
		order.TrackingNumber = tracking
	}
	utils.Logger(ctx).WithFields(log.Fields{"order": order.Number, "from": change.From, "to": status}).Info("Order status updated")

	go s.afterStatusChange(*order, change)
	return order, nil
}

func (s *OrderService) afterStatusChange(order models.Order, change StatusChange) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	entry := log.WithField("order", order.Number)

	if s.notifier != nil {
		switch order.Status {
		case models.OrderStatusShipped:
			notify(entry, "shipping_notice", func() error { return s.notifier.SendShippingNoticeEmail(ctx, order) })
		case models.OrderStatusCancelled:
			notify(entry, "cancellation", func() error { return s.notifier.SendCancellationEmail(ctx, order) })
		}
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, EventOrderStatusChanged, change); err != nil {
			entry.WithError(err).Warn("status event not published")
		}
	}
}
