package services

import (
	"context"
	"testing"
	"time"

	"go-storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{models.OrderStatusPending, models.OrderStatusConfirmed, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusShipped, false},
		{models.OrderStatusConfirmed, models.OrderStatusShipped, true},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusConfirmed, models.OrderStatusPending, false},
		{models.OrderStatusPending, "lost", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func seedOrder(t *testing.T, repo *fakeOrderRepo, status string) models.Order {
	t.Helper()
	o := &models.Order{Number: "SW-0000CAFE", Status: status, Shipping: validAddress()}
	require.NoError(t, repo.Create(context.Background(), o))
	return *o
}

func TestOrderService_UpdateStatusShipped(t *testing.T) {
	repo := &fakeOrderRepo{}
	notifier := &fakeNotifier{}
	events := &fakePublisher{}
	svc := NewOrderService(repo, notifier, events)
	o := seedOrder(t, repo, models.OrderStatusConfirmed)

	updated, err := svc.UpdateStatus(context.Background(), o.ID, models.OrderStatusShipped, "LP123456789FR")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
	assert.Equal(t, "LP123456789FR", updated.TrackingNumber)

	stored, err := repo.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, stored.Status)

	assert.Eventually(t, func() bool {
		return len(notifier.kinds()) == 1 && len(events.routingKeys()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"shipping_notice"}, notifier.kinds())
	assert.Equal(t, []string{EventOrderStatusChanged}, events.routingKeys())
}

func TestOrderService_UpdateStatusCancelled(t *testing.T) {
	repo := &fakeOrderRepo{}
	notifier := &fakeNotifier{}
	svc := NewOrderService(repo, notifier, nil)
	o := seedOrder(t, repo, models.OrderStatusPending)

	_, err := svc.UpdateStatus(context.Background(), o.ID, models.OrderStatusCancelled, "")
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return len(notifier.kinds()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"cancellation"}, notifier.kinds())
}

func TestOrderService_UpdateStatusRejected(t *testing.T) {
	repo := &fakeOrderRepo{}
	svc := NewOrderService(repo, &fakeNotifier{}, &fakePublisher{})
	o := seedOrder(t, repo, models.OrderStatusDelivered)

	_, err := svc.UpdateStatus(context.Background(), o.ID, models.OrderStatusCancelled, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, _ := repo.Get(context.Background(), o.ID)
	assert.Equal(t, models.OrderStatusDelivered, stored.Status)

	_, err = svc.UpdateStatus(context.Background(), primitive.NewObjectID(), models.OrderStatusShipped, "")
	assert.ErrorIs(t, err, ErrNotFound)
}
