package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-storefront/metrics"
	"go-storefront/models"
	"go-storefront/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrCartEmpty          = errors.New("cart is empty")
	ErrNoShippingOption   = errors.New("no shipping option available")
	ErrCheckoutInProgress = errors.New("checkout already in progress for this key")
)

// Event routing keys
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

const idempotencyScope = "checkout"

// Totals is the price breakdown shown on every checkout step.
type Totals struct {
	Subtotal           float64 `json:"subtotal"`
	Discount           float64 `json:"discount"`
	DiscountedSubtotal float64 `json:"discounted_subtotal"`
	Shipping           float64 `json:"shipping"`
	Total              float64 `json:"total"`
	TotalItems         int     `json:"total_items"`
}

// ComputeTotals returns subtotal - discount + shipping. The discount is
// always taken on the undiscounted subtotal and the free-shipping threshold
// is compared with the discounted one.
func ComputeTotals(items []models.CartItem, promo *AppliedPromo, option *models.ShippingOption) Totals {
	t := Totals{Subtotal: round2(Subtotal(items))}
	for _, it := range items {
		t.TotalItems += it.Quantity
	}
	if promo != nil {
		t.Discount = round2(promo.Discount(t.Subtotal))
	}
	t.DiscountedSubtotal = round2(t.Subtotal - t.Discount)
	if option != nil {
		t.Shipping = round2(ShippingCost(*option, t.DiscountedSubtotal))
	}
	t.Total = round2(t.DiscountedSubtotal + t.Shipping)
	return t
}

// CheckoutRequest is the whole checkout form as submitted on the last step.
type CheckoutRequest struct {
	Session          string
	UserID           *primitive.ObjectID
	Shipping         models.ShippingAddress
	ShippingOptionID primitive.ObjectID
	Payment          PaymentInfo
	PromoCode        string
	Currency         Currency
	IdempotencyKey   string
}

// idempotencyKey scopes the client key to the cart session, so a key sent
// from another session never replays someone else's order.
func (r CheckoutRequest) idempotencyKey() string {
	return r.Session + ":" + r.IdempotencyKey
}

// Quote is the response to a price preview.
type Quote struct {
	Items          []models.CartItem      `json:"items"`
	Promo          *AppliedPromo          `json:"promo,omitempty"`
	ShippingOption *models.ShippingOption `json:"shipping_option,omitempty"`
	Totals         Totals                 `json:"totals"`
}

type CheckoutService struct {
	carts        *CartService
	promos       *PromoService
	shipping     *ShippingService
	orders       OrderRepository
	payments     PaymentRepository
	notifier     Notifier
	events       EventPublisher
	idem         IdempotencyStore
	paymentDelay time.Duration
	now          func() time.Time

	// alertsByEvent is set when a queue consumer sends the admin alert.
	alertsByEvent bool
}

func NewCheckoutService(
	carts *CartService,
	promos *PromoService,
	shipping *ShippingService,
	orders OrderRepository,
	payments PaymentRepository,
	notifier Notifier,
	events EventPublisher,
	idem IdempotencyStore,
	paymentDelay time.Duration,
) *CheckoutService {
	return &CheckoutService{
		carts:        carts,
		promos:       promos,
		shipping:     shipping,
		orders:       orders,
		payments:     payments,
		notifier:     notifier,
		events:       events,
		idem:         idem,
		paymentDelay: paymentDelay,
		now:          time.Now,
	}
}

// Quote prices the session's cart with an optional promo code and shipping
// option. An invalid promo code is returned as an error.
func (s *CheckoutService) Quote(ctx context.Context, session, promoCode string, optionID primitive.ObjectID) (*Quote, error) {
	items := s.carts.Open(ctx, session).Items()
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	q := &Quote{Items: items}
	if strings.TrimSpace(promoCode) != "" {
		applied, err := s.promos.ApplyCode(ctx, promoCode, round2(Subtotal(items)))
		if err != nil {
			return nil, err
		}
		q.Promo = &applied
	}

	opt, err := s.shipping.Resolve(ctx, optionID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("shipping option: %w", err)
	}
	q.ShippingOption = opt
	q.Totals = ComputeTotals(items, q.Promo, opt)
	return q, nil
}

// PlaceOrder runs the three steps of the wizard over req, redeems the promo
// code, records the simulated payment, writes the order and clears the cart.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req CheckoutRequest) (placed *models.Order, err error) {
	logger := utils.Logger(ctx).WithField("session", req.Session)

	if req.IdempotencyKey != "" && s.idem != nil {
		prev, locked, err := s.replay(ctx, req.idempotencyKey())
		if prev != nil || err != nil {
			return prev, err
		}
		if locked {
			// a failed attempt must not hold the key until it expires
			defer func() {
				if placed == nil {
					if rerr := s.idem.Release(ctx, idempotencyScope, req.idempotencyKey()); rerr != nil {
						logger.WithError(rerr).Warn("idempotency key not released")
					}
				}
			}()
		}
	}

	cart := s.carts.Open(ctx, req.Session)
	items := cart.Items()
	if len(items) == 0 {
		metrics.OrdersTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrCartEmpty
	}

	w := NewWizard()
	w.now = s.now
	w.Shipping = req.Shipping
	w.Shipping.Country = strings.ToUpper(w.Shipping.Country)
	if err := w.Next(); err != nil {
		metrics.OrdersTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	option, err := s.shipping.Resolve(ctx, req.ShippingOptionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoShippingOption
		}
		return nil, fmt.Errorf("shipping option: %w", err)
	}
	w.ShippingOptionID = option.ID
	if err := w.Next(); err != nil {
		return nil, err
	}

	w.Payment = req.Payment
	if err := w.Complete(); err != nil {
		metrics.OrdersTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	var promo *AppliedPromo
	if strings.TrimSpace(req.PromoCode) != "" {
		applied, err := s.promos.ApplyCode(ctx, req.PromoCode, round2(Subtotal(items)))
		if err != nil {
			metrics.OrdersTotal.WithLabelValues("promo_rejected").Inc()
			return nil, err
		}
		promo = &applied
	}
	totals := ComputeTotals(items, promo, option)

	// payment first: an abandoned payment must not consume a capped code
	if err := s.simulatePayment(ctx); err != nil {
		return nil, err
	}

	if promo != nil {
		if err := s.promos.Redeem(ctx, promo.Code); err != nil {
			metrics.OrdersTotal.WithLabelValues("promo_rejected").Inc()
			if errors.Is(err, ErrPromoUsageExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("redeem promo: %w", err)
		}
	}

	now := s.now()
	order := &models.Order{
		Number:          newOrderNumber(),
		UserID:          req.UserID,
		Items:           items,
		Shipping:        w.Shipping,
		ShippingMethod:  option.Name,
		Subtotal:        totals.Subtotal,
		Discount:        totals.Discount,
		ShippingCost:    totals.Shipping,
		TotalAmount:     totals.Total,
		Currency:        string(currencyOrDefault(req.Currency)),
		PaymentMethod:   req.Payment.Method,
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
		DeliveryDateMin: now.AddDate(0, 0, option.DeliveryDaysMin).Format("2006-01-02"),
		DeliveryDateMax: now.AddDate(0, 0, option.DeliveryDaysMax).Format("2006-01-02"),
	}
	if promo != nil {
		order.PromoCode = promo.Code
	}
	if req.Payment.Method == models.PaymentMethodCard {
		order.PaymentStatus = models.PaymentStatusCompleted
		order.Status = models.OrderStatusConfirmed
	}

	if err := s.orders.Create(ctx, order); err != nil {
		metrics.OrdersTotal.WithLabelValues("failed").Inc()
		logger.WithError(err).Error("order insert failed")
		if promo != nil {
			if uerr := s.promos.Unredeem(context.WithoutCancel(ctx), promo.Code); uerr != nil {
				logger.WithError(uerr).WithField("code", promo.Code).Warn("promo use not returned")
			}
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.recordPayment(ctx, order, req.Payment)

	if err := cart.Clear(ctx); err != nil {
		logger.WithError(err).Warn("cart not cleared after order")
	}

	if req.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, idempotencyScope, req.idempotencyKey(), order.ID.Hex()); err != nil {
			logger.WithError(err).Warn("idempotency key not stored")
		}
	}

	metrics.OrdersTotal.WithLabelValues("placed").Inc()
	metrics.OrderAmount.Observe(order.TotalAmount)
	logger.WithFields(log.Fields{
		"order":  order.Number,
		"total":  order.TotalAmount,
		"method": order.PaymentMethod,
	}).Info("Order placed")

	s.afterPlaced(*order)
	return order, nil
}

// replay returns the order already placed under key, or takes the lock for
// a first attempt.
func (s *CheckoutService) replay(ctx context.Context, key string) (*models.Order, bool, error) {
	if id, ok, err := s.idem.Recall(ctx, idempotencyScope, key); err == nil && ok {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, false, fmt.Errorf("idempotency record: %w", err)
		}
		order, err := s.orders.Get(ctx, oid)
		return order, false, err
	}
	locked, err := s.idem.TryLock(ctx, idempotencyScope, key)
	if err != nil {
		// the store being down should not block sales
		utils.Logger(ctx).WithError(err).Warn("idempotency lock unavailable")
		return nil, false, nil
	}
	if !locked {
		return nil, false, ErrCheckoutInProgress
	}
	return nil, true, nil
}

func (s *CheckoutService) simulatePayment(ctx context.Context) error {
	if s.paymentDelay <= 0 {
		return nil
	}
	t := time.NewTimer(s.paymentDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *CheckoutService) recordPayment(ctx context.Context, order *models.Order, p PaymentInfo) {
	if s.payments == nil {
		return
	}
	payment := &models.Payment{
		OrderID:       order.ID,
		OrderNumber:   order.Number,
		TransactionID: uuid.New().String(),
		PaymentMethod: p.Method,
		Amount:        order.TotalAmount,
		Status:        order.PaymentStatus,
		CreatedAt:     order.CreatedAt,
	}
	if p.Method == models.PaymentMethodCard {
		payment.CardLast4 = p.Last4()
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		utils.Logger(ctx).WithError(err).WithField("order", order.Number).Error("payment record not saved")
	}
}

// afterPlaced sends emails and the order event in the background. Failures
// are logged only; the buyer already has the order.
func (s *CheckoutService) afterPlaced(order models.Order) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		entry := log.WithField("order", order.Number)

		if s.notifier != nil {
			notify(entry, "order_confirmation", func() error { return s.notifier.SendOrderConfirmationEmail(ctx, order) })
			if !s.alertsByEvent {
				notify(entry, "admin_alert", func() error { return s.notifier.SendAdminAlertEmail(ctx, order) })
			}
		}
		if s.events != nil {
			if err := s.events.Publish(ctx, EventOrderPlaced, order); err != nil {
				entry.WithError(err).Warn("order event not published")
			}
		}
	}()
}

func notify(entry *log.Entry, kind string, send func() error) {
	if err := send(); err != nil {
		metrics.EmailsTotal.WithLabelValues(kind, "failed").Inc()
		entry.WithError(err).WithField("kind", kind).Warn("email not sent")
		return
	}
	metrics.EmailsTotal.WithLabelValues(kind, "sent").Inc()
}

func newOrderNumber() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "SW-" + strings.ToUpper(id[:8])
}

// DeferAdminAlerts stops PlaceOrder from emailing the admin directly; the
// alert is sent by the consumer of the order.placed event instead.
func (s *CheckoutService) DeferAdminAlerts() {
	s.alertsByEvent = true
}

func currencyOrDefault(c Currency) Currency {
	if c == XOF {
		return XOF
	}
	return EUR
}
