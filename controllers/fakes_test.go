package controllers

import (
	"context"
	"strings"
	"sync"

	"go-storefront/models"
	"go-storefront/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubProducts struct {
	products []models.Product
}

func (s *stubProducts) List(_ context.Context, activeOnly bool) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if !activeOnly || p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProducts) Get(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, services.ErrNotFound
}

func (s *stubProducts) Create(_ context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	s.products = append(s.products, *p)
	return nil
}
func (s *stubProducts) Update(context.Context, *models.Product) error     { return nil }
func (s *stubProducts) Delete(context.Context, primitive.ObjectID) error { return nil }
func (s *stubProducts) Count(context.Context) (int64, error)             { return int64(len(s.products)), nil }

type stubCategories struct{}

func (stubCategories) List(context.Context) ([]models.Category, error) { return nil, nil }
func (stubCategories) GetBySlug(context.Context, string) (*models.Category, error) {
	return nil, services.ErrNotFound
}
func (stubCategories) Create(context.Context, *models.Category) error   { return nil }
func (stubCategories) Update(context.Context, *models.Category) error   { return nil }
func (stubCategories) Delete(context.Context, primitive.ObjectID) error { return nil }

type stubPromos struct {
	mu    sync.Mutex
	codes map[string]*models.PromoCode
}

func (s *stubPromos) FindActiveByCode(_ context.Context, code string) (*models.PromoCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.codes[strings.ToUpper(code)]; ok && c.IsActive {
		cp := *c
		return &cp, nil
	}
	return nil, services.ErrNotFound
}

func (s *stubPromos) Redeem(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[code]
	if !ok {
		return services.ErrNotFound
	}
	c.CurrentUses++
	return nil
}

func (s *stubPromos) Unredeem(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.codes[code]; ok && c.CurrentUses > 0 {
		c.CurrentUses--
	}
	return nil
}

func (s *stubPromos) List(context.Context) ([]models.PromoCode, error)   { return nil, nil }
func (s *stubPromos) Create(context.Context, *models.PromoCode) error    { return nil }
func (s *stubPromos) Update(context.Context, *models.PromoCode) error    { return nil }
func (s *stubPromos) Delete(context.Context, primitive.ObjectID) error   { return nil }

type stubShipping struct {
	options []models.ShippingOption
}

func (s *stubShipping) List(context.Context, bool) ([]models.ShippingOption, error) {
	return append([]models.ShippingOption(nil), s.options...), nil
}

func (s *stubShipping) Get(_ context.Context, id primitive.ObjectID) (*models.ShippingOption, error) {
	for _, o := range s.options {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, services.ErrNotFound
}
func (s *stubShipping) Create(context.Context, *models.ShippingOption) error { return nil }
func (s *stubShipping) Update(context.Context, *models.ShippingOption) error { return nil }
func (s *stubShipping) Delete(context.Context, primitive.ObjectID) error     { return nil }

type stubOrders struct {
	mu     sync.Mutex
	orders []models.Order
}

func (s *stubOrders) Create(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = primitive.NewObjectID()
	s.orders = append(s.orders, *o)
	return nil
}

func (s *stubOrders) Get(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, services.ErrNotFound
}

func (s *stubOrders) ListByUser(context.Context, primitive.ObjectID) ([]models.Order, error) {
	return nil, nil
}
func (s *stubOrders) List(context.Context, string) ([]models.Order, error) { return nil, nil }
func (s *stubOrders) UpdateStatus(context.Context, primitive.ObjectID, string, string) error {
	return nil
}
func (s *stubOrders) Stats(context.Context) (models.OrderStats, error) { return models.OrderStats{}, nil }
func (s *stubOrders) CountByUser(context.Context) (map[primitive.ObjectID]int64, error) {
	return nil, nil
}

type nopNotifier struct{}

func (nopNotifier) SendOrderConfirmationEmail(context.Context, models.Order) error { return nil }
func (nopNotifier) SendAdminAlertEmail(context.Context, models.Order) error        { return nil }
func (nopNotifier) SendShippingNoticeEmail(context.Context, models.Order) error    { return nil }
func (nopNotifier) SendCancellationEmail(context.Context, models.Order) error      { return nil }

type fixedDetector struct {
	code  services.Currency
	calls int
}

func (d *fixedDetector) DetectCurrency(context.Context, string) services.Currency {
	d.calls++
	return d.code
}

type stubPayments struct {
	mu       sync.Mutex
	payments []models.Payment
}

func (s *stubPayments) Create(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, *p)
	return nil
}

func (s *stubPayments) List(context.Context) ([]models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Payment(nil), s.payments...), nil
}

type nopEvents struct{}

func (nopEvents) Publish(context.Context, string, any) error { return nil }
