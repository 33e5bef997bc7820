package services

import (
	"context"
	"errors"
	"sync"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memCartStorage struct {
	mu      sync.Mutex
	data    map[string][]byte
	saveErr error
	loadErr error
}

func newMemCartStorage() *memCartStorage {
	return &memCartStorage{data: map[string][]byte{}}
}

func (m *memCartStorage) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[key], nil
}

func (m *memCartStorage) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = data
	return nil
}

type fakePromoRepo struct {
	mu     sync.Mutex
	codes  map[string]*models.PromoCode
	getErr error
}

func newFakePromoRepo(codes ...models.PromoCode) *fakePromoRepo {
	r := &fakePromoRepo{codes: map[string]*models.PromoCode{}}
	for i := range codes {
		c := codes[i]
		r.codes[c.Code] = &c
	}
	return r
}

func (r *fakePromoRepo) FindActiveByCode(_ context.Context, code string) (*models.PromoCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	c, ok := r.codes[code]
	if !ok || !c.IsActive {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakePromoRepo) Redeem(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[code]
	if !ok {
		return ErrNotFound
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return ErrPromoUsageExceeded
	}
	c.CurrentUses++
	return nil
}

func (r *fakePromoRepo) Unredeem(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.codes[code]; ok && c.CurrentUses > 0 {
		c.CurrentUses--
	}
	return nil
}

func (r *fakePromoRepo) List(context.Context) ([]models.PromoCode, error) { return nil, nil }
func (r *fakePromoRepo) Create(_ context.Context, p *models.PromoCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = primitive.NewObjectID()
	cp := *p
	r.codes[p.Code] = &cp
	return nil
}
func (r *fakePromoRepo) Update(context.Context, *models.PromoCode) error  { return nil }
func (r *fakePromoRepo) Delete(context.Context, primitive.ObjectID) error { return nil }

type fakeShippingRepo struct {
	options []models.ShippingOption
}

func (r *fakeShippingRepo) List(_ context.Context, activeOnly bool) ([]models.ShippingOption, error) {
	var out []models.ShippingOption
	for _, o := range r.options {
		if !activeOnly || o.IsActive {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeShippingRepo) Get(_ context.Context, id primitive.ObjectID) (*models.ShippingOption, error) {
	for _, o := range r.options {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeShippingRepo) Create(_ context.Context, o *models.ShippingOption) error {
	o.ID = primitive.NewObjectID()
	r.options = append(r.options, *o)
	return nil
}
func (r *fakeShippingRepo) Update(context.Context, *models.ShippingOption) error { return nil }
func (r *fakeShippingRepo) Delete(context.Context, primitive.ObjectID) error     { return nil }

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    []models.Order
	createErr error
}

func (r *fakeOrderRepo) Create(_ context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	o.ID = primitive.NewObjectID()
	r.orders = append(r.orders, *o)
	return nil
}

func (r *fakeOrderRepo) Get(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeOrderRepo) ListByUser(context.Context, primitive.ObjectID) ([]models.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) List(context.Context, string) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Order(nil), r.orders...), nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status, tracking string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders[i].Status = status
			r.orders[i].TrackingNumber = tracking
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeOrderRepo) Stats(context.Context) (models.OrderStats, error) {
	return models.OrderStats{}, nil
}

func (r *fakeOrderRepo) CountByUser(context.Context) (map[primitive.ObjectID]int64, error) {
	return map[primitive.ObjectID]int64{}, nil
}

func (r *fakeOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []models.Payment
}

func (r *fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, *p)
	return nil
}

func (r *fakePaymentRepo) List(context.Context) ([]models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Payment(nil), r.payments...), nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *fakeNotifier) record(kind string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, kind)
	return nil
}

func (n *fakeNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

func (n *fakeNotifier) SendOrderConfirmationEmail(context.Context, models.Order) error {
	return n.record("confirmation")
}
func (n *fakeNotifier) SendAdminAlertEmail(context.Context, models.Order) error {
	return n.record("admin_alert")
}
func (n *fakeNotifier) SendShippingNoticeEmail(context.Context, models.Order) error {
	return n.record("shipping_notice")
}
func (n *fakeNotifier) SendCancellationEmail(context.Context, models.Order) error {
	return n.record("cancellation")
}

type fakePublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *fakePublisher) routingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

type memIdempotency struct {
	mu     sync.Mutex
	locks  map[string]bool
	values map[string]string
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{locks: map[string]bool{}, values: map[string]string{}}
}

func (m *memIdempotency) TryLock(_ context.Context, scope, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := scope + ":" + key
	if m.locks[k] {
		return false, nil
	}
	m.locks[k] = true
	return true, nil
}

func (m *memIdempotency) Remember(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[scope+":"+key] = value
	return nil
}

func (m *memIdempotency) Recall(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[scope+":"+key]
	return v, ok, nil
}

func (m *memIdempotency) Release(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, scope+":"+key)
	return nil
}

var errBackend = errors.New("backend unavailable")

type fakeProductRepo struct {
	mu       sync.Mutex
	products []models.Product
}

func (r *fakeProductRepo) List(_ context.Context, activeOnly bool) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, p := range r.products {
		if !activeOnly || p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Get(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = primitive.NewObjectID()
	r.products = append(r.products, *p)
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == p.ID {
			r.products[i] = *p
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeProductRepo) Delete(context.Context, primitive.ObjectID) error { return nil }

func (r *fakeProductRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

type fakeCategoryRepo struct {
	categories []models.Category
}

func (r *fakeCategoryRepo) List(context.Context) ([]models.Category, error) {
	return append([]models.Category(nil), r.categories...), nil
}

func (r *fakeCategoryRepo) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			cp := c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *models.Category) error {
	c.ID = primitive.NewObjectID()
	r.categories = append(r.categories, *c)
	return nil
}
func (r *fakeCategoryRepo) Update(context.Context, *models.Category) error   { return nil }
func (r *fakeCategoryRepo) Delete(context.Context, primitive.ObjectID) error { return nil }

type fakeReviewRepo struct {
	reviews []models.Review
}

func (r *fakeReviewRepo) ListByProduct(_ context.Context, productID primitive.ObjectID, approvedOnly bool) ([]models.Review, error) {
	var out []models.Review
	for _, rv := range r.reviews {
		if rv.ProductID == productID && (!approvedOnly || rv.IsApproved) {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) Create(_ context.Context, rv *models.Review) error {
	rv.ID = primitive.NewObjectID()
	r.reviews = append(r.reviews, *rv)
	return nil
}

func (r *fakeReviewRepo) Approve(_ context.Context, id primitive.ObjectID) error {
	for i := range r.reviews {
		if r.reviews[i].ID == id {
			r.reviews[i].IsApproved = true
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeReviewRepo) Delete(context.Context, primitive.ObjectID) error { return nil }

type fakeUserRepo struct {
	mu    sync.Mutex
	users []models.User
}

func (r *fakeUserRepo) find(match func(models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) FindByVerificationToken(_ context.Context, token string) (*models.User, error) {
	return r.find(func(u models.User) bool { return token != "" && u.VerificationToken == token })
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = primitive.NewObjectID()
	r.users = append(r.users, *u)
	return nil
}

func (r *fakeUserRepo) update(id primitive.ObjectID, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == id {
			fn(&r.users[i])
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, id primitive.ObjectID) error {
	return r.update(id, func(u *models.User) {
		u.IsVerified = true
		u.VerificationToken = ""
	})
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, name, phone string, addr models.Address) error {
	return r.update(id, func(u *models.User) {
		u.Name = name
		u.Phone = phone
		u.Address = addr
	})
}

func (r *fakeUserRepo) ListCustomers(context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if u.Role == models.RoleCustomer {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	users, _ := r.ListCustomers(ctx)
	return int64(len(users)), nil
}

type fakeWishlistRepo struct {
	items []models.WishlistItem
}

func (r *fakeWishlistRepo) List(_ context.Context, userID primitive.ObjectID) ([]models.WishlistItem, error) {
	var out []models.WishlistItem
	for _, it := range r.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeWishlistRepo) Add(_ context.Context, userID, productID primitive.ObjectID) error {
	for _, it := range r.items {
		if it.UserID == userID && it.ProductID == productID {
			return nil
		}
	}
	r.items = append(r.items, models.WishlistItem{ID: primitive.NewObjectID(), UserID: userID, ProductID: productID})
	return nil
}

func (r *fakeWishlistRepo) Remove(_ context.Context, userID, productID primitive.ObjectID) error {
	for i, it := range r.items {
		if it.UserID == userID && it.ProductID == productID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type recordingAccountMailer struct {
	mu       sync.Mutex
	verified []string
	welcomed []string
}

func (m *recordingAccountMailer) SendVerificationEmail(_ context.Context, to, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verified = append(m.verified, to)
	return nil
}

func (m *recordingAccountMailer) SendWelcomeEmail(_ context.Context, to, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomed = append(m.welcomed, to)
	return nil
}
