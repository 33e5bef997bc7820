package services

import (
	"context"
	"errors"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned by repositories when no record matches.
var ErrNotFound = errors.New("not found")

type ProductRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Product, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type PromoRepository interface {
	// FindActiveByCode returns the active record whose code equals code.
	FindActiveByCode(ctx context.Context, code string) (*models.PromoCode, error)
	// Redeem increments current_uses unless the cap is already reached, in
	// which case it returns ErrPromoUsageExceeded.
	Redeem(ctx context.Context, code string) error
	// Unredeem gives back one use taken by Redeem.
	Unredeem(ctx context.Context, code string) error
	List(ctx context.Context) ([]models.PromoCode, error)
	Create(ctx context.Context, p *models.PromoCode) error
	Update(ctx context.Context, p *models.PromoCode) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ShippingRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.ShippingOption, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.ShippingOption, error)
	Create(ctx context.Context, o *models.ShippingOption) error
	Update(ctx context.Context, o *models.ShippingOption) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	List(ctx context.Context, status string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status, tracking string) error
	Stats(ctx context.Context) (models.OrderStats, error)
	CountByUser(ctx context.Context) (map[primitive.ObjectID]int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	List(ctx context.Context) ([]models.Payment, error)
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, phone string, addr models.Address) error
	ListCustomers(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

type WishlistRepository interface {
	List(ctx context.Context, userID primitive.ObjectID) ([]models.WishlistItem, error)
	Add(ctx context.Context, userID, productID primitive.ObjectID) error
	Remove(ctx context.Context, userID, productID primitive.ObjectID) error
}

type ReviewRepository interface {
	ListByProduct(ctx context.Context, productID primitive.ObjectID, approvedOnly bool) ([]models.Review, error)
	Create(ctx context.Context, r *models.Review) error
	Approve(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CartStorage persists the serialized line items of a cart session.
// Load returns nil, nil when nothing is stored under key.
type CartStorage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
	Release(ctx context.Context, scope, key string) error
}

// Notifier sends the transactional emails triggered by orders.
type Notifier interface {
	SendOrderConfirmationEmail(ctx context.Context, order models.Order) error
	SendAdminAlertEmail(ctx context.Context, order models.Order) error
	SendShippingNoticeEmail(ctx context.Context, order models.Order) error
	SendCancellationEmail(ctx context.Context, order models.Order) error
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
