package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go-storefront/metrics"
	"go-storefront/models"
	"go-storefront/utils"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const cartKeyPrefix = "cart:"

// CartService opens carts persisted in a CartStorage.
type CartService struct {
	storage CartStorage
}

func NewCartService(storage CartStorage) *CartService {
	return &CartService{storage: storage}
}

// Open loads the cart of a session. Stored data is read once here; if it is
// missing or cannot be decoded the cart starts empty.
func (s *CartService) Open(ctx context.Context, session string) *Cart {
	c := &Cart{storage: s.storage, key: cartKeyPrefix + session}

	raw, err := s.storage.Load(ctx, c.key)
	if err != nil {
		utils.Logger(ctx).WithError(err).WithField("session", session).Warn("cart load failed, starting empty")
		return c
	}
	if len(raw) == 0 {
		return c
	}
	var items []models.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		utils.Logger(ctx).WithError(err).WithField("session", session).Warn("discarding unreadable cart")
		return c
	}
	c.items = items
	return c
}

// Cart is an ordered list of line items with at most one line per
// (product, size, color). Every mutation rewrites the whole list to storage.
type Cart struct {
	mu      sync.Mutex
	storage CartStorage
	key     string
	items   []models.CartItem
	open    bool
}

// AddItem merges quantity into the matching line or appends a new one, and
// opens the cart panel.
func (c *Cart) AddItem(ctx context.Context, product models.Product, size, color string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open = true
	if i := c.indexOf(product.ID, size, color); i >= 0 {
		c.items[i].Quantity += quantity
	} else {
		c.items = append(c.items, models.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Slug:      product.Slug,
			Image:     product.MainImage(),
			Price:     product.EffectivePrice(),
			Size:      size,
			Color:     color,
			Quantity:  quantity,
		})
	}
	metrics.CartMutations.WithLabelValues("add").Inc()
	return c.persist(ctx)
}

// RemoveItem deletes the matching line; it is a no-op when there is none.
func (c *Cart) RemoveItem(ctx context.Context, productID primitive.ObjectID, size, color string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remove(ctx, productID, size, color)
}

// UpdateQuantity overwrites the quantity of a line; zero or less removes it.
func (c *Cart) UpdateQuantity(ctx context.Context, productID primitive.ObjectID, size, color string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		return c.remove(ctx, productID, size, color)
	}
	i := c.indexOf(productID, size, color)
	if i < 0 {
		return nil
	}
	c.items[i].Quantity = quantity
	metrics.CartMutations.WithLabelValues("update").Inc()
	return c.persist(ctx)
}

// Clear empties the cart and closes the panel.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.open = false
	metrics.CartMutations.WithLabelValues("clear").Inc()
	return c.persist(ctx)
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Subtotal(c.items)
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

// IsOpen reports whether the cart panel should be shown.
func (c *Cart) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Subtotal sums price times quantity over items.
func Subtotal(items []models.CartItem) float64 {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(money(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.InexactFloat64()
}

func (c *Cart) remove(ctx context.Context, productID primitive.ObjectID, size, color string) error {
	i := c.indexOf(productID, size, color)
	if i < 0 {
		return nil
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	metrics.CartMutations.WithLabelValues("remove").Inc()
	return c.persist(ctx)
}

func (c *Cart) indexOf(productID primitive.ObjectID, size, color string) int {
	for i, it := range c.items {
		if it.Matches(productID, size, color) {
			return i
		}
	}
	return -1
}

func (c *Cart) persist(ctx context.Context) error {
	items := c.items
	if items == nil {
		items = []models.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := c.storage.Save(ctx, c.key, raw); err != nil {
		utils.Logger(ctx).WithError(err).WithField("key", c.key).Error("cart save failed")
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
