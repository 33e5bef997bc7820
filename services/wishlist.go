package services

import (
	"context"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistEntry is a saved product with its current catalog data.
type WishlistEntry struct {
	models.WishlistItem
	Product models.Product `json:"product"`
}

type WishlistService struct {
	items    WishlistRepository
	products ProductRepository
}

func NewWishlistService(items WishlistRepository, products ProductRepository) *WishlistService {
	return &WishlistService{items: items, products: products}
}

// List returns the saved products that are still on sale in the catalog.
func (s *WishlistService) List(ctx context.Context, userID primitive.ObjectID) ([]WishlistEntry, error) {
	items, err := s.items.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]WishlistEntry, 0, len(items))
	for _, it := range items {
		p, err := s.products.Get(ctx, it.ProductID)
		if err != nil || !p.IsActive {
			continue
		}
		out = append(out, WishlistEntry{WishlistItem: it, Product: *p})
	}
	return out, nil
}

// Add saves a product; adding it twice keeps a single entry.
func (s *WishlistService) Add(ctx context.Context, userID, productID primitive.ObjectID) error {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return ErrNotFound
	}
	return s.items.Add(ctx, userID, productID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID primitive.ObjectID) error {
	return s.items.Remove(ctx, userID, productID)
}
