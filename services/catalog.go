package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sort orders accepted by the catalog
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// ProductFilter narrows the catalog listing. Zero values match everything.
type ProductFilter struct {
	CategoryID primitive.ObjectID
	Size       string
	Color      string
	MinPrice   *float64
	MaxPrice   *float64
	Search     string
	Featured   bool
	New        bool
	OnSale     bool
	Sort       string
}

func (f ProductFilter) match(p models.Product) bool {
	if !f.CategoryID.IsZero() && p.CategoryID != f.CategoryID {
		return false
	}
	if f.Size != "" && !containsFold(p.Sizes, f.Size) {
		return false
	}
	if f.Color != "" && !containsFold(p.Colors, f.Color) {
		return false
	}
	price := p.EffectivePrice()
	if f.MinPrice != nil && price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && price > *f.MaxPrice {
		return false
	}
	if f.Featured && !p.IsFeatured {
		return false
	}
	if f.New && !p.IsNew {
		return false
	}
	if f.OnSale && price >= p.Price {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	return true
}

// FilterProducts returns the products matching f, sorted by f.Sort.
func FilterProducts(products []models.Product, f ProductFilter) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.match(p) {
			out = append(out, p)
		}
	}
	SortProducts(out, f.Sort)
	return out
}

// SortProducts sorts in place; unknown orders fall back to newest first.
func SortProducts(products []models.Product, order string) {
	var less func(a, b models.Product) bool
	switch order {
	case SortPriceAsc:
		less = func(a, b models.Product) bool { return a.EffectivePrice() < b.EffectivePrice() }
	case SortPriceDesc:
		less = func(a, b models.Product) bool { return a.EffectivePrice() > b.EffectivePrice() }
	case SortName:
		less = func(a, b models.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		less = func(a, b models.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}

func containsFold(values []string, v string) bool {
	for _, s := range values {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

type CatalogService struct {
	products   ProductRepository
	categories CategoryRepository
}

func NewCatalogService(products ProductRepository, categories CategoryRepository) *CatalogService {
	return &CatalogService{products: products, categories: categories}
}

// Products lists active products. categorySlug, when set, is resolved to a
// category id first; an unknown slug yields an empty list.
func (s *CatalogService) Products(ctx context.Context, categorySlug string, f ProductFilter) ([]models.Product, error) {
	if categorySlug != "" {
		cat, err := s.categories.GetBySlug(ctx, categorySlug)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return []models.Product{}, nil
			}
			return nil, err
		}
		f.CategoryID = cat.ID
	}
	all, err := s.products.List(ctx, true)
	if err != nil {
		return nil, err
	}
	return FilterProducts(all, f), nil
}

// Product returns an active product by id.
func (s *CatalogService) Product(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrNotFound
	}
	return p, nil
}

// AllProducts lists the whole catalog, inactive products included.
func (s *CatalogService) AllProducts(ctx context.Context) ([]models.Product, error) {
	all, err := s.products.List(ctx, false)
	if err != nil {
		return nil, err
	}
	SortProducts(all, SortNewest)
	return all, nil
}

// Slugify lower-cases name and joins its words with dashes.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := Validate.Struct(p); err != nil {
		return FieldErrors(err)
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	return s.products.Create(ctx, p)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *models.Product) error {
	if err := Validate.Struct(p); err != nil {
		return FieldErrors(err)
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	return s.products.Update(ctx, p)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	return s.products.Delete(ctx, id)
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].SortOrder < cats[j].SortOrder })
	return cats, nil
}

func (s *CatalogService) Category(ctx context.Context, slug string) (*models.Category, error) {
	return s.categories.GetBySlug(ctx, slug)
}

func (s *CatalogService) SaveCategory(ctx context.Context, c *models.Category) error {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if err := Validate.Struct(c); err != nil {
		return FieldErrors(err)
	}
	if c.ID.IsZero() {
		return s.categories.Create(ctx, c)
	}
	return s.categories.Update(ctx, c)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	return s.categories.Delete(ctx, id)
}
