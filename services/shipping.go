package services

import (
	"context"
	"sort"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShippingCost is free when the option has a threshold and the discounted
// subtotal reaches it, and the flat price otherwise.
func ShippingCost(option models.ShippingOption, discountedSubtotal float64) float64 {
	if option.FreeThreshold != nil && discountedSubtotal >= *option.FreeThreshold {
		return 0
	}
	return option.Price
}

type ShippingService struct {
	repo ShippingRepository
}

func NewShippingService(repo ShippingRepository) *ShippingService {
	return &ShippingService{repo: repo}
}

// Active lists the options offered at checkout, by sort order then price.
func (s *ShippingService) Active(ctx context.Context) ([]models.ShippingOption, error) {
	opts, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	sortOptions(opts)
	return opts, nil
}

// Resolve returns the active option with id, or the default one when id is
// the zero value. ErrNotFound is returned when nothing matches.
func (s *ShippingService) Resolve(ctx context.Context, id primitive.ObjectID) (*models.ShippingOption, error) {
	if !id.IsZero() {
		opt, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !opt.IsActive {
			return nil, ErrNotFound
		}
		return opt, nil
	}
	opts, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, ErrNotFound
	}
	return &opts[0], nil
}

func (s *ShippingService) List(ctx context.Context) ([]models.ShippingOption, error) {
	opts, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	sortOptions(opts)
	return opts, nil
}

func (s *ShippingService) Create(ctx context.Context, o *models.ShippingOption) error {
	if err := Validate.Struct(o); err != nil {
		return FieldErrors(err)
	}
	return s.repo.Create(ctx, o)
}

func (s *ShippingService) Update(ctx context.Context, o *models.ShippingOption) error {
	if err := Validate.Struct(o); err != nil {
		return FieldErrors(err)
	}
	return s.repo.Update(ctx, o)
}

func (s *ShippingService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}

func sortOptions(opts []models.ShippingOption) {
	sort.SliceStable(opts, func(i, j int) bool {
		if opts[i].SortOrder != opts[j].SortOrder {
			return opts[i].SortOrder < opts[j].SortOrder
		}
		return opts[i].Price < opts[j].Price
	})
}
