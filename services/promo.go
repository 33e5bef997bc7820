package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go-storefront/metrics"
	"go-storefront/models"
	"go-storefront/utils"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrPromoInvalid       = errors.New("invalid promo code")
	ErrPromoExpired       = errors.New("this promo code has expired")
	ErrPromoUsageExceeded = errors.New("this promo code has reached its usage limit")
)

// BelowMinimumError is returned when the subtotal does not reach the
// minimum order amount of a code.
type BelowMinimumError struct {
	Minimum float64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("minimum order amount for this code is %.2f €", e.Minimum)
}

// AppliedPromo is what the checkout needs from a valid code. It deliberately
// carries no record id.
type AppliedPromo struct {
	Code          string  `json:"code"`
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
}

// Discount computes the reduction on subtotal.
func (a AppliedPromo) Discount(subtotal float64) float64 {
	return Discount(a.DiscountType, a.DiscountValue, subtotal)
}

// Discount returns subtotal*value/100 for percentage codes and
// min(value, subtotal) for fixed codes. The result is never negative.
func Discount(discountType string, value, subtotal float64) float64 {
	if subtotal <= 0 || value <= 0 {
		return 0
	}
	var d float64
	switch discountType {
	case models.DiscountPercentage:
		d = money(subtotal).Mul(money(value)).Div(decimal.NewFromInt(100)).InexactFloat64()
	case models.DiscountFixed:
		d = value
	}
	return math.Min(d, subtotal)
}

// NormalizeCode trims and upper-cases a code as typed by a customer.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type PromoService struct {
	repo PromoRepository
	now  func() time.Time
}

func NewPromoService(repo PromoRepository) *PromoService {
	return &PromoService{repo: repo, now: time.Now}
}

// ApplyCode validates code against subtotal. Lookup failures of any kind are
// reported as ErrPromoInvalid.
func (s *PromoService) ApplyCode(ctx context.Context, code string, subtotal float64) (AppliedPromo, error) {
	code = NormalizeCode(code)
	if code == "" {
		metrics.PromoApplications.WithLabelValues("invalid").Inc()
		return AppliedPromo{}, ErrPromoInvalid
	}

	promo, err := s.repo.FindActiveByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			utils.Logger(ctx).WithError(err).WithField("code", code).Warn("promo lookup failed")
		}
		metrics.PromoApplications.WithLabelValues("invalid").Inc()
		return AppliedPromo{}, ErrPromoInvalid
	}

	if err := CheckEligibility(promo, subtotal, s.now()); err != nil {
		metrics.PromoApplications.WithLabelValues(outcome(err)).Inc()
		return AppliedPromo{}, err
	}

	metrics.PromoApplications.WithLabelValues("applied").Inc()
	return AppliedPromo{
		Code:          promo.Code,
		DiscountType:  promo.DiscountType,
		DiscountValue: promo.DiscountValue,
	}, nil
}

// Redeem records one use of code. It must be called before the order is
// written so that a capped code cannot be oversold.
func (s *PromoService) Redeem(ctx context.Context, code string) error {
	return s.repo.Redeem(ctx, NormalizeCode(code))
}

// Unredeem returns a use taken for an order that was not written.
func (s *PromoService) Unredeem(ctx context.Context, code string) error {
	return s.repo.Unredeem(ctx, NormalizeCode(code))
}

// CheckEligibility runs the checks in a fixed order: expiry, minimum order
// amount, usage cap. The first failure is returned.
func CheckEligibility(p *models.PromoCode, subtotal float64, now time.Time) error {
	if !p.IsActive {
		return ErrPromoInvalid
	}
	if !p.ValidFrom.IsZero() && now.Before(p.ValidFrom) {
		return ErrPromoInvalid
	}
	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return ErrPromoExpired
	}
	if subtotal < p.MinOrderAmount {
		return &BelowMinimumError{Minimum: p.MinOrderAmount}
	}
	if p.MaxUses != nil && p.CurrentUses >= *p.MaxUses {
		return ErrPromoUsageExceeded
	}
	return nil
}

func outcome(err error) string {
	var below *BelowMinimumError
	switch {
	case errors.Is(err, ErrPromoExpired):
		return "expired"
	case errors.As(err, &below):
		return "below_minimum"
	case errors.Is(err, ErrPromoUsageExceeded):
		return "usage_exceeded"
	}
	return "invalid"
}

// Admin operations

func (s *PromoService) List(ctx context.Context) ([]models.PromoCode, error) {
	return s.repo.List(ctx)
}

func (s *PromoService) Create(ctx context.Context, p *models.PromoCode) error {
	p.Code = NormalizeCode(p.Code)
	if err := validatePromo(p); err != nil {
		return err
	}
	p.CurrentUses = 0
	p.CreatedAt = s.now()
	if p.ValidFrom.IsZero() {
		p.ValidFrom = p.CreatedAt
	}
	return s.repo.Create(ctx, p)
}

func (s *PromoService) Update(ctx context.Context, p *models.PromoCode) error {
	p.Code = NormalizeCode(p.Code)
	if err := validatePromo(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *PromoService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}

func validatePromo(p *models.PromoCode) error {
	if err := Validate.Struct(p); err != nil {
		return FieldErrors(err)
	}
	if p.DiscountType == models.DiscountPercentage && p.DiscountValue > 100 {
		return ValidationErrors{"discount_value": "percentage cannot exceed 100"}
	}
	if p.ValidUntil != nil && !p.ValidFrom.IsZero() && p.ValidUntil.Before(p.ValidFrom) {
		return ValidationErrors{"valid_until": "must be after valid_from"}
	}
	return nil
}
