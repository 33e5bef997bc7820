package services

import (
	"context"
	"math"
	"strings"
	"time"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewSummary is the public view of a product's reviews.
type ReviewSummary struct {
	Reviews []models.Review `json:"reviews"`
	Count   int             `json:"count"`
	Average float64         `json:"average"`
}

// AverageRating returns the mean rating rounded to one decimal, 0 for none.
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

type ReviewService struct {
	reviews  ReviewRepository
	products ProductRepository
}

func NewReviewService(reviews ReviewRepository, products ProductRepository) *ReviewService {
	return &ReviewService{reviews: reviews, products: products}
}

func (s *ReviewService) Summary(ctx context.Context, productID primitive.ObjectID) (ReviewSummary, error) {
	reviews, err := s.reviews.ListByProduct(ctx, productID, true)
	if err != nil {
		return ReviewSummary{}, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return ReviewSummary{Reviews: reviews, Count: len(reviews), Average: AverageRating(reviews)}, nil
}

// Submit stores a review awaiting moderation.
func (s *ReviewService) Submit(ctx context.Context, r *models.Review) error {
	r.Comment = strings.TrimSpace(r.Comment)
	if err := Validate.Struct(r); err != nil {
		return FieldErrors(err)
	}
	if _, err := s.products.Get(ctx, r.ProductID); err != nil {
		return err
	}
	r.IsApproved = false
	r.CreatedAt = time.Now()
	return s.reviews.Create(ctx, r)
}

func (s *ReviewService) Approve(ctx context.Context, id primitive.ObjectID) error {
	return s.reviews.Approve(ctx, id)
}

func (s *ReviewService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.reviews.Delete(ctx, id)
}
