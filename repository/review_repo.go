package repository

import (
	"context"

	"go-storefront/models"
	"go-storefront/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReviewRepository struct {
	Collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{Collection: db.Collection(ReviewsCollection)}
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID primitive.ObjectID, approvedOnly bool) ([]models.Review, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	filter := bson.M{"product_id": productID}
	if approvedOnly {
		filter["is_approved"] = true
	}
	return findAll[models.Review](ctx, r.Collection, filter, sortBy("created_at", -1))
}

func (r *ReviewRepository) Create(ctx context.Context, rv *models.Review) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	rv.ID = primitive.NewObjectID()
	_, err := r.Collection.InsertOne(ctx, rv)
	return err
}

func (r *ReviewRepository) Approve(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_approved": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.Collection, id)
}

var _ services.ReviewRepository = (*ReviewRepository)(nil)
