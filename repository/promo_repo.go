package repository

import (
	"context"
	"errors"

	"go-storefront/models"
	"go-storefront/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type PromoRepository struct {
	Collection *mongo.Collection
}

func NewPromoRepository(db *mongo.Database) *PromoRepository {
	return &PromoRepository{Collection: db.Collection(PromoCollection)}
}

func (r *PromoRepository) FindActiveByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var p models.PromoCode
	if err := r.Collection.FindOne(ctx, bson.M{"code": code, "is_active": true}).Decode(&p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

// Redeem increments current_uses in a single conditional update so that two
// buyers cannot both take the last use of a capped code.
func (r *PromoRepository) Redeem(ctx context.Context, code string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"code":      code,
		"is_active": true,
		"$or": bson.A{
			bson.M{"max_uses": nil},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$current_uses", "$max_uses"}}},
		},
	}
	err := r.Collection.FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{"current_uses": 1}}).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	n, cerr := r.Collection.CountDocuments(ctx, bson.M{"code": code, "is_active": true})
	if cerr != nil {
		return cerr
	}
	if n > 0 {
		return services.ErrPromoUsageExceeded
	}
	return services.ErrNotFound
}

// Unredeem decrements current_uses, never below zero.
func (r *PromoRepository) Unredeem(ctx context.Context, code string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"code": code, "current_uses": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"current_uses": -1}},
	)
	return err
}

func (r *PromoRepository) List(ctx context.Context) ([]models.PromoCode, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findAll[models.PromoCode](ctx, r.Collection, bson.M{}, sortBy("created_at", -1))
}

func (r *PromoRepository) Create(ctx context.Context, p *models.PromoCode) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	p.ID = primitive.NewObjectID()
	_, err := r.Collection.InsertOne(ctx, p)
	return err
}

// Update rewrites everything but the usage counter, which only Redeem moves.
func (r *PromoRepository) Update(ctx context.Context, p *models.PromoCode) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"code":             p.Code,
		"discount_type":    p.DiscountType,
		"discount_value":   p.DiscountValue,
		"min_order_amount": p.MinOrderAmount,
		"max_uses":         p.MaxUses,
		"valid_from":       p.ValidFrom,
		"valid_until":      p.ValidUntil,
		"is_active":        p.IsActive,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (r *PromoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.Collection, id)
}

var _ services.PromoRepository = (*PromoRepository)(nil)
