package repository

import (
	"context"

	"go-storefront/models"
	"go-storefront/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ShippingRepository struct {
	Collection *mongo.Collection
}

func NewShippingRepository(db *mongo.Database) *ShippingRepository {
	return &ShippingRepository{Collection: db.Collection(ShippingCollection)}
}

func (r *ShippingRepository) List(ctx context.Context, activeOnly bool) ([]models.ShippingOption, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	return findAll[models.ShippingOption](ctx, r.Collection, filter, sortBy("sort_order", 1))
}

func (r *ShippingRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.ShippingOption, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var o models.ShippingOption
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

func (r *ShippingRepository) Create(ctx context.Context, o *models.ShippingOption) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	o.ID = primitive.NewObjectID()
	_, err := r.Collection.InsertOne(ctx, o)
	return err
}

func (r *ShippingRepository) Update(ctx context.Context, o *models.ShippingOption) error {
	return replaceByID(ctx, r.Collection, o.ID, o)
}

func (r *ShippingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.Collection, id)
}

var _ services.ShippingRepository = (*ShippingRepository)(nil)
