package repository

import (
	"context"

	"go-storefront/models"
	"go-storefront/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProductRepository struct {
	Collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{Collection: db.Collection(ProductsCollection)}
}

func (r *ProductRepository) List(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	return findAll[models.Product](ctx, r.Collection, filter, sortBy("created_at", -1))
}

func (r *ProductRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var p models.Product
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	p.ID = primitive.NewObjectID()
	_, err := r.Collection.InsertOne(ctx, p)
	return err
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	return replaceByID(ctx, r.Collection, p.ID, p)
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.Collection, id)
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return r.Collection.CountDocuments(ctx, bson.M{"is_active": true})
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func replaceByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, doc any) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

var _ services.ProductRepository = (*ProductRepository)(nil)
