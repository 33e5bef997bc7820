package repository

import (
	"context"

	"go-storefront/models"
	"go-storefront/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CategoryRepository struct {
	Collection *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{Collection: db.Collection(CategoriesCollection)}
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findAll[models.Category](ctx, r.Collection, bson.M{}, sortBy("sort_order", 1))
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var c models.Category
	if err := r.Collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&c); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	c.ID = primitive.NewObjectID()
	_, err := r.Collection.InsertOne(ctx, c)
	return err
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	return replaceByID(ctx, r.Collection, c.ID, c)
}

func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.Collection, id)
}

var _ services.CategoryRepository = (*CategoryRepository)(nil)
