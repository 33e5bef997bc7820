package repository

import (
	"context"
	"time"

	"go-storefront/models"
	"go-storefront/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WishlistRepository struct {
	Collection *mongo.Collection
}

func NewWishlistRepository(db *mongo.Database) *WishlistRepository {
	return &WishlistRepository{Collection: db.Collection(WishlistsCollection)}
}

func (r *WishlistRepository) List(ctx context.Context, userID primitive.ObjectID) ([]models.WishlistItem, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findAll[models.WishlistItem](ctx, r.Collection, bson.M{"user_id": userID}, sortBy("added_at", -1))
}

// Add upserts so that saving a product twice keeps one entry.
func (r *WishlistRepository) Add(ctx context.Context, userID, productID primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	filter := bson.M{"user_id": userID, "product_id": productID}
	update := bson.M{"$setOnInsert": bson.M{"added_at": time.Now()}}
	_, err := r.Collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, productID primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := r.Collection.DeleteOne(ctx, bson.M{"user_id": userID, "product_id": productID})
	return err
}

var _ services.WishlistRepository = (*WishlistRepository)(nil)
