package repository

import (
	"context"
	"errors"
	"time"

	"go-storefront/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	ProductsCollection   = "products"
	CategoriesCollection = "categories"
	PromoCollection      = "promo_codes"
	ShippingCollection   = "shipping_options"
	OrdersCollection     = "orders"
	PaymentsCollection   = "payments"
	UsersCollection      = "users"
	WishlistsCollection  = "wishlists"
	ReviewsCollection    = "reviews"
)

const opTimeout = 5 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}

// mapErr turns a missing document into services.ErrNotFound.
func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return services.ErrNotFound
	}
	return err
}

// findAll decodes every document matching filter. It never returns a nil
// slice so handlers encode an empty list as [].
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func sortBy(field string, dir int) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: dir}})
}

// EnsureIndexes creates the unique indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string]mongo.IndexModel{
		UsersCollection:      {Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		PromoCollection:      {Keys: bson.D{{Key: "code", Value: 1}}, Options: unique},
		CategoriesCollection: {Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		OrdersCollection:     {Keys: bson.D{{Key: "number", Value: 1}}, Options: unique},
		WishlistsCollection:  {Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}}, Options: unique},
		ReviewsCollection:    {Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	for name, model := range indexes {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return err
		}
	}
	return nil
}
