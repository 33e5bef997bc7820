package repository

import (
	"context"
	"time"

	"go-storefront/models"
	"go-storefront/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type OrderRepository struct {
	Collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{Collection: db.Collection(OrdersCollection)}
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	o.ID = primitive.NewObjectID()
	_, err := r.Collection.InsertOne(ctx, o)
	return err
}

func (r *OrderRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var o models.Order
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findAll[models.Order](ctx, r.Collection, bson.M{"user_id": userID}, sortBy("created_at", -1))
}

// List returns orders newest first, optionally only those with status.
func (r *OrderRepository) List(ctx context.Context, status string) ([]models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return findAll[models.Order](ctx, r.Collection, filter, sortBy("created_at", -1))
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status, tracking string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	set := bson.M{"status": status, "updated_at": time.Now()}
	if tracking != "" {
		set["tracking_number"] = tracking
	}
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

// Stats sums revenue over orders that were not cancelled.
func (r *OrderRepository) Stats(ctx context.Context) (models.OrderStats, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"revenue": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$ne": bson.A{"$status", models.OrderStatusCancelled}}, "$total_amount", 0,
			}}},
			"order_count": bson.M{"$sum": 1},
			"pending_orders": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.OrderStatusPending}}, 1, 0,
			}}},
		}}},
	}
	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.OrderStats{}, err
	}
	defer cursor.Close(ctx)

	var stats models.OrderStats
	if cursor.Next(ctx) {
		if err := cursor.Decode(&stats); err != nil {
			return models.OrderStats{}, err
		}
	}
	return stats, cursor.Err()
}

func (r *OrderRepository) CountByUser(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{"_id": "$user_id", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		UserID primitive.ObjectID `bson:"_id"`
		Count  int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]int64, len(rows))
	for _, row := range rows {
		out[row.UserID] = row.Count
	}
	return out, nil
}

var _ services.OrderRepository = (*OrderRepository)(nil)
