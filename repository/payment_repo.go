package repository

import (
	"context"

	"go-storefront/models"
	"go-storefront/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type PaymentRepository struct {
	Collection *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{Collection: db.Collection(PaymentsCollection)}
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	p.ID = primitive.NewObjectID()
	_, err := r.Collection.InsertOne(ctx, p)
	return err
}

func (r *PaymentRepository) List(ctx context.Context) ([]models.Payment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findAll[models.Payment](ctx, r.Collection, bson.M{}, sortBy("created_at", -1))
}

var _ services.PaymentRepository = (*PaymentRepository)(nil)
