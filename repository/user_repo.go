package repository

import (
	"context"

	"go-storefront/models"
	"go-storefront/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	Collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Collection: db.Collection(UsersCollection)}
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var u models.User
	if err := r.Collection.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, services.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"verification_token": token})
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	u.ID = primitive.NewObjectID()
	_, err := r.Collection.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return services.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (r *UserRepository) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	return r.update(ctx, id, bson.M{"is_verified": true, "verification_token": ""})
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, phone string, addr models.Address) error {
	return r.update(ctx, id, bson.M{"name": name, "phone": phone, "address": addr})
}

func (r *UserRepository) ListCustomers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findAll[models.User](ctx, r.Collection, bson.M{"role": models.RoleCustomer}, sortBy("created_at", -1))
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return r.Collection.CountDocuments(ctx, bson.M{"role": models.RoleCustomer})
}

var _ services.UserRepository = (*UserRepository)(nil)
