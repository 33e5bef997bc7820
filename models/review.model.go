package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a customer rating of a product
type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ProductID  primitive.ObjectID `bson:"product_id" json:"product_id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	Rating     int                `bson:"rating" json:"rating" validate:"min=1,max=5"`
	Comment    string             `bson:"comment" json:"comment" validate:"max=2000"`
	IsApproved bool               `bson:"is_approved" json:"is_approved"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
