package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups products in the catalog
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Slug        string             `bson:"slug" json:"slug" validate:"required"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	SortOrder   int                `bson:"sort_order" json:"sort_order"`
}
