package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents an article of the catalog
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price" validate:"gt=0"`
	SalePrice   *float64           `bson:"sale_price,omitempty" json:"sale_price,omitempty" validate:"omitempty,gt=0"`
	CategoryID  primitive.ObjectID `bson:"category_id,omitempty" json:"category_id,omitempty"`
	Images      []string           `bson:"images" json:"images"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	Colors      []string           `bson:"colors" json:"colors"`
	Stock       int                `bson:"stock" json:"stock" validate:"gte=0"`
	IsFeatured  bool               `bson:"is_featured" json:"is_featured"`
	IsNew       bool               `bson:"is_new" json:"is_new"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// EffectivePrice returns the sale price when one is set.
func (p Product) EffectivePrice() float64 {
	if p.SalePrice != nil && *p.SalePrice > 0 && *p.SalePrice < p.Price {
		return *p.SalePrice
	}
	return p.Price
}

// MainImage returns the first image, if any.
func (p Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
