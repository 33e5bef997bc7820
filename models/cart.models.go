package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem represents one line of a shopping cart. A line is identified by
// the product, size and color together.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug,omitempty" json:"slug,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Price     float64            `bson:"price" json:"price"`
	Size      string             `bson:"size" json:"size"`
	Color     string             `bson:"color" json:"color"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Matches reports whether the line has the given identity key.
func (i CartItem) Matches(productID primitive.ObjectID, size, color string) bool {
	return i.ProductID == productID && i.Size == size && i.Color == color
}

// LineTotal is the unit price times the quantity.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
