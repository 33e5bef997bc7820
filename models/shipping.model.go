package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShippingOption is a delivery method offered at checkout
type ShippingOption struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name            string             `bson:"name" json:"name" validate:"required"`
	Description     string             `bson:"description" json:"description"`
	Price           float64            `bson:"price" json:"price" validate:"gte=0"`
	DeliveryDaysMin int                `bson:"delivery_days_min" json:"delivery_days_min" validate:"gte=0"`
	DeliveryDaysMax int                `bson:"delivery_days_max" json:"delivery_days_max" validate:"gtefield=DeliveryDaysMin"`
	FreeThreshold   *float64           `bson:"free_threshold" json:"free_threshold" validate:"omitempty,gt=0"`
	IsActive        bool               `bson:"is_active" json:"is_active"`
	SortOrder       int                `bson:"sort_order" json:"sort_order"`
}
