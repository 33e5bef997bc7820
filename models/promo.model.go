package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Discount types
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// PromoCode is a redeemable discount token
type PromoCode struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Code           string             `bson:"code" json:"code" validate:"required,max=32"`
	DiscountType   string             `bson:"discount_type" json:"discount_type" validate:"oneof=percentage fixed"`
	DiscountValue  float64            `bson:"discount_value" json:"discount_value" validate:"gt=0"`
	MinOrderAmount float64            `bson:"min_order_amount" json:"min_order_amount" validate:"gte=0"`
	MaxUses        *int               `bson:"max_uses" json:"max_uses" validate:"omitempty,gt=0"`
	CurrentUses    int                `bson:"current_uses" json:"current_uses"`
	ValidFrom      time.Time          `bson:"valid_from" json:"valid_from"`
	ValidUntil     *time.Time         `bson:"valid_until" json:"valid_until"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
