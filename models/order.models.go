package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment methods accepted at checkout
const (
	PaymentMethodCard           = "card"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
)

// ShippingAddress is the delivery contact captured on the first checkout step
type ShippingAddress struct {
	Email      string `bson:"email" json:"email" validate:"required,email"`
	FirstName  string `bson:"first_name" json:"first_name" validate:"required"`
	LastName   string `bson:"last_name" json:"last_name" validate:"required"`
	Phone      string `bson:"phone" json:"phone" validate:"required"`
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city" validate:"required"`
	PostalCode string `bson:"postal_code,omitempty" json:"postal_code,omitempty"`
	Country    string `bson:"country" json:"country" validate:"required,len=2"`
}

// FullName joins first and last name.
func (a ShippingAddress) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Order represents a placed order
type Order struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Number          string              `bson:"number" json:"number"`
	UserID          *primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Items           []CartItem          `bson:"items" json:"items"`
	Shipping        ShippingAddress     `bson:"shipping" json:"shipping"`
	ShippingMethod  string              `bson:"shipping_method" json:"shipping_method"`
	Subtotal        float64             `bson:"subtotal" json:"subtotal"`
	PromoCode       string              `bson:"promo_code,omitempty" json:"promo_code,omitempty"`
	Discount        float64             `bson:"discount" json:"discount"`
	ShippingCost    float64             `bson:"shipping_cost" json:"shipping_cost"`
	TotalAmount     float64             `bson:"total_amount" json:"total_amount"`
	Currency        string              `bson:"currency" json:"currency"`
	PaymentMethod   string              `bson:"payment_method" json:"payment_method"`
	PaymentStatus   string              `bson:"payment_status" json:"payment_status"`
	Status          string              `bson:"status" json:"status"`
	TrackingNumber  string              `bson:"tracking_number,omitempty" json:"tracking_number,omitempty"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `bson:"updated_at" json:"updated_at"`
	DeliveryDateMin string              `bson:"delivery_date_min,omitempty" json:"delivery_date_min,omitempty"`
	DeliveryDateMax string              `bson:"delivery_date_max,omitempty" json:"delivery_date_max,omitempty"`
}

// OrderStats aggregates order figures for the back office
type OrderStats struct {
	Revenue       float64 `bson:"revenue" json:"revenue"`
	OrderCount    int64   `bson:"order_count" json:"order_count"`
	PendingOrders int64   `bson:"pending_orders" json:"pending_orders"`
}
