package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment represents a payment for an order
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID       primitive.ObjectID `bson:"order_id" json:"order_id"`
	OrderNumber   string             `bson:"order_number" json:"order_number"`
	TransactionID string             `bson:"transaction_id" json:"transaction_id"`
	PaymentMethod string             `bson:"payment_method" json:"payment_method"` // "card" or "cash_on_delivery"
	Amount        float64            `bson:"amount" json:"amount"`
	Status        string             `bson:"status" json:"status"`
	CardLast4     string             `bson:"card_last4,omitempty" json:"card_last4,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
