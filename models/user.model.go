package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleCustomer = "user"
	RoleAdmin    = "admin"
)

// Address represents a user's saved delivery address
type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	ZipCode string `bson:"zipcode" json:"zipcode"`
	Country string `bson:"country" json:"country"`
}

// User represents a user in the system
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"`
	Phone             string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Password          string             `bson:"password,omitempty" json:"-"`
	Address           Address            `bson:"address" json:"address"`
	Role              string             `bson:"role" json:"role"` // "user" or "admin"
	IsVerified        bool               `bson:"is_verified" json:"is_verified"`
	VerificationToken string             `bson:"verification_token" json:"-"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
}

// Customer is a user row as listed in the back office
type Customer struct {
	User       `bson:",inline"`
	OrderCount int64 `bson:"order_count" json:"order_count"`
}
