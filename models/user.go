package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBlocked  = "blocked"
)

type User struct {
	ID                      primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name                    string               `bson:"name" json:"name"`
	Email                   string               `bson:"email" json:"email"`
	Password                string               `bson:"password,omitempty" json:"-"`
	Role                    string               `bson:"role" json:"role"`
	Contact                 string               `bson:"contactNumber,omitempty" json:"contactNumber,omitempty"`
	ShippingAddress         string               `bson:"shippingAddress,omitempty" json:"shippingAddress,omitempty"`
	ImageURL                string               `bson:"imageURL,omitempty" json:"imageURL,omitempty"`
	Phone                   string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Address                 string               `bson:"address,omitempty" json:"address,omitempty"`
	Bio                     string               `bson:"bio,omitempty" json:"bio,omitempty"`
	Status                  string               `bson:"status" json:"status"`
	GoogleSignIn            bool                 `bson:"googleSignIn,omitempty" json:"googleSignIn,omitempty"`
	Reviews                 []primitive.ObjectID `bson:"reviews,omitempty" json:"reviews,omitempty"`
	ConfirmationToken       string               `bson:"confirmationToken,omitempty" json:"-"`
	ConfirmationTokenExpiry *time.Time           `bson:"confirmationTokenExpires,omitempty" json:"-"`
	PasswordChangedAt       *time.Time           `bson:"passwordChangedAt,omitempty" json:"-"`
	CreatedAt               time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt               time.Time            `bson:"updatedAt" json:"updatedAt"`
}
