package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "Super Admin"
	RoleManager    = "Manager"
	RoleCEO        = "CEO"
	RoleUser       = "user"
)

// AdminRoles are the staff roles allowed through admin routes.
var AdminRoles = []string{RoleAdmin, RoleSuperAdmin, RoleManager, RoleCEO}

const (
	StaffStatusActive   = "Active"
	StaffStatusInactive = "Inactive"
)

type Admin struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name                    string             `bson:"name" json:"name"`
	Image                   string             `bson:"image,omitempty" json:"image,omitempty"`
	Address                 string             `bson:"address,omitempty" json:"address,omitempty"`
	Country                 string             `bson:"country,omitempty" json:"country,omitempty"`
	City                    string             `bson:"city,omitempty" json:"city,omitempty"`
	Email                   string             `bson:"email" json:"email"`
	Phone                   string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Password                string             `bson:"password" json:"-"`
	Role                    string             `bson:"role" json:"role"`
	JoiningDate             *time.Time         `bson:"joiningDate,omitempty" json:"joiningDate,omitempty"`
	Status                  string             `bson:"status" json:"status"`
	ConfirmationToken       string             `bson:"confirmationToken,omitempty" json:"-"`
	ConfirmationTokenExpiry *time.Time         `bson:"confirmationTokenExpires,omitempty" json:"-"`
	CreatedAt               time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt               time.Time          `bson:"updatedAt" json:"updatedAt"`
}
