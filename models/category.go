package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryStatusShow = "Show"
	CategoryStatusHide = "Hide"
)

// Category is a parent name with flat child names; children are not addressable on their own.
type Category struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Img         string               `bson:"img,omitempty" json:"img,omitempty"`
	Parent      string               `bson:"parent" json:"parent"`
	Children    []string             `bson:"children" json:"children"`
	ProductType string               `bson:"productType,omitempty" json:"productType,omitempty"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Products    []primitive.ObjectID `bson:"products" json:"products"`
	Status      string               `bson:"status" json:"status"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

const (
	BrandStatusActive   = "active"
	BrandStatusInactive = "inactive"
)

type Brand struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name        string               `bson:"name" json:"name"`
	Logo        string               `bson:"logo,omitempty" json:"logo,omitempty"`
	Email       string               `bson:"email,omitempty" json:"email,omitempty"`
	Website     string               `bson:"website,omitempty" json:"website,omitempty"`
	Location    string               `bson:"location,omitempty" json:"location,omitempty"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Status      string               `bson:"status" json:"status"`
	Products    []primitive.ObjectID `bson:"products" json:"products"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}
