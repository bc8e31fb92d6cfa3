package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProductStatusInStock      = "in-stock"
	ProductStatusOutOfStock   = "out-of-stock"
	ProductStatusDiscontinued = "discontinued"
)

type ImageColor struct {
	Name    string `bson:"name" json:"name"`
	ClrCode string `bson:"clrCode,omitempty" json:"clrCode,omitempty"`
}

// ProductImage is one gallery entry; the color tag drives the storefront color filter.
type ProductImage struct {
	Color *ImageColor `bson:"color,omitempty" json:"color,omitempty"`
	Img   string      `bson:"img" json:"img"`
	Sizes []string    `bson:"sizes,omitempty" json:"sizes,omitempty"`
}

type BrandRef struct {
	Name string             `bson:"name" json:"name"`
	ID   primitive.ObjectID `bson:"id,omitempty" json:"id,omitempty"`
}

// CategoryRef is the denormalized category carried on a product.
type CategoryRef struct {
	Name     string             `bson:"name" json:"name"`
	ID       primitive.ObjectID `bson:"id,omitempty" json:"id,omitempty"`
	Children []string           `bson:"children,omitempty" json:"children,omitempty"`
}

type OfferDate struct {
	StartDate *time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate   *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
}

type Product struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	SKU         string               `bson:"sku,omitempty" json:"sku,omitempty"`
	Title       string               `bson:"title" json:"title"`
	Slug        string               `bson:"slug,omitempty" json:"slug,omitempty"`
	Unit        string               `bson:"unit,omitempty" json:"unit,omitempty"`
	Img         string               `bson:"img,omitempty" json:"img,omitempty"`
	ImageURLs   []ProductImage       `bson:"imageURLs" json:"imageURLs"`
	Parent      string               `bson:"parent" json:"parent"`
	Children    string               `bson:"children" json:"children"`
	Price       float64              `bson:"price" json:"price"`
	Discount    float64              `bson:"discount" json:"discount"`
	Quantity    int                  `bson:"quantity" json:"quantity"`
	Brand       BrandRef             `bson:"brand" json:"brand"`
	Category    CategoryRef          `bson:"category" json:"category"`
	Status      string               `bson:"status" json:"status"`
	Reviews     []primitive.ObjectID `bson:"reviews" json:"reviews"`
	ProductType string               `bson:"productType,omitempty" json:"productType,omitempty"`
	Gender      string               `bson:"gender,omitempty" json:"gender,omitempty"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Tags        []string             `bson:"tags,omitempty" json:"tags,omitempty"`
	Sizes       []string             `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Featured    bool                 `bson:"featured" json:"featured"`
	OfferDate   *OfferDate           `bson:"offerDate,omitempty" json:"offerDate,omitempty"`
	SellCount   int                  `bson:"sellCount" json:"sellCount"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// DiscountedPrice is the unit price after the percentage discount.
func (p *Product) DiscountedPrice() float64 {
	if p.Discount <= 0 {
		return p.Price
	}
	return p.Price - p.Price*p.Discount/100
}

// ProductDetail is a product with its reviews populated.
type ProductDetail struct {
	*Product
	Reviews []Review `json:"reviews"`
}
