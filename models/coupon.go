package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CouponType is the kind of discount a coupon grants.
type CouponType string

const (
	CouponTypePercentage   CouponType = "percentage"
	CouponTypeFlat         CouponType = "flat"
	CouponTypeFreeShipping CouponType = "freeshipping"
)

const (
	CouponStatusActive   = "active"
	CouponStatusInactive = "inactive"
)

type Coupon struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title              string             `bson:"title" json:"title"`
	Logo               string             `bson:"logo,omitempty" json:"logo,omitempty"`
	CouponCode         string             `bson:"couponCode" json:"couponCode"`
	DiscountPercentage float64            `bson:"discountPercentage,omitempty" json:"discountPercentage,omitempty"`
	DiscountType       CouponType         `bson:"discountType" json:"discountType"`
	Value              float64            `bson:"value,omitempty" json:"value,omitempty"`
	MinimumAmount      float64            `bson:"minimumAmount" json:"minimumAmount"`
	UsageLimit         int                `bson:"usageLimit" json:"usageLimit"` // 0 = unlimited
	UsedCount          int                `bson:"usedCount" json:"usedCount"`
	StartTime          *time.Time         `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime            time.Time          `bson:"endTime" json:"endTime"`
	ProductType        string             `bson:"productType,omitempty" json:"productType,omitempty"`
	Status             string             `bson:"status" json:"status"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Percent is the percentage a percentage coupon takes off. Older documents only carry discountPercentage.
func (c *Coupon) Percent() float64 {
	if c.Value > 0 {
		return c.Value
	}
	return c.DiscountPercentage
}

type ValidateCouponRequest struct {
	CouponCode string  `json:"couponCode" binding:"required"`
	CartTotal  float64 `json:"cartTotal" binding:"gte=0"`
}

type ValidateCouponResponse struct {
	Valid          bool       `json:"valid"`
	CouponCode     string     `json:"couponCode"`
	DiscountType   CouponType `json:"discountType,omitempty"`
	DiscountAmount float64    `json:"discountAmount"`
	Message        string     `json:"message,omitempty"`
}
