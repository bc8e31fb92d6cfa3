package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
)

// OrderStatuses lists every valid status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusReturned,
}

// Valid reports whether s is one of OrderStatuses.
func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

const (
	PaymentMethodCOD  = "COD"
	PaymentMethodCard = "Card"
)

// OrderItem is a snapshot of the product at checkout time.
type OrderItem struct {
	ProductID     primitive.ObjectID `bson:"_id" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	Img           string             `bson:"img,omitempty" json:"img,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	OrderQuantity int                `bson:"orderQuantity" json:"orderQuantity"`
	Color         *ImageColor        `bson:"color,omitempty" json:"color,omitempty"`
	Size          string             `bson:"size,omitempty" json:"size,omitempty"`
	Category      *CategoryRef       `bson:"category,omitempty" json:"category,omitempty"`
}

type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User           primitive.ObjectID `bson:"user" json:"user"`
	Invoice        int64              `bson:"invoice" json:"invoice"`
	Cart           []OrderItem        `bson:"cart" json:"cart"`
	Name           string             `bson:"name" json:"name"`
	Address        string             `bson:"address" json:"address"`
	Email          string             `bson:"email" json:"email"`
	Contact        string             `bson:"contact" json:"contact"`
	City           string             `bson:"city" json:"city"`
	Country        string             `bson:"country" json:"country"`
	ZipCode        string             `bson:"zipCode" json:"zipCode"`
	SubTotal       float64            `bson:"subTotal" json:"subTotal"`
	ShippingCost   float64            `bson:"shippingCost" json:"shippingCost"`
	Discount       float64            `bson:"discount" json:"discount"`
	TotalAmount    float64            `bson:"totalAmount" json:"totalAmount"`
	ShippingOption string             `bson:"shippingOption,omitempty" json:"shippingOption,omitempty"`
	CardInfo       map[string]any     `bson:"cardInfo,omitempty" json:"cardInfo,omitempty"`
	PaymentIntent  map[string]any     `bson:"paymentIntent,omitempty" json:"paymentIntent,omitempty"`
	PaymentMethod  string             `bson:"paymentMethod" json:"paymentMethod"`
	OrderNote      string             `bson:"orderNote,omitempty" json:"orderNote,omitempty"`
	CouponCode     string             `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	Status         OrderStatus        `bson:"status" json:"status"`
	StockRestored  bool               `bson:"stockRestored,omitempty" json:"-"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderEvent is published to SNS on every order create and status change.
type OrderEvent struct {
	EventType   string      `json:"event_type"`
	OrderID     string      `json:"order_id"`
	Invoice     int64       `json:"invoice"`
	Status      OrderStatus `json:"status"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	TotalAmount float64     `json:"total_amount"`
	Timestamp   time.Time   `json:"timestamp"`
}

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
)

// OrderStatusCounts summarises a customer's orders.
type OrderStatusCounts struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Delivered  int64 `json:"delivered"`
}
