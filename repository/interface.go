package repository

import (
	"context"
	"errors"
	"time"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// ProductQuery narrows product listings. Zero values mean "no constraint".
type ProductQuery struct {
	IDs           []primitive.ObjectID
	CategoryName  string
	ProductType   string
	ExcludeID     primitive.ObjectID
	Featured      bool
	OfferAfter    time.Time
	StockOut      bool
	QuantityBelow int
	SortBy        string // createdAt | sellCount; stored order when empty
	Limit         int
	Skip          int
}

// ProductRepo is the product store used by the catalog and order services.
type ProductRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Find(ctx context.Context, q ProductQuery) ([]models.Product, error)
	Count(ctx context.Context, q ProductQuery) (int64, error)
	Create(ctx context.Context, product *models.Product) error
	CreateMany(ctx context.Context, products []models.Product) error
	Replace(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DecrementStock takes qty units only when at least qty are on hand and reports whether it did.
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (bool, error)
	RestoreStock(ctx context.Context, id primitive.ObjectID, qty int) error
	AddReview(ctx context.Context, productID, reviewID primitive.ObjectID) error
	RemoveReview(ctx context.Context, productID, reviewID primitive.ObjectID) error
	Popular(ctx context.Context, limit int) ([]models.Product, error)
	TopRated(ctx context.Context, limit int) ([]models.Product, error)
}

// CategoryQuery narrows category listings.
type CategoryQuery struct {
	Status      string
	ProductType string
}

type CategoryRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindByParent(ctx context.Context, parent string) (*models.Category, error)
	Find(ctx context.Context, q CategoryQuery) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	CreateMany(ctx context.Context, categories []models.Category) error
	Replace(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddProduct(ctx context.Context, categoryID, productID primitive.ObjectID) error
	RemoveProduct(ctx context.Context, categoryID, productID primitive.ObjectID) error
}

type BrandRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Brand, error)
	FindByName(ctx context.Context, name string) (*models.Brand, error)
	Find(ctx context.Context, status string) ([]models.Brand, error)
	Create(ctx context.Context, brand *models.Brand) error
	Replace(ctx context.Context, brand *models.Brand) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddProduct(ctx context.Context, brandID, productID primitive.ObjectID) error
	RemoveProduct(ctx context.Context, brandID, productID primitive.ObjectID) error
}

// OrderQuery narrows order listings and counts.
type OrderQuery struct {
	User          primitive.ObjectID
	Status        models.OrderStatus
	ExcludeStatus models.OrderStatus
	Since         time.Time
}

type OrderRepo interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// Find returns orders newest first.
	Find(ctx context.Context, q OrderQuery, skip, limit int) ([]models.Order, error)
	Count(ctx context.Context, q OrderQuery) (int64, error)
	SumTotal(ctx context.Context, q OrderQuery) (float64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
	// MarkStockRestored flips the restored flag once and reports whether this call flipped it.
	MarkStockRestored(ctx context.Context, id primitive.ObjectID) (bool, error)
	NextInvoice(ctx context.Context) (int64, error)
	HasPurchased(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
}

type CouponRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	// Find lists coupons; activeAt, when non-zero, keeps active coupons that end after it.
	Find(ctx context.Context, activeAt time.Time) ([]models.Coupon, error)
	Create(ctx context.Context, coupon *models.Coupon) error
	Replace(ctx context.Context, coupon *models.Coupon) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// Redeem bumps usedCount while the coupon is under its usage limit and reports success.
	Redeem(ctx context.Context, code string) (bool, error)
	Release(ctx context.Context, code string) error
}

type ReviewRepo interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error)
	Exists(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type AdminRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByConfirmationToken(ctx context.Context, token string) (*models.Admin, error)
	FindAll(ctx context.Context) ([]models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	Replace(ctx context.Context, admin *models.Admin) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByConfirmationToken(ctx context.Context, token string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Replace(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
	AddReview(ctx context.Context, userID, reviewID primitive.ObjectID) error
}
