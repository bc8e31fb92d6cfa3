package controllers

import (
	"context"
	"time"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/common/auth"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default configuration values
const (
	DefaultCacheTTL       = 10 * time.Minute
	DefaultContextTimeout = 30 * time.Second
)

// ProductServiceAPI defines the product operations the handlers need
type ProductServiceAPI interface {
	CreateProduct(ctx context.Context, in services.ProductInput) (*models.Product, error)
	CreateProducts(ctx context.Context, inputs []services.ProductInput) ([]models.Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetProductDetail(ctx context.Context, id primitive.ObjectID) (*models.ProductDetail, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, patch []byte) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	ListAll(ctx context.Context) ([]models.Product, error)
	ShopProducts(ctx context.Context, f services.ShopFilter, page, limit int) ([]models.Product, services.Page, error)
	RelatedProducts(ctx context.Context, id primitive.ObjectID, category string) ([]models.Product, error)
	ProductsByType(ctx context.Context, productType string, opt services.TypeListing) ([]models.Product, error)
	OfferProducts(ctx context.Context) ([]models.Product, error)
	PopularProducts(ctx context.Context) ([]models.Product, error)
	TopRatedProducts(ctx context.Context) ([]models.Product, error)
	StockOutProducts(ctx context.Context) ([]models.Product, error)
}

type CategoryServiceAPI interface {
	CreateCategory(ctx context.Context, in services.CategoryInput) (*models.Category, error)
	CreateCategories(ctx context.Context, inputs []services.CategoryInput) ([]models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ShowCategories(ctx context.Context, productType string) ([]services.CategoryWithProducts, error)
	GetCategory(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, patch []byte) (*models.Category, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
}

type BrandServiceAPI interface {
	CreateBrand(ctx context.Context, in services.BrandInput) (*models.Brand, error)
	ListBrands(ctx context.Context, activeOnly bool) ([]models.Brand, error)
	GetBrand(ctx context.Context, id primitive.ObjectID) (*models.Brand, error)
	UpdateBrand(ctx context.Context, id primitive.ObjectID, patch []byte) (*models.Brand, error)
	DeleteBrand(ctx context.Context, id primitive.ObjectID) error
}

type OrderServiceAPI interface {
	CreateOrder(ctx context.Context, userID primitive.ObjectID, in services.CreateOrderInput, idemKey string) (*models.Order, bool, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
	RequestStatus(ctx context.Context, userID, id primitive.ObjectID, status string) (*models.Order, error)
	GetOrder(ctx context.Context, id, requester primitive.ObjectID, isAdmin bool) (*models.Order, error)
	ListOrders(ctx context.Context, page, limit int) ([]models.Order, services.Page, error)
	MyOrders(ctx context.Context, userID primitive.ObjectID, page, limit int) (*services.MyOrders, error)
}

type PaymentServiceAPI interface {
	CreatePaymentIntent(ctx context.Context, in services.PaymentIntentInput) (*services.PaymentIntentResult, error)
}

type CouponServiceAPI interface {
	CreateCoupon(ctx context.Context, in services.CouponInput) (*models.Coupon, error)
	ValidateCoupon(ctx context.Context, req models.ValidateCouponRequest) (*models.ValidateCouponResponse, error)
	ActiveCoupons(ctx context.Context) ([]models.Coupon, error)
	ListCoupons(ctx context.Context) ([]models.Coupon, error)
	GetCoupon(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	UpdateCoupon(ctx context.Context, id primitive.ObjectID, patch []byte) (*models.Coupon, error)
	DeleteCoupon(ctx context.Context, id primitive.ObjectID) error
}

type ReviewServiceAPI interface {
	AddReview(ctx context.Context, userID primitive.ObjectID, in services.ReviewInput) (*models.Review, error)
	DeleteReview(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
}

type AdminServiceAPI interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AdminAuth, error)
	Login(ctx context.Context, in services.LoginInput) (*services.AdminLogin, error)
	ForgetPassword(ctx context.Context, email string) error
	ConfirmForgetPassword(ctx context.Context, token, password string) error
	ChangePassword(ctx context.Context, email, oldPass, newPass string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	AddStaff(ctx context.Context, in services.StaffInput) (*models.Admin, error)
	ListStaff(ctx context.Context) ([]models.Admin, error)
	GetStaff(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	UpdateStaff(ctx context.Context, id primitive.ObjectID, patch []byte) (*models.Admin, string, error)
	DeleteStaff(ctx context.Context, id primitive.ObjectID) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Admin, error)
}

type DashboardServiceAPI interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type UserServiceAPI interface {
	Signup(ctx context.Context, in services.RegisterInput) error
	Login(ctx context.Context, in services.LoginInput) (*services.UserLogin, error)
	ConfirmEmail(ctx context.Context, token string) error
	ForgetPassword(ctx context.Context, email string) error
	ConfirmForgetPassword(ctx context.Context, token, password string) error
	ChangePassword(ctx context.Context, in services.ChangePasswordInput) error
	UpdateUser(ctx context.Context, id primitive.ObjectID, in services.UpdateUserInput) (*services.UserAuth, error)
	SignUpWithProvider(ctx context.Context, token string) (*services.UserAuth, error)
}

// TokenRefresher rotates refresh tokens for both staff and customers.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
}
