package routes

import (
	"github.com/GuruprasadLokhande/Vastrashahi-Project/common/auth"
	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/controllers"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/middleware"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/gin-gonic/gin"
)

// Controllers bundles every HTTP handler set the API exposes.
type Controllers struct {
	Admin    *controllers.AdminController
	User     *controllers.UserController
	Category *controllers.CategoryController
	Brand    *controllers.BrandController
	Product  *controllers.ProductController
	Order    *controllers.OrderController
	Coupon   *controllers.CouponController
	Review   *controllers.ReviewController
	Media    *controllers.MediaController
}

// RegisterRoutes mounts the API under /api. Unknown paths get 404 and wrong methods 405.
func RegisterRoutes(r *gin.Engine, ctrl Controllers, tokens *auth.TokenService) {
	authed := middleware.IsAuth(tokens)
	staffOnly := middleware.Authorize(models.AdminRoles...)
	admin := []gin.HandlerFunc{authed, staffOnly}

	api := r.Group("/api")

	adminRoutes := api.Group("/admin")
	{
		adminRoutes.POST("/register", ctrl.Admin.Register)
		adminRoutes.POST("/login", ctrl.Admin.Login)
		adminRoutes.PATCH("/forget-password", ctrl.Admin.ForgetPassword)
		adminRoutes.PATCH("/confirm-forget-password", ctrl.Admin.ConfirmForgetPassword)
		adminRoutes.PATCH("/change-password", ctrl.Admin.ChangePassword)
		adminRoutes.POST("/reset-password", ctrl.Admin.ResetPassword)

		staff := adminRoutes.Group("", admin...)
		staff.POST("/add", ctrl.Admin.AddStaff)
		staff.GET("/all", ctrl.Admin.GetAllStaff)
		staff.GET("/get/:id", ctrl.Admin.GetStaff)
		staff.PATCH("/update-stuff/:id", ctrl.Admin.UpdateStaff)
		staff.PATCH("/update-status/:id", ctrl.Admin.UpdateStatus)
		staff.DELETE("/:id", ctrl.Admin.DeleteStaff)
		staff.GET("/dashboard-stats", ctrl.Admin.DashboardStats)
	}

	userRoutes := api.Group("/user")
	{
		userRoutes.POST("/signup", ctrl.User.Signup)
		userRoutes.POST("/login", ctrl.User.Login)
		userRoutes.GET("/confirmEmail/:token", ctrl.User.ConfirmEmail)
		userRoutes.PATCH("/forget-password", ctrl.User.ForgetPassword)
		userRoutes.PATCH("/confirm-forget-password", ctrl.User.ConfirmForgetPassword)
		userRoutes.POST("/register/:token", ctrl.User.SignUpWithProvider)
		userRoutes.POST("/refresh-token", ctrl.User.RefreshToken)
		userRoutes.PATCH("/change-password", authed, ctrl.User.ChangePassword)
		userRoutes.PUT("/update-user/:id", authed, ctrl.User.UpdateUser)
	}

	categoryRoutes := api.Group("/category")
	{
		categoryRoutes.GET("", ctrl.Category.GetCategories)
		categoryRoutes.GET("/show", ctrl.Category.ShowCategories)
		categoryRoutes.GET("/show/:type", ctrl.Category.ShowCategories)

		managed := categoryRoutes.Group("", admin...)
		managed.POST("/add", ctrl.Category.AddCategory)
		managed.POST("/add-all", ctrl.Category.AddAllCategories)
		managed.GET("/all", ctrl.Category.GetCategories)
		managed.GET("/get/:id", ctrl.Category.GetCategory)
		managed.PATCH("/edit/:id", ctrl.Category.UpdateCategory)
		managed.DELETE("/delete/:id", ctrl.Category.DeleteCategory)
	}

	brandRoutes := api.Group("/brand")
	{
		brandRoutes.GET("/active", ctrl.Brand.ActiveBrands)

		managed := brandRoutes.Group("", admin...)
		managed.POST("/add", ctrl.Brand.AddBrand)
		managed.GET("/all", ctrl.Brand.GetBrands)
		managed.GET("/get/:id", ctrl.Brand.GetBrand)
		managed.PATCH("/edit/:id", ctrl.Brand.UpdateBrand)
		managed.DELETE("/delete/:id", ctrl.Brand.DeleteBrand)
	}

	productRoutes := api.Group("/product")
	{
		productRoutes.GET("", ctrl.Product.ShopProducts)
		productRoutes.GET("/offer", ctrl.Product.OfferProducts)
		productRoutes.GET("/popular", ctrl.Product.PopularProducts)
		productRoutes.GET("/top-rated", ctrl.Product.TopRatedProducts)
		productRoutes.GET("/related/:id", ctrl.Product.RelatedProducts)
		productRoutes.GET("/type/:type", ctrl.Product.ProductsByType)
		productRoutes.GET("/:id", ctrl.Product.GetProduct)

		managed := productRoutes.Group("", admin...)
		managed.POST("/add", ctrl.Product.AddProduct)
		managed.POST("/add-all", ctrl.Product.AddAllProducts)
		managed.GET("/all", ctrl.Product.GetAllProducts)
		managed.GET("/single-product/:id", ctrl.Product.GetSingleProduct)
		managed.GET("/stock-out", ctrl.Product.StockOutProducts)
		managed.PATCH("/edit-product/:id", ctrl.Product.EditProduct)
		managed.DELETE("/:id", ctrl.Product.DeleteProduct)
	}

	orderRoutes := api.Group("/order", authed)
	{
		orderRoutes.POST("/create", ctrl.Order.CreateOrder)
		orderRoutes.POST("/create-payment-intent", ctrl.Order.CreatePaymentIntent)
		orderRoutes.GET("/my-orders", ctrl.Order.MyOrders)
		orderRoutes.PATCH("/update-status/:id", ctrl.Order.RequestStatus)
		orderRoutes.GET("/:id", ctrl.Order.GetOrder)

		managed := orderRoutes.Group("", staffOnly)
		managed.GET("/all", ctrl.Order.ListOrders)
		managed.GET("/get/:id", ctrl.Order.GetOrder)
		managed.PATCH("/status/:id", ctrl.Order.UpdateStatus)
	}

	couponRoutes := api.Group("/coupon")
	{
		couponRoutes.GET("", ctrl.Coupon.ActiveCoupons)
		couponRoutes.POST("/validate", ctrl.Coupon.ValidateCoupon)

		managed := couponRoutes.Group("", admin...)
		managed.POST("/add", ctrl.Coupon.AddCoupon)
		managed.GET("/all", ctrl.Coupon.GetCoupons)
		managed.GET("/:id", ctrl.Coupon.GetCoupon)
		managed.PATCH("/:id", ctrl.Coupon.UpdateCoupon)
		managed.DELETE("/:id", ctrl.Coupon.DeleteCoupon)
	}

	reviewRoutes := api.Group("/review")
	{
		reviewRoutes.POST("/add", authed, ctrl.Review.AddReview)
		reviewRoutes.DELETE("/delete/:id", authed, staffOnly, ctrl.Review.DeleteReview)
	}

	mediaRoutes := api.Group("/cloudinary")
	{
		mediaRoutes.POST("/add-img", ctrl.Media.AddImage)
		mediaRoutes.POST("/add-multiple-img", ctrl.Media.AddMultipleImages)

		managed := mediaRoutes.Group("", admin...)
		managed.DELETE("/img-delete", ctrl.Media.DeleteImage)
		managed.POST("/presign", ctrl.Media.Presign)
	}

	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) {
		apperrors.Abort(c, apperrors.ErrRouteNotFound)
	})
	r.NoMethod(func(c *gin.Context) {
		apperrors.Abort(c, apperrors.ErrMethodNotAllowed)
	})
}
