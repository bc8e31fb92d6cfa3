package controllers

import (
	"net/http"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"github.com/gin-gonic/gin"
)

type CouponController struct {
	service CouponServiceAPI
}

func NewCouponController(s CouponServiceAPI) *CouponController {
	return &CouponController{service: s}
}

func (ctrl *CouponController) AddCoupon(c *gin.Context) {
	var in services.CouponInput
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	coupon, err := ctrl.service.CreateCoupon(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusCreated, "Coupon added successfully", coupon)
}

// ValidateCoupon always answers 200; the body says whether the code applies.
func (ctrl *CouponController) ValidateCoupon(c *gin.Context) {
	var req models.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("couponCode is required"))
		return
	}
	result, err := ctrl.service.ValidateCoupon(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, result.Message, result)
}

func (ctrl *CouponController) ActiveCoupons(c *gin.Context) {
	coupons, err := ctrl.service.ActiveCoupons(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", coupons)
}

func (ctrl *CouponController) GetCoupons(c *gin.Context) {
	coupons, err := ctrl.service.ListCoupons(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", coupons)
}

func (ctrl *CouponController) GetCoupon(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	coupon, err := ctrl.service.GetCoupon(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", coupon)
}

func (ctrl *CouponController) UpdateCoupon(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	patch, err := readBody(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	coupon, err := ctrl.service.UpdateCoupon(c.Request.Context(), id, patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Coupon updated successfully", coupon)
}

func (ctrl *CouponController) DeleteCoupon(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctrl.service.DeleteCoupon(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "Coupon deleted successfully", nil)
}
