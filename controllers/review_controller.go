package controllers

import (
	"net/http"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	service ReviewServiceAPI
	cache   *CacheManager
}

func NewReviewController(s ReviewServiceAPI, cache *CacheManager) *ReviewController {
	return &ReviewController{service: s, cache: cache}
}

func (ctrl *ReviewController) AddReview(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var in services.ReviewInput
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	review, err := ctrl.service.AddReview(c.Request.Context(), userID, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.cache.InvalidateProduct(c.Request.Context(), review.ProductID.Hex())
	respond(c, http.StatusCreated, "Review added successfully.", review)
}

func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	review, err := ctrl.service.DeleteReview(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.cache.InvalidateProduct(c.Request.Context(), review.ProductID.Hex())
	respond(c, http.StatusOK, "Review deleted successfully", nil)
}
