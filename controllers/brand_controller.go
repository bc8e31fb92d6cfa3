package controllers

import (
	"net/http"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"github.com/gin-gonic/gin"
)

type BrandController struct {
	service BrandServiceAPI
	cache   *CacheManager
}

func NewBrandController(s BrandServiceAPI, cache *CacheManager) *BrandController {
	return &BrandController{service: s, cache: cache}
}

func (ctrl *BrandController) AddBrand(c *gin.Context) {
	var in services.BrandInput
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	brand, err := ctrl.service.CreateBrand(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.cache.InvalidateProduct(c.Request.Context(), "")
	respond(c, http.StatusCreated, "Brand added successfully", brand)
}

func (ctrl *BrandController) ActiveBrands(c *gin.Context) {
	brands, err := ctrl.service.ListBrands(c.Request.Context(), true)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", brands)
}

func (ctrl *BrandController) GetBrands(c *gin.Context) {
	brands, err := ctrl.service.ListBrands(c.Request.Context(), false)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", brands)
}

func (ctrl *BrandController) GetBrand(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	brand, err := ctrl.service.GetBrand(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", brand)
}

func (ctrl *BrandController) UpdateBrand(c *gin.Context) {
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
	brand, err := ctrl.service.UpdateBrand(c.Request.Context(), id, patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.cache.InvalidateProduct(c.Request.Context(), "")
	respond(c, http.StatusOK, "Brand updated successfully", brand)
}

func (ctrl *BrandController) DeleteBrand(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctrl.service.DeleteBrand(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.cache.InvalidateProduct(c.Request.Context(), "")
	respond(c, http.StatusOK, "Brand deleted successfully", nil)
}
