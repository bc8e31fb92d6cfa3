package controllers

import (
	"net/http"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	service CategoryServiceAPI
	cache   *CacheManager
}

func NewCategoryController(s CategoryServiceAPI, cache *CacheManager) *CategoryController {
	return &CategoryController{service: s, cache: cache}
}

func (ctrl *CategoryController) AddCategory(c *gin.Context) {
	var in services.CategoryInput
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	category, err := ctrl.service.CreateCategory(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.cache.InvalidateProduct(c.Request.Context(), "")
	respond(c, http.StatusCreated, "Category added successfully", category)
}

func (ctrl *CategoryController) AddAllCategories(c *gin.Context) {
	inputs, err := bindJSONList[services.CategoryInput](c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	categories, err := ctrl.service.CreateCategories(c.Request.Context(), inputs)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.cache.InvalidateProduct(c.Request.Context(), "")
	respond(c, http.StatusCreated, "Categories added successfully", categories)
}

func (ctrl *CategoryController) GetCategories(c *gin.Context) {
	categories, err := ctrl.service.ListCategories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", categories)
}

// ShowCategories lists visible categories, narrowed to a product type when the path has one.
func (ctrl *CategoryController) ShowCategories(c *gin.Context) {
	categories, err := ctrl.service.ShowCategories(c.Request.Context(), c.Param("type"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", categories)
}

func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	category, err := ctrl.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", category)
}

func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
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
	category, err := ctrl.service.UpdateCategory(c.Request.Context(), id, patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.cache.InvalidateProduct(c.Request.Context(), "")
	respond(c, http.StatusOK, "Category updated successfully", category)
}

func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctrl.service.DeleteCategory(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.cache.InvalidateProduct(c.Request.Context(), "")
	respond(c, http.StatusOK, "Category deleted successfully", nil)
}
