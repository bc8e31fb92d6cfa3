package controllers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductController struct {
	service ProductServiceAPI
	cache   *CacheManager
}

func NewProductController(s ProductServiceAPI, cache *CacheManager) *ProductController {
	return &ProductController{service: s, cache: cache}
}

// cachedJSON serves key from the cache, or builds the envelope, sends it and caches it.
func (ctrl *ProductController) cachedJSON(c *gin.Context, key string, build func() (gin.H, error)) {
	if body, ok := ctrl.cache.Get(c.Request.Context(), key); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}
	payload, err := build()
	if err != nil {
		_ = c.Error(err)
		return
	}
	payload["success"] = true
	body, err := json.Marshal(payload)
	if err != nil {
		_ = c.Error(apperrors.Internal("Failed to encode response", err))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
	ctrl.cache.SetAsync(key, body)
}

func (ctrl *ProductController) listKey(c *gin.Context, scope string) string {
	key, _ := ctrl.cache.ListKey(c.Request.Context(), scope, c.Param("id")+c.Param("type")+"?"+c.Request.URL.Query().Encode())
	return key
}

func (ctrl *ProductController) AddProduct(c *gin.Context) {
	var in services.ProductInput
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	product, err := ctrl.service.CreateProduct(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.cache.InvalidateProduct(c.Request.Context(), "")
	respond(c, http.StatusCreated, "Product created successfully!", product)
}

func (ctrl *ProductController) AddAllProducts(c *gin.Context) {
	inputs, err := bindJSONList[services.ProductInput](c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	products, err := ctrl.service.CreateProducts(c.Request.Context(), inputs)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.cache.InvalidateProduct(c.Request.Context(), "")
	respond(c, http.StatusCreated, "Products added successfully", products)
}

func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	products, err := ctrl.service.ListAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", products)
}

func (ctrl *ProductController) GetSingleProduct(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	product, err := ctrl.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", product)
}

func (ctrl *ProductController) EditProduct(c *gin.Context) {
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
	product, err := ctrl.service.UpdateProduct(c.Request.Context(), id, patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.cache.InvalidateProduct(c.Request.Context(), id.Hex())
	respond(c, http.StatusOK, "Product updated successfully", product)
}

func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := ctrl.service.DeleteProduct(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.cache.InvalidateProduct(c.Request.Context(), id.Hex())
	zap.L().Info("Product deleted", zap.String("product_id", id.Hex()))
	respond(c, http.StatusOK, "Product deleted successfully", nil)
}

// ShopProducts runs the storefront filter pipeline over the catalog and paginates the result.
func (ctrl *ProductController) ShopProducts(c *gin.Context) {
	filter, err := services.ParseShopFilter(c.Query)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, limit := pagination(c)
	ctrl.cachedJSON(c, ctrl.listKey(c, "shop"), func() (gin.H, error) {
		products, meta, err := ctrl.service.ShopProducts(c.Request.Context(), filter, page, limit)
		if err != nil {
			return nil, err
		}
		return gin.H{"data": products, "meta": meta}, nil
	})
}

func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.cachedJSON(c, DetailKey(id.Hex()), func() (gin.H, error) {
		detail, err := ctrl.service.GetProductDetail(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}
		return gin.H{"data": detail}, nil
	})
}

func (ctrl *ProductController) RelatedProducts(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.cachedJSON(c, ctrl.listKey(c, "related"), func() (gin.H, error) {
		products, err := ctrl.service.RelatedProducts(c.Request.Context(), id, c.Query("category"))
		return gin.H{"data": products}, err
	})
}

func (ctrl *ProductController) ProductsByType(c *gin.Context) {
	opt := services.TypeListing{
		New:        queryBool(c, "new"),
		Featured:   queryBool(c, "featured"),
		TopSellers: queryBool(c, "topSellers"),
	}
	ctrl.cachedJSON(c, ctrl.listKey(c, "type"), func() (gin.H, error) {
		products, err := ctrl.service.ProductsByType(c.Request.Context(), c.Param("type"), opt)
		return gin.H{"data": products}, err
	})
}

func (ctrl *ProductController) OfferProducts(c *gin.Context) {
	products, err := ctrl.service.OfferProducts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", products)
}

func (ctrl *ProductController) PopularProducts(c *gin.Context) {
	ctrl.cachedJSON(c, ctrl.listKey(c, "popular"), func() (gin.H, error) {
		products, err := ctrl.service.PopularProducts(c.Request.Context())
		return gin.H{"data": products}, err
	})
}

func (ctrl *ProductController) TopRatedProducts(c *gin.Context) {
	ctrl.cachedJSON(c, ctrl.listKey(c, "top-rated"), func() (gin.H, error) {
		products, err := ctrl.service.TopRatedProducts(c.Request.Context())
		return gin.H{"data": products}, err
	})
}

func (ctrl *ProductController) StockOutProducts(c *gin.Context) {
	products, err := ctrl.service.StockOutProducts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", products)
}
