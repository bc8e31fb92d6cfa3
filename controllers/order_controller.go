package controllers

import (
	"context"
	"net/http"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/middleware"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdempotencyHeader lets clients retry order creation safely.
const IdempotencyHeader = "Idempotency-Key"

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type OrderController struct {
	orders   OrderServiceAPI
	payments PaymentServiceAPI
	cache    *CacheManager
}

func NewOrderController(orders OrderServiceAPI, payments PaymentServiceAPI, cache *CacheManager) *OrderController {
	return &OrderController{orders: orders, payments: payments, cache: cache}
}

func callerID(c *gin.Context) (primitive.ObjectID, error) {
	oid, err := middleware.GetUserID(c)
	if err != nil {
		return oid, apperrors.Unauthorized("Authorization header missing")
	}
	return oid, nil
}

// stockChanged drops cached catalog entries for products whose stock moved.
func (ctrl *OrderController) stockChanged(ctx context.Context, order *models.Order) {
	for _, item := range order.Cart {
		ctrl.cache.InvalidateProduct(ctx, item.ProductID.Hex())
	}
}

func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var in services.CreateOrderInput
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}

	order, replayed, err := ctrl.orders.CreateOrder(c.Request.Context(), userID, in, c.GetHeader(IdempotencyHeader))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if replayed {
		respond(c, http.StatusOK, "Order already placed", order)
		return
	}
	ctrl.stockChanged(c.Request.Context(), order)
	respond(c, http.StatusCreated, "Order placed successfully", order)
}

func (ctrl *OrderController) CreatePaymentIntent(c *gin.Context) {
	var in services.PaymentIntentInput
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	result, err := ctrl.payments.CreatePaymentIntent(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", result)
}

func (ctrl *OrderController) MyOrders(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, limit := pagination(c)
	result, err := ctrl.orders.MyOrders(c.Request.Context(), userID, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Orders,
		"counts":  result.Counts,
		"meta":    result.Meta,
	})
}

// GetOrder serves an order to its owner or to staff.
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	order, err := ctrl.orders.GetOrder(c.Request.Context(), id, userID, middleware.HasRole(c, models.AdminRoles...))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, "", order)
}

// RequestStatus is the customer's cancel or return request.
func (ctrl *OrderController) RequestStatus(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req StatusRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	order, err := ctrl.orders.RequestStatus(c.Request.Context(), userID, id, req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if order.Status == models.OrderStatusCancelled {
		ctrl.stockChanged(c.Request.Context(), order)
	}
	respond(c, http.StatusOK, "Order status updated successfully", order)
}

func (ctrl *OrderController) ListOrders(c *gin.Context) {
	page, limit := pagination(c)
	orders, meta, err := ctrl.orders.ListOrders(c.Request.Context(), page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondPage(c, http.StatusOK, orders, meta)
}

func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req StatusRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	order, err := ctrl.orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if order.Status == models.OrderStatusCancelled {
		ctrl.stockChanged(c.Request.Context(), order)
	}
	respond(c, http.StatusOK, "Order status updated successfully", order)
}
