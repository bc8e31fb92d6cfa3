package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	awspkg "github.com/GuruprasadLokhande/Vastrashahi-Project/pkg/aws"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// IdempotencyTTL is how long an Idempotency-Key keeps pointing at its order.
const IdempotencyTTL = 24 * time.Hour

// ReturnRequested is the storefront's label for a return request.
const ReturnRequested = "Return Requested"

type OrderItemInput struct {
	ProductID     string             `json:"_id" validate:"required"`
	OrderQuantity int                `json:"orderQuantity" validate:"required,min=1"`
	Color         *models.ImageColor `json:"color"`
	Size          string             `json:"size"`
}

type CreateOrderInput struct {
	Name           string           `json:"name" validate:"required"`
	Address        string           `json:"address" validate:"required"`
	Email          string           `json:"email" validate:"required,email"`
	Contact        string           `json:"contact" validate:"required"`
	City           string           `json:"city" validate:"required"`
	Country        string           `json:"country" validate:"required"`
	ZipCode        string           `json:"zipCode" validate:"required"`
	Cart           []OrderItemInput `json:"cart" validate:"required,min=1,dive"`
	ShippingCost   float64          `json:"shippingCost" validate:"gte=0"`
	ShippingOption string           `json:"shippingOption"`
	CardInfo       map[string]any   `json:"cardInfo"`
	PaymentIntent  map[string]any   `json:"paymentIntent"`
	PaymentMethod  string           `json:"paymentMethod" validate:"omitempty,oneof=COD Card"`
	OrderNote      string           `json:"orderNote"`
	CouponCode     string           `json:"couponCode"`
}

// IdempotencyStore maps a customer's idempotency keys to order ids. Keys are scoped per user.
type IdempotencyStore interface {
	GetIdempotency(ctx context.Context, userID, key string) (string, error)
	SetIdempotency(ctx context.Context, userID, key, orderID string, ttl time.Duration) error
}

// CouponRedeemer consumes one use of a coupon and returns the discount for cartTotal.
// Release gives back a use taken by a checkout that did not complete.
type CouponRedeemer interface {
	Redeem(ctx context.Context, code string, cartTotal float64) (float64, *models.Coupon, error)
	Release(ctx context.Context, code string) error
}

// MyOrders is a customer's order page with their status counts.
type MyOrders struct {
	Orders []models.Order           `json:"orders"`
	Counts models.OrderStatusCounts `json:"counts"`
	Meta   Page                     `json:"meta"`
}

type OrderService struct {
	orders   repository.OrderRepo
	products repository.ProductRepo
	coupons  CouponRedeemer
	idem     IdempotencyStore
	events   *EventPublisher
	metrics  awspkg.MetricsRecorder
	logger   *zap.Logger
}

func NewOrderService(
	orders repository.OrderRepo,
	products repository.ProductRepo,
	coupons CouponRedeemer,
	idem IdempotencyStore,
	events *EventPublisher,
	metrics awspkg.MetricsRecorder,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		coupons:  coupons,
		idem:     idem,
		events:   events,
		metrics:  metrics,
		logger:   logger,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type reservedLine struct {
	id  primitive.ObjectID
	qty int
}

// rollback returns reserved stock, and the coupon use when one was redeemed, after a failed checkout.
func (s *OrderService) rollback(lines []reservedLine, redeemed ...string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, code := range redeemed {
		if err := s.coupons.Release(ctx, code); err != nil {
			s.logger.Error("Failed to release coupon use", zap.String("code", code), zap.Error(err))
		}
	}
	for _, l := range lines {
		if err := s.products.RestoreStock(ctx, l.id, l.qty); err != nil {
			s.logger.Error("Failed to roll back stock", zap.String("product_id", l.id.Hex()), zap.Int("qty", l.qty), zap.Error(err))
		}
	}
}

func (s *OrderService) replay(ctx context.Context, userID primitive.ObjectID, key string) (*models.Order, bool) {
	if s.idem == nil || key == "" {
		return nil, false
	}
	orderID, err := s.idem.GetIdempotency(ctx, userID.Hex(), key)
	if err != nil {
		s.logger.Warn("Idempotency lookup failed", zap.Error(err))
		return nil, false
	}
	if orderID == "" {
		return nil, false
	}
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, false
	}
	order, err := s.orders.FindByID(ctx, oid)
	if err != nil || order.User != userID {
		return nil, false
	}
	return order, true
}

// CreateOrder reprices the cart, reserves stock and stores the order. A repeated
// idempotency key returns the order created the first time and replayed is true.
func (s *OrderService) CreateOrder(ctx context.Context, userID primitive.ObjectID, in CreateOrderInput, idemKey string) (order *models.Order, replayed bool, err error) {
	if existing, ok := s.replay(ctx, userID, idemKey); ok {
		s.logger.Info("Idempotent order replay", zap.String("order_id", existing.ID.Hex()))
		return existing, true, nil
	}
	if len(in.Cart) == 0 {
		return nil, false, apperrors.BadRequest("Cart is empty")
	}

	cart := make([]models.OrderItem, 0, len(in.Cart))
	var subTotal float64
	for _, line := range in.Cart {
		pid, err := ParseID(line.ProductID)
		if err != nil {
			return nil, false, err
		}
		product, err := s.products.FindByID(ctx, pid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, false, apperrors.BadRequest("Product not found")
			}
			return nil, false, apperrors.Internal("Failed to create order", err)
		}
		if product.Status == models.ProductStatusDiscontinued {
			return nil, false, apperrors.BadRequest(fmt.Sprintf("%s is no longer available", product.Title))
		}
		price := round2(product.DiscountedPrice())
		category := product.Category
		cart = append(cart, models.OrderItem{
			ProductID:     product.ID,
			Title:         product.Title,
			Img:           product.Img,
			Price:         price,
			OrderQuantity: line.OrderQuantity,
			Color:         line.Color,
			Size:          line.Size,
			Category:      &category,
		})
		subTotal += price * float64(line.OrderQuantity)
	}
	subTotal = round2(subTotal)

	reserved := make([]reservedLine, 0, len(cart))
	for _, item := range cart {
		ok, err := s.products.DecrementStock(ctx, item.ProductID, item.OrderQuantity)
		if err != nil {
			s.rollback(reserved)
			return nil, false, apperrors.Internal("Failed to reserve stock", err)
		}
		if !ok {
			s.rollback(reserved)
			return nil, false, apperrors.BadRequest("Insufficient stock for " + item.Title)
		}
		reserved = append(reserved, reservedLine{id: item.ProductID, qty: item.OrderQuantity})
	}

	shipping := in.ShippingCost
	var discount float64
	var redeemed []string
	code := strings.ToUpper(strings.TrimSpace(in.CouponCode))
	if code != "" {
		if s.coupons == nil {
			s.rollback(reserved)
			return nil, false, apperrors.BadRequest("Coupon not found or inactive")
		}
		d, coupon, err := s.coupons.Redeem(ctx, code, subTotal)
		if err != nil {
			s.rollback(reserved)
			return nil, false, err
		}
		redeemed = append(redeemed, code)
		discount = round2(d)
		if coupon.DiscountType == models.CouponTypeFreeShipping {
			shipping = 0
		}
	}

	invoice, err := s.orders.NextInvoice(ctx)
	if err != nil {
		s.rollback(reserved, redeemed...)
		s.logger.Error("Failed to allocate invoice number", zap.Error(err))
		return nil, false, apperrors.Internal("Failed to create order", err)
	}

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCOD
	}
	now := time.Now().UTC()
	order = &models.Order{
		User:           userID,
		Invoice:        invoice,
		Cart:           cart,
		Name:           in.Name,
		Address:        in.Address,
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Contact:        in.Contact,
		City:           in.City,
		Country:        in.Country,
		ZipCode:        in.ZipCode,
		SubTotal:       subTotal,
		ShippingCost:   shipping,
		Discount:       discount,
		TotalAmount:    math.Max(0, round2(subTotal+shipping-discount)),
		ShippingOption: in.ShippingOption,
		CardInfo:       in.CardInfo,
		PaymentIntent:  in.PaymentIntent,
		PaymentMethod:  paymentMethod,
		OrderNote:      in.OrderNote,
		CouponCode:     code,
		Status:         models.OrderStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.rollback(reserved, redeemed...)
		s.logger.Error("Failed to store order", zap.Error(err))
		return nil, false, apperrors.Internal("Failed to create order", err)
	}

	if s.idem != nil && idemKey != "" {
		if err := s.idem.SetIdempotency(ctx, userID.Hex(), idemKey, order.ID.Hex(), IdempotencyTTL); err != nil {
			s.logger.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}
	s.events.Publish(ctx, models.EventOrderCreated, order)
	s.record(awspkg.MetricOrdersCreated)

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.Hex()),
		zap.Int64("invoice", order.Invoice),
		zap.String("user_id", userID.Hex()),
		zap.Float64("total", order.TotalAmount),
	)
	return order, false, nil
}

func (s *OrderService) record(metric string) {
	awspkg.RecordCountAsync(s.metrics, metric, map[string]string{"Service": "vastrashahi"}, s.logger)
}

// restoreStock puts a cancelled order's quantities back exactly once.
func (s *OrderService) restoreStock(ctx context.Context, order *models.Order) error {
	flipped, err := s.orders.MarkStockRestored(ctx, order.ID)
	if err != nil {
		return apperrors.Internal("Failed to restore stock", err)
	}
	if !flipped {
		return nil
	}
	for _, item := range order.Cart {
		if err := s.products.RestoreStock(ctx, item.ProductID, item.OrderQuantity); err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("Failed to restore stock", zap.String("order_id", order.ID.Hex()), zap.String("product_id", item.ProductID.Hex()), zap.Error(err))
		}
	}
	return nil
}

func (s *OrderService) applyStatus(ctx context.Context, order *models.Order, status models.OrderStatus) (*models.Order, error) {
	if order.Status == status {
		return order, nil
	}
	// Cancelling gave the stock back, so a cancelled order stays cancelled.
	if order.Status == models.OrderStatusCancelled {
		return nil, apperrors.BadRequest("Cancelled orders cannot be reopened")
	}
	if err := s.orders.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if status == models.OrderStatusCancelled {
		if err := s.restoreStock(ctx, order); err != nil {
			return nil, err
		}
		s.record(awspkg.MetricOrdersCancelled)
	}
	previous := order.Status
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	s.events.Publish(ctx, models.EventOrderStatusChanged, order)
	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID.Hex()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)
	return order, nil
}

// UpdateStatus is the admin transition: any of the six statuses is accepted.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	st := models.OrderStatus(status)
	if !st.Valid() {
		return nil, apperrors.BadRequest("Invalid order status")
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	return s.applyStatus(ctx, order, st)
}

// RequestStatus is the customer transition: cancel while pending or processing, return once delivered.
func (s *OrderService) RequestStatus(ctx context.Context, userID, id primitive.ObjectID, status string) (*models.Order, error) {
	if strings.EqualFold(status, ReturnRequested) {
		status = string(models.OrderStatusReturned)
	}
	st := models.OrderStatus(strings.ToLower(status))
	if st != models.OrderStatusCancelled && st != models.OrderStatusReturned {
		return nil, apperrors.Forbidden("Customers can only cancel or return orders")
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if order.User != userID {
		return nil, apperrors.NotFound("Order not found")
	}
	if order.Status == st {
		return order, nil
	}

	switch st {
	case models.OrderStatusCancelled:
		if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusProcessing {
			return nil, apperrors.BadRequest("Order can no longer be cancelled")
		}
	case models.OrderStatusReturned:
		if order.Status != models.OrderStatusDelivered {
			return nil, apperrors.BadRequest("Only delivered orders can be returned")
		}
	}
	return s.applyStatus(ctx, order, st)
}

// GetOrder returns an order to its owner or to an admin.
func (s *OrderService) GetOrder(ctx context.Context, id, requester primitive.ObjectID, isAdmin bool) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if !isAdmin && order.User != requester {
		return nil, apperrors.NotFound("Order not found")
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, page, limit int) ([]models.Order, Page, error) {
	page, limit = NormalizePage(page, limit)
	total, err := s.orders.Count(ctx, repository.OrderQuery{})
	if err != nil {
		return nil, Page{}, apperrors.Internal("Failed to fetch orders", err)
	}
	orders, err := s.orders.Find(ctx, repository.OrderQuery{}, (page-1)*limit, limit)
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.Error(err))
		return nil, Page{}, apperrors.Internal("Failed to fetch orders", err)
	}
	return orders, NewPage(page, limit, total), nil
}

func (s *OrderService) MyOrders(ctx context.Context, userID primitive.ObjectID, page, limit int) (*MyOrders, error) {
	page, limit = NormalizePage(page, limit)
	q := repository.OrderQuery{User: userID}

	total, err := s.orders.Count(ctx, q)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch orders", err)
	}
	orders, err := s.orders.Find(ctx, q, (page-1)*limit, limit)
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.String("user_id", userID.Hex()), zap.Error(err))
		return nil, apperrors.Internal("Failed to fetch orders", err)
	}

	var counts models.OrderStatusCounts
	for status, dst := range map[models.OrderStatus]*int64{
		models.OrderStatusPending:    &counts.Pending,
		models.OrderStatusProcessing: &counts.Processing,
		models.OrderStatusDelivered:  &counts.Delivered,
	} {
		n, err := s.orders.Count(ctx, repository.OrderQuery{User: userID, Status: status})
		if err != nil {
			return nil, apperrors.Internal("Failed to fetch orders", err)
		}
		*dst = n
	}

	return &MyOrders{Orders: orders, Counts: counts, Meta: NewPage(page, limit, total)}, nil
}
